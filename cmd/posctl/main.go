package main

import "go-inventory-pos/cmd/posctl/commands"

func main() {
	commands.Execute()
}
