package commands

import (
	"errors"
	"fmt"

	"go-inventory-pos/internal/config"
	"go-inventory-pos/pkg/database"

	"github.com/spf13/cobra"
)

var (
	// reset-password flags
	resetUsername string
	resetPassword string
)

// resetPasswordCmd overwrites a user's password
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for a user",
	Long: `Set a new password for an existing user without knowing the old one.

Examples:
  posctl reset-password --username admin --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resetUsername == "" || resetPassword == "" {
			return errors.New("--username and --password are required")
		}

		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}

		if err := newAuthService(db, cfg).ResetPassword(cmd.Context(), resetUsername, resetPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Contraseña actualizada para %s\n", resetUsername)
		return nil
	},
}

// migrateCmd creates or updates the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(config.Load())
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Esquema actualizado")
		return nil
	},
}

func init() {
	resetPasswordCmd.Flags().StringVar(&resetUsername, "username", "", "User to update")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "New password (min 6 characters)")
	rootCmd.AddCommand(resetPasswordCmd, migrateCmd)
}
