package model

import "strings"

// Role codes as stored in users.role
const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CAJERO"
)

// NormalizeRole upper-cases a role and maps the English alias CASHIER to
// RoleCashier. Unknown roles are returned unchanged (upper-cased).
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	if r == "CASHIER" {
		return RoleCashier
	}
	return r
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier
}
