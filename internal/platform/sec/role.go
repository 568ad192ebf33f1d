// Copyright (c) 2026 Velora. All rights reserved.
// Author: platform@velora.app

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Can create and manage a business profile
	RoleBusiness UserRole = "business"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleBusiness || r == RoleUser
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-20) allows for future intermediate roles
	switch r {
	case RoleBusiness:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
