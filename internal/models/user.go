// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// UserStatus represents whether a user may sign in.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a CMS user with authentication and 2FA fields.
// RoleID references a Role; like every foreign key it is resolved at
// read time and may dangle.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	RoleID       string     `json:"role_id,omitempty"`
	Status       UserStatus `json:"status"`
	TOTPSecret   string     `json:"-"` // Set during 2FA setup
	TOTPEnabled  bool       `json:"totp_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive returns true if the user may sign in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// EnrichedUser is a user with their role resolved for display.
type EnrichedUser struct {
	User
	Role *Role `json:"role,omitempty"`
}

// UserFilters enumerates every recognized list option for users.
type UserFilters struct {
	Search    string     // case-insensitive substring over email, username, display name
	RoleID    string     // exact match
	Status    UserStatus // exact match
	SortBy    string     // "email", "username", "display_name", "created_at", "last_login_at"
	SortOrder string     // "asc" or "desc"
}

// Role represents a named permission set. System roles are seeded at
// install time and cannot be renamed or deleted.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	System      bool      `json:"system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	UserCount int `json:"user_count"`
}

// HasPermission reports whether the role grants the named permission,
// either directly or through the "*" wildcard.
func (r *Role) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == "*" || p == perm {
			return true
		}
	}
	return false
}

// AdminRoleSlug is the slug of the seeded administrator role. The last
// active user holding it cannot be deleted or deactivated.
const AdminRoleSlug = "administrator"
