package domain

import (
	"slices"
	"time"
)

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// User represents an authenticated user account.
//
// Followers and Following are sets of user IDs with a symmetry invariant:
// b is in a.Followers exactly when a is in b.Following. The two halves live
// in separate documents, so a partial failure can break symmetry until a
// corrective pass.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`
	Bio          string    `json:"bio,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         Role      `json:"role"` // admin or member
	Followers    []string  `json:"followers,omitempty"`
	Following    []string  `json:"following,omitempty"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`

	// Refresh session state. The token itself is never stored, only its hash.
	RefreshTokenHash      string    `json:"refresh_token_hash,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitzero"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsFollowing returns true if the user follows the given user ID.
func (u *User) IsFollowing(userID string) bool {
	return slices.Contains(u.Following, userID)
}

// HasFollower returns true if the given user ID follows this user.
func (u *User) HasFollower(userID string) bool {
	return slices.Contains(u.Followers, userID)
}
