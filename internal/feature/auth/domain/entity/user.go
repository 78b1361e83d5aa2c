// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user.
	ID uint

	// Fullname is the display name given at registration.
	Fullname string

	// Email is the lowercased address used as the lookup key. It is unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// It is only populated when the store was asked to include it.
	PasswordHash string

	// IsVerified is set once the user redeems a verifyEmail token.
	IsVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
