package entity

import "time"

// Purpose scopes a verification token. At most one live token exists per (user, purpose).
type Purpose string

const (
	// PurposeVerifyEmail proves ownership of the registered email address.
	PurposeVerifyEmail Purpose = "verifyEmail"

	// PurposeResetPassword authorises setting a new password.
	PurposeResetPassword Purpose = "resetPassword"
)

// VerificationToken is a single-use numeric code delivered out of band.
type VerificationToken struct {
	ID        uint
	UserID    uint
	Purpose   Purpose
	Code      string
	ExpiresAt time.Time
	// Payload is auxiliary data stored with the token. It is opaque to the token lifecycle.
	Payload   map[string]any
	CreatedAt time.Time
}

// IsExpired reports whether the token's expiry instant is before now.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
