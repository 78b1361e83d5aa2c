package usecase

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"auth_backend/internal/feature/auth/domain"
)

const (
	// minPasswordLength defines the minimum number of characters in a password.
	minPasswordLength = 8

	// dummyPasswordHash is compared against when the user does not exist so that
	// login always pays the cost of one bcrypt comparison.
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// validatePassword checks that the password meets the security requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.New(domain.KindValidation, fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}
	return nil
}

// hashPassword hashes the plaintext with bcrypt at the given cost.
func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// comparePassword reports whether password matches the bcrypt hash.
func comparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
