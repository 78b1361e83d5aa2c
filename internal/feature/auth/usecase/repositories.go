package usecase

import (
	"context"

	"auth_backend/internal/feature/auth/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. PasswordHash must already be set.
	// It returns domain.ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user by lowercased email without the password hash.
	// It returns domain.ErrUserNotFound if the user does not exist.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByEmailWithPassword is FindByEmail with PasswordHash populated.
	FindByEmailWithPassword(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a user by ID without the password hash.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// SetVerified marks the user's email as verified.
	SetVerified(ctx context.Context, id uint) error

	// SetPassword replaces the stored password hash.
	SetPassword(ctx context.Context, id uint, passwordHash string) error

	// Delete removes the user. Deleting a missing user is not an error.
	Delete(ctx context.Context, id uint) error
}

// TokenRepository abstracts the persistence layer for verification tokens.
type TokenRepository interface {
	// DeleteAllForUserAndPurpose removes every token of the purpose for the user.
	// It is idempotent.
	DeleteAllForUserAndPurpose(ctx context.Context, userID uint, purpose entity.Purpose) error

	// Create persists a new token. ID and CreatedAt are set on success.
	Create(ctx context.Context, token *entity.VerificationToken) error

	// FindByUserCodeAndPurpose returns domain.ErrInvalidToken if no token matches.
	FindByUserCodeAndPurpose(ctx context.Context, userID uint, code string, purpose entity.Purpose) (*entity.VerificationToken, error)

	// ExistsForUser reports whether any stored token of the user carries code.
	ExistsForUser(ctx context.Context, userID uint, code string) (bool, error)

	// Consume deletes the token together with all tokens of the same purpose for
	// the same user. It returns true only for the caller that removed the token
	// itself, so at most one of several concurrent callers wins.
	Consume(ctx context.Context, token *entity.VerificationToken) (bool, error)
}
