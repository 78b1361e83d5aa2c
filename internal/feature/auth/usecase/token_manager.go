package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
)

const (
	// CodeLength is the number of decimal digits in a verification code.
	CodeLength = 6

	// maxGenerateAttempts bounds collision retries. The code space per user is
	// large compared to the handful of live tokens a user can hold.
	maxGenerateAttempts = 10
)

var codeSpace = big.NewInt(1_000_000)

// TokenManager owns the verification token lifecycle: generation, issuance,
// redemption and the resulting state transition on the user record.
type TokenManager struct {
	users  UserRepository
	tokens TokenRepository
	random io.Reader
	now    func() time.Time
}

// NewTokenManager creates a TokenManager using crypto/rand and the wall clock.
func NewTokenManager(users UserRepository, tokens TokenRepository) *TokenManager {
	return &TokenManager{
		users:  users,
		tokens: tokens,
		random: rand.Reader,
		now:    time.Now,
	}
}

// Generate returns a fresh 6-digit code that no stored token of the user carries.
func (m *TokenManager) Generate(ctx context.Context, userID uint) (string, error) {
	for range maxGenerateAttempts {
		n, err := rand.Int(m.random, codeSpace)
		if err != nil {
			return "", domain.Wrap(domain.KindTokenGenerationFailed, "failed to generate verification token", err)
		}
		code := fmt.Sprintf("%0*d", CodeLength, n.Int64())

		exists, err := m.tokens.ExistsForUser(ctx, userID, code)
		if err != nil {
			return "", domain.Wrap(domain.KindTokenGenerationFailed, "failed to generate verification token", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.ErrTokenGenerationFailed
}

// Issue replaces any live token of the purpose for the user with a new one
// valid for ttl, and returns the plaintext code for out-of-band delivery.
func (m *TokenManager) Issue(ctx context.Context, user *entity.User, purpose entity.Purpose, ttl time.Duration, payload map[string]any) (string, error) {
	if err := m.tokens.DeleteAllForUserAndPurpose(ctx, user.ID, purpose); err != nil {
		return "", persistenceErr("failed to delete previous tokens", err)
	}

	code, err := m.Generate(ctx, user.ID)
	if err != nil {
		return "", err
	}

	if payload == nil {
		payload = map[string]any{}
	}
	token := &entity.VerificationToken{
		UserID:    user.ID,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: m.now().Add(ttl),
		Payload:   payload,
	}
	if err := m.tokens.Create(ctx, token); err != nil {
		return "", persistenceErr("failed to store token", err)
	}
	return code, nil
}

// Redeem validates code for the user registered under email and, on success,
// consumes every token of the purpose and applies the purpose's side effect.
// newPasswordHash is only used for PurposeResetPassword and ignored when empty.
// The returned user reflects the applied side effect.
func (m *TokenManager) Redeem(ctx context.Context, code, email string, purpose entity.Purpose, newPasswordHash string) (*entity.User, error) {
	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, persistenceErr("failed to find user", err)
	}

	token, err := m.tokens.FindByUserCodeAndPurpose(ctx, user.ID, code, purpose)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, domain.ErrInvalidToken
		}
		return nil, persistenceErr("failed to find token", err)
	}

	if token.IsExpired(m.now()) {
		// An expired token can never succeed, drop it and its siblings now.
		if err := m.tokens.DeleteAllForUserAndPurpose(ctx, user.ID, purpose); err != nil {
			slog.Warn("failed to delete expired tokens", "error", err, "user_id", user.ID, "purpose", purpose)
		}
		return nil, domain.ErrExpiredToken
	}

	won, err := m.tokens.Consume(ctx, token)
	if err != nil {
		return nil, persistenceErr("failed to consume token", err)
	}
	if !won {
		// Another redemption removed the token first.
		return nil, domain.ErrInvalidToken
	}

	switch purpose {
	case entity.PurposeVerifyEmail:
		if err := m.users.SetVerified(ctx, user.ID); err != nil {
			return nil, persistenceErr("failed to mark user verified", err)
		}
		user.IsVerified = true
	case entity.PurposeResetPassword:
		if newPasswordHash != "" {
			if err := m.users.SetPassword(ctx, user.ID, newPasswordHash); err != nil {
				return nil, persistenceErr("failed to update password", err)
			}
		}
	}
	return user, nil
}

// persistenceErr wraps err as a PersistenceError unless it already carries a kind.
func persistenceErr(message string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.Wrap(domain.KindPersistence, message, err)
}
