// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/verification"
)

// TokenStore is a TokenRepository that can also purge expired tokens.
type TokenStore interface {
	usecase.TokenRepository
	DeleteExpired(ctx context.Context) (int64, error)
}

// NewTokenStore creates a TokenStore implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to SQL.
func NewTokenStore(rdb *redis.Client, db *gorm.DB) TokenStore {
	if rdb != nil {
		return verification.NewTokenRedis(rdb, "verification")
	}
	return authadapters.NewTokenGorm(db)
}
