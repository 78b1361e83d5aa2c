// Package verification stores verification tokens in Redis.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// ExpiredRetention keeps an expired token readable for a while so that a late
// redemption is reported as expired rather than unknown.
const ExpiredRetention = time.Hour

// consumeScript deletes the token hash only if it still holds the expected id.
var consumeScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "id") == ARGV[1] then
	redis.call("DEL", KEYS[1])
	redis.call("SREM", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// TokenRedis implements usecase.TokenRepository using Redis.
// Each user holds at most one token per purpose.
type TokenRedis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// Compile-time check to ensure TokenRedis implements TokenRepository.
var _ usecase.TokenRepository = (*TokenRedis)(nil)

// NewTokenRedis creates a new TokenRedis instance.
func NewTokenRedis(client redis.UniversalClient, prefix string) *TokenRedis {
	return &TokenRedis{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// tokenKey returns the Redis key for a user's token of the purpose.
func (r *TokenRedis) tokenKey(userID uint, purpose entity.Purpose) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, userID, purpose)
}

// userPurposesKey returns the Redis key for the set of purposes a user holds tokens for.
func (r *TokenRedis) userPurposesKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

func (r *TokenRedis) sequenceKey() string {
	return r.prefix + ":seq"
}

// DeleteAllForUserAndPurpose removes the user's token of the purpose.
func (r *TokenRedis) DeleteAllForUserAndPurpose(ctx context.Context, userID uint, purpose entity.Purpose) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.tokenKey(userID, purpose))
		pipe.SRem(ctx, r.userPurposesKey(userID), string(purpose))
		return nil
	})
	return err
}

// Create persists a new token, replacing any token of the same purpose.
func (r *TokenRedis) Create(ctx context.Context, token *entity.VerificationToken) error {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("token already expired")
	}

	id, err := r.client.Incr(ctx, r.sequenceKey()).Result()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(token.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	createdAt := r.now()

	key := r.tokenKey(token.UserID, token.Purpose)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"id", strconv.FormatInt(id, 10),
			"code", token.Code,
			"expires_at", token.ExpiresAt.Format(time.RFC3339Nano),
			"created_at", createdAt.Format(time.RFC3339Nano),
			"payload", string(payload),
		)
		pipe.Expire(ctx, key, ttl+ExpiredRetention)
		pipe.SAdd(ctx, r.userPurposesKey(token.UserID), string(token.Purpose))
		return nil
	})
	if err != nil {
		return err
	}

	token.ID = uint(id)
	token.CreatedAt = createdAt
	return nil
}

// find loads the user's token of the purpose, or returns domain.ErrInvalidToken.
func (r *TokenRedis) find(ctx context.Context, userID uint, purpose entity.Purpose) (*entity.VerificationToken, error) {
	fields, err := r.client.HGetAll(ctx, r.tokenKey(userID, purpose)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, domain.ErrInvalidToken
	}
	return decodeToken(userID, purpose, fields)
}

func decodeToken(userID uint, purpose entity.Purpose, fields map[string]string) (*entity.VerificationToken, error) {
	id, err := strconv.ParseUint(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token id: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid token expiry: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])

	var payload map[string]any
	if raw := fields["payload"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return &entity.VerificationToken{
		ID:        uint(id),
		UserID:    userID,
		Purpose:   purpose,
		Code:      fields["code"],
		ExpiresAt: expiresAt,
		Payload:   payload,
		CreatedAt: createdAt,
	}, nil
}

// FindByUserCodeAndPurpose returns the token matching all three keys.
func (r *TokenRedis) FindByUserCodeAndPurpose(ctx context.Context, userID uint, code string, purpose entity.Purpose) (*entity.VerificationToken, error) {
	token, err := r.find(ctx, userID, purpose)
	if err != nil {
		return nil, err
	}
	if token.Code != code {
		return nil, domain.ErrInvalidToken
	}
	return token, nil
}

// ExistsForUser reports whether any of the user's tokens carries the code.
func (r *TokenRedis) ExistsForUser(ctx context.Context, userID uint, code string) (bool, error) {
	purposes, err := r.client.SMembers(ctx, r.userPurposesKey(userID)).Result()
	if err != nil {
		return false, err
	}

	for _, p := range purposes {
		stored, err := r.client.HGet(ctx, r.tokenKey(userID, entity.Purpose(p)), "code").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Token expired, remove from set
				r.client.SRem(ctx, r.userPurposesKey(userID), p)
				continue
			}
			return false, err
		}
		if stored == code {
			return true, nil
		}
	}
	return false, nil
}

// Consume atomically deletes the token. Only the caller that removed it gets true.
func (r *TokenRedis) Consume(ctx context.Context, token *entity.VerificationToken) (bool, error) {
	keys := []string{r.tokenKey(token.UserID, token.Purpose), r.userPurposesKey(token.UserID)}
	n, err := consumeScript.Run(ctx, r.client, keys, strconv.FormatUint(uint64(token.ID), 10), string(token.Purpose)).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteExpired removes expired tokens (handled by Redis TTL).
func (r *TokenRedis) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
