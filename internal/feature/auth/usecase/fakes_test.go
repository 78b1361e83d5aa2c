package usecase

import (
	"context"
	"sync"
	"time"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
)

// memUserRepository is an in-memory UserRepository used by lifecycle tests.
type memUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]entity.User

	setVerifiedCalls int
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: map[uint]entity.User{}}
}

func (r *memUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepository) find(email string, withPassword bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			if !withPassword {
				u.PasswordHash = ""
			}
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(email, false)
}

func (r *memUserRepository) FindByEmailWithPassword(_ context.Context, email string) (*entity.User, error) {
	return r.find(email, true)
}

func (r *memUserRepository) FindByID(_ context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *memUserRepository) SetVerified(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsVerified = true
	r.users[id] = u
	r.setVerifiedCalls++
	return nil
}

func (r *memUserRepository) SetPassword(_ context.Context, id uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *memUserRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// memTokenRepository is an in-memory TokenRepository. Consume is atomic under mu.
type memTokenRepository struct {
	mu     sync.Mutex
	nextID uint
	tokens map[uint]entity.VerificationToken

	// existsResults, when set, is consumed by ExistsForUser before looking at stored tokens.
	existsResults []bool
	createErr     error
}

func newMemTokenRepository() *memTokenRepository {
	return &memTokenRepository{tokens: map[uint]entity.VerificationToken{}}
}

func (r *memTokenRepository) DeleteAllForUserAndPurpose(_ context.Context, userID uint, purpose entity.Purpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.UserID == userID && t.Purpose == purpose {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *memTokenRepository) Create(_ context.Context, token *entity.VerificationToken) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = *token
	return nil
}

func (r *memTokenRepository) FindByUserCodeAndPurpose(_ context.Context, userID uint, code string, purpose entity.Purpose) (*entity.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID && t.Code == code && t.Purpose == purpose {
			return &t, nil
		}
	}
	return nil, domain.ErrInvalidToken
}

func (r *memTokenRepository) ExistsForUser(_ context.Context, userID uint, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.existsResults) > 0 {
		res := r.existsResults[0]
		r.existsResults = r.existsResults[1:]
		return res, nil
	}
	for _, t := range r.tokens {
		if t.UserID == userID && t.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTokenRepository) Consume(_ context.Context, token *entity.VerificationToken) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token.ID]
	for id, t := range r.tokens {
		if t.UserID == token.UserID && t.Purpose == token.Purpose {
			delete(r.tokens, id)
		}
	}
	return ok, nil
}

func (r *memTokenRepository) count(userID uint, purpose entity.Purpose) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID && t.Purpose == purpose {
			n++
		}
	}
	return n
}
