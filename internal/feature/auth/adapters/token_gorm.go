package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// tokenGorm implements the TokenRepository interface on top of GORM.
type tokenGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure tokenGorm implements TokenRepository.
var _ usecase.TokenRepository = (*tokenGorm)(nil)

// NewTokenGorm creates a new instance of tokenGorm.
func NewTokenGorm(db *gorm.DB) *tokenGorm {
	return &tokenGorm{db: db}
}

// DeleteAllForUserAndPurpose removes all tokens of the purpose for the user.
func (r *tokenGorm) DeleteAllForUserAndPurpose(ctx context.Context, userID uint, purpose entity.Purpose) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		Delete(&VerificationTokenModel{}).Error
}

// Create persists a new token.
func (r *tokenGorm) Create(ctx context.Context, token *entity.VerificationToken) error {
	model := VerificationTokenModelFromEntity(token)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	token.ID = model.ID
	token.CreatedAt = model.CreatedAt
	return nil
}

// FindByUserCodeAndPurpose returns the token matching all three keys.
func (r *tokenGorm) FindByUserCodeAndPurpose(ctx context.Context, userID uint, code string, purpose entity.Purpose) (*entity.VerificationToken, error) {
	var model VerificationTokenModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND purpose = ?", userID, code, string(purpose)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// ExistsForUser reports whether the user has any token with the given code.
func (r *tokenGorm) ExistsForUser(ctx context.Context, userID uint, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&VerificationTokenModel{}).
		Where("user_id = ? AND code = ?", userID, code).
		Count(&count).Error
	return count > 0, err
}

// Consume deletes the token and its purpose siblings in one transaction.
// Only the transaction that actually deleted the token row reports true.
func (r *tokenGorm) Consume(ctx context.Context, token *entity.VerificationToken) (bool, error) {
	won := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("id = ? AND code = ?", token.ID, token.Code).
			Delete(&VerificationTokenModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		won = true
		return tx.
			Where("user_id = ? AND purpose = ?", token.UserID, string(token.Purpose)).
			Delete(&VerificationTokenModel{}).Error
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// DeleteExpired removes all expired tokens from storage.
// Returns the number of deleted tokens.
func (r *tokenGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&VerificationTokenModel{})
	return result.RowsAffected, result.Error
}
