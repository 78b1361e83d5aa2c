// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// publicUserColumns are the columns read when the password hash is not requested.
var publicUserColumns = []string{"id", "fullname", "email", "is_verified", "created_at", "updated_at"}

// userGorm implements the UserRepository interface on top of GORM.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm with the given gorm.DB connection.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create adds a user to the database and copies the generated ID and timestamps back.
// It returns domain.ErrDuplicateEmail on a unique violation.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	model := UserModelFromEntity(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByEmail retrieves a user by email without the password hash.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Select(publicUserColumns), "email = ?", email)
}

// FindByEmailWithPassword retrieves a user by email including the password hash.
func (r *userGorm) FindByEmailWithPassword(ctx context.Context, email string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

// FindByID retrieves a user by ID without the password hash.
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Select(publicUserColumns), "id = ?", id)
}

func (r *userGorm) first(q *gorm.DB, cond string, arg any) (*entity.User, error) {
	var m UserModel
	if err := q.Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// SetVerified sets the verification flag of the user.
func (r *userGorm) SetVerified(ctx context.Context, id uint) error {
	return r.update(ctx, id, "is_verified", true)
}

// SetPassword replaces the user's password hash.
func (r *userGorm) SetPassword(ctx context.Context, id uint, passwordHash string) error {
	return r.update(ctx, id, "password", passwordHash)
}

func (r *userGorm) update(ctx context.Context, id uint, column string, value any) error {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user by ID.
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id).Error
}

// isUniqueViolation reports whether err is a duplicate key error, either translated
// by GORM or raised directly by Postgres (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
