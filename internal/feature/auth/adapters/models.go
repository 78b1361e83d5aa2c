package adapters

import (
	"time"

	"auth_backend/internal/feature/auth/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID         uint      `gorm:"primaryKey"`
	Fullname   string    `gorm:"size:255;not null"`
	Email      string    `gorm:"uniqueIndex;size:255;not null"`
	Password   string    `gorm:"size:255;not null"`
	IsVerified bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Fullname:     m.Fullname,
		Email:        m.Email,
		PasswordHash: m.Password,
		IsVerified:   m.IsVerified,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:         u.ID,
		Fullname:   u.Fullname,
		Email:      u.Email,
		Password:   u.PasswordHash,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// VerificationTokenModel is the GORM model for the verification_tokens table.
type VerificationTokenModel struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;index:idx_verification_tokens_user_purpose"`
	Purpose   string         `gorm:"size:32;not null;index:idx_verification_tokens_user_purpose"`
	Code      string         `gorm:"size:16;not null"`
	ExpiresAt time.Time      `gorm:"not null;index"`
	Payload   map[string]any `gorm:"serializer:json"`
	CreatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}

// ToEntity converts the GORM model to a domain entity.
func (m *VerificationTokenModel) ToEntity() *entity.VerificationToken {
	return &entity.VerificationToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Purpose:   entity.Purpose(m.Purpose),
		Code:      m.Code,
		ExpiresAt: m.ExpiresAt,
		Payload:   m.Payload,
		CreatedAt: m.CreatedAt,
	}
}

// VerificationTokenModelFromEntity converts a domain entity to a GORM model.
func VerificationTokenModelFromEntity(t *entity.VerificationToken) *VerificationTokenModel {
	return &VerificationTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Purpose:   string(t.Purpose),
		Code:      t.Code,
		ExpiresAt: t.ExpiresAt,
		Payload:   t.Payload,
		CreatedAt: t.CreatedAt,
	}
}

// Models lists every table owned by the auth feature, in migration order.
func Models() []any {
	return []any{&UserModel{}, &VerificationTokenModel{}}
}
