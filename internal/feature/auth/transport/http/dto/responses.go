package dto

import (
	"time"

	"auth_backend/internal/feature/auth/domain/entity"
)

// UserView is the public representation of a user. It never carries the password hash.
type UserView struct {
	ID         uint      `json:"id"`
	Fullname   string    `json:"fullname"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUserView converts a domain user to its public view.
func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:         u.ID,
		Fullname:   u.Fullname,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// MessageRes is a response carrying only a message.
type MessageRes struct {
	Message string `json:"message"`
}

// UserRes is a response carrying a message and a user.
type UserRes struct {
	Message string   `json:"message,omitempty"`
	User    UserView `json:"user"`
}

// LoginRes is the response of a successful login.
type LoginRes struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Action string            `json:"action,omitempty"`
	Email  string            `json:"email,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}
