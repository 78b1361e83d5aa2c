// Package handler provides HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/transport/http/dto"
	jwtmw "auth_backend/internal/platform/jwt"
)

// TokenCookie is the cookie cleared on logout.
const TokenCookie = "token"

// AuthUsecase defines the use cases for authentication operations.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register creates an unverified user and sends a verification email.
	Register(ctx context.Context, fullname, email, password string) (*entity.User, error)
	// VerifyEmail redeems a verification code for the user with email.
	VerifyEmail(ctx context.Context, code, email string) (*entity.User, error)
	// ResendVerification issues and sends a fresh verification code.
	ResendVerification(ctx context.Context, email string) error
	// Login authenticates the user and returns a bearer token on success.
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	// GetProfile returns the user with the given ID.
	GetProfile(ctx context.Context, userID uint) (*entity.User, error)
}

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	auth          AuthUsecase
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks cleared cookies Secure.
func NewAuthHandler(auth AuthUsecase, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies}
}

// Register handles the user registration endpoint.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		writeBindError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Fullname, req.Email, req.Password)
	if err != nil {
		logFailure("register failed", err, req.Email, c)
		writeError(c, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.UserRes{
		Message: "User registered successfully. Please check your email for verification.",
		User:    dto.NewUserView(user),
	})
}

// VerifyEmail handles the email verification link.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	code := c.Param("token")
	email := c.Query("email")

	user, err := h.auth.VerifyEmail(c.Request.Context(), code, email)
	if err != nil {
		logFailure("email verification failed", err, email, c)
		writeError(c, err)
		return
	}

	slog.Info("email verified", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.UserRes{
		Message: "Email verified successfully",
		User:    dto.NewUserView(user),
	})
}

// ResendVerification handles requests for a new verification email.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("resend validation failed", "error", err, "remote_addr", c.ClientIP())
		writeBindError(c, err)
		return
	}

	if err := h.auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		logFailure("resend verification failed", err, req.Email, c)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageRes{Message: "Verification email resent successfully"})
}

// Login handles the user login endpoint.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		writeBindError(c, err)
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logFailure("login failed", err, req.Email, c)
		if errors.Is(err, domain.ErrEmailNotVerified) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:  messageFor(err),
				Code:   string(domain.KindEmailNotVerified),
				Action: actionResendVerification,
				Email:  req.Email,
			})
			return
		}
		writeError(c, err)
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserView(user),
	})
}

// Logout clears the token cookie. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Logout successful."})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := c.Get(jwtmw.ContextUserID)
	id, isUint := userID.(uint)
	if !ok || !isUint {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Code: string(domain.KindInvalidToken)})
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), id)
	if err != nil {
		logFailure("profile lookup failed", err, "", c)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserRes{User: dto.NewUserView(user)})
}

// logFailure logs client errors at warn and server errors at error level.
func logFailure(msg string, err error, email string, c *gin.Context) {
	attrs := []any{"error", err, "code", domain.KindOf(err), "remote_addr", c.ClientIP()}
	if email != "" {
		attrs = append(attrs, "email", email)
	}
	if statusFor(domain.KindOf(err)) >= http.StatusInternalServerError {
		slog.Error(msg, attrs...)
		return
	}
	slog.Warn(msg, attrs...)
}
