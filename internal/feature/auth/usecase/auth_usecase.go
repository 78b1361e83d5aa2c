// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
)

const (
	// VerificationTTL is the lifetime of a verifyEmail token.
	VerificationTTL = 24 * time.Hour

	verifyEmailTemplate = "verifyEmail"
	verifyEmailSubject  = "Verify Your Email Address"
)

// JWTGenerator defines the interface for issuing bearer credentials.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform/jwt).
type JWTGenerator interface {
	// GenerateToken creates a signed, time-bounded token for the given user.
	GenerateToken(userID uint, email string) (string, error)
}

// Mailer renders a named template with data and sends it to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// TokenLifecycle issues and redeems verification tokens. It is implemented by *TokenManager.
type TokenLifecycle interface {
	Issue(ctx context.Context, user *entity.User, purpose entity.Purpose, ttl time.Duration, payload map[string]any) (string, error)
	Redeem(ctx context.Context, code, email string, purpose entity.Purpose, newPasswordHash string) (*entity.User, error)
}

// authUsecase implements registration, verification and login.
type authUsecase struct {
	users        UserRepository
	tokens       TokenLifecycle
	mailer       Mailer
	jwtGenerator JWTGenerator
	appURL       string
	hashCost     int
}

// NewAuthUsecase creates a new authUsecase. appURL is the public base URL used
// to build verification links.
func NewAuthUsecase(users UserRepository, tokens TokenLifecycle, mailer Mailer, jwtGenerator JWTGenerator, appURL string) *authUsecase {
	return &authUsecase{
		users:        users,
		tokens:       tokens,
		mailer:       mailer,
		jwtGenerator: jwtGenerator,
		appURL:       strings.TrimRight(appURL, "/"),
		hashCost:     bcrypt.DefaultCost,
	}
}

// normalizeEmail trims and lowercases an email so it can be used as a lookup key.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified user and emails them a verification code.
// If the code cannot be issued or delivered the user is deleted again.
func (u *authUsecase) Register(ctx context.Context, fullname, email, password string) (*entity.User, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeEmail(email)
	if fullname == "" || email == "" || password == "" {
		return nil, domain.New(domain.KindValidation, "fullname, email, and password are required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, persistenceErr("failed to look up user", err)
	}

	hashed, err := hashPassword(password, u.hashCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{Fullname: fullname, Email: email, PasswordHash: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, persistenceErr("failed to create user", err)
	}

	code, err := u.tokens.Issue(ctx, user, entity.PurposeVerifyEmail, VerificationTTL, nil)
	if err != nil {
		u.rollback(ctx, user)
		return nil, domain.Wrap(domain.KindRegistrationFailed, "failed to generate verification token", err)
	}

	if err := u.sendVerification(ctx, user, code); err != nil {
		u.rollback(ctx, user)
		return nil, domain.Wrap(domain.KindRegistrationFailed, "failed to send verification email", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// rollback deletes a freshly created user. It is best effort.
func (u *authUsecase) rollback(ctx context.Context, user *entity.User) {
	if err := u.users.Delete(ctx, user.ID); err != nil {
		slog.Error("failed to roll back registration", "error", err, "user_id", user.ID)
	}
}

// ResendVerification supersedes the user's verifyEmail token and sends the new one.
func (u *authUsecase) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.New(domain.KindValidation, "email is required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return persistenceErr("failed to look up user", err)
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	code, err := u.tokens.Issue(ctx, user, entity.PurposeVerifyEmail, VerificationTTL, nil)
	if err != nil {
		return err
	}
	return u.sendVerification(ctx, user, code)
}

// VerifyEmail redeems a verifyEmail code. The returned user is read after the
// verified flag has been persisted.
func (u *authUsecase) VerifyEmail(ctx context.Context, code, email string) (*entity.User, error) {
	code = strings.TrimSpace(code)
	email = normalizeEmail(email)
	if code == "" || email == "" {
		return nil, domain.New(domain.KindValidation, "token and email are required")
	}
	return u.tokens.Redeem(ctx, code, email, entity.PurposeVerifyEmail, "")
}

// Login authenticates the user and returns a signed bearer token.
// A bcrypt comparison runs even when the user does not exist.
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.New(domain.KindValidation, "email and password are required")
	}

	user, err := u.users.FindByEmailWithPassword(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, persistenceErr("failed to look up user", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	matched := comparePassword(passwordHash, password)
	if err != nil || !matched {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return "", nil, domain.ErrEmailNotVerified
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		if domain.KindOf(err) != "" {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return token, user, nil
}

// GetProfile returns the public view of an authenticated user.
func (u *authUsecase) GetProfile(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, persistenceErr("failed to look up user", err)
	}
	return user, nil
}

// sendVerification emails the verification link for code to user.
func (u *authUsecase) sendVerification(ctx context.Context, user *entity.User, code string) error {
	link := fmt.Sprintf("%s/verify-email/%s?email=%s", u.appURL, url.PathEscape(code), url.QueryEscape(user.Email))
	data := map[string]any{
		"fullname":         user.Fullname,
		"verificationUrl":  link,
		"email":            user.Email,
		"verificationCode": code,
		"expirationTime":   fmt.Sprintf("%d", int(VerificationTTL.Minutes())),
	}
	if err := u.mailer.Send(ctx, user.Email, verifyEmailSubject, verifyEmailTemplate, data); err != nil {
		if domain.KindOf(err) != "" {
			return err
		}
		return domain.Wrap(domain.KindDispatch, "failed to send verification email", err)
	}
	return nil
}
