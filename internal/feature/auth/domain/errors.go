// Package domain defines domain-level errors for the auth feature.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an auth failure. Upper layers switch on the kind rather than
// on concrete error values.
type Kind string

// Error kinds for authentication and verification operations.
const (
	KindValidation            Kind = "ValidationError"
	KindDuplicateEmail        Kind = "DuplicateEmail"
	KindUserNotFound          Kind = "UserNotFound"
	KindInvalidToken          Kind = "InvalidToken"
	KindExpiredToken          Kind = "ExpiredToken"
	KindInvalidCredentials    Kind = "InvalidCredentials"
	KindEmailNotVerified      Kind = "EmailNotVerified"
	KindAlreadyVerified       Kind = "AlreadyVerified"
	KindConfiguration         Kind = "ConfigurationError"
	KindPersistence           Kind = "PersistenceError"
	KindDispatch              Kind = "DispatchError"
	KindTokenGenerationFailed Kind = "TokenGenerationFailed"
	KindRegistrationFailed    Kind = "RegistrationFailed"
)

// Error is the tagged error returned by the auth feature.
// Two errors are considered equal by errors.Is when their kinds match.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an error of the given kind carrying err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = New(KindValidation, "invalid request")

	// ErrDuplicateEmail is returned during registration when the email is already taken.
	ErrDuplicateEmail = New(KindDuplicateEmail, "email already exists")

	// ErrUserNotFound indicates that no user matched the given email or ID.
	ErrUserNotFound = New(KindUserNotFound, "user not found")

	// ErrInvalidToken is returned when no live token matches the presented code.
	ErrInvalidToken = New(KindInvalidToken, "invalid token")

	// ErrExpiredToken is returned when the matching token is past its expiry.
	ErrExpiredToken = New(KindExpiredToken, "expired token")

	// ErrInvalidCredentials does not distinguish a wrong email from a wrong password.
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid email or password")

	// ErrEmailNotVerified is returned on login when the password matches but the
	// email address has not been verified yet.
	ErrEmailNotVerified = New(KindEmailNotVerified, "email not verified")

	// ErrAlreadyVerified is returned when resending verification for a verified user.
	ErrAlreadyVerified = New(KindAlreadyVerified, "email already verified")

	// ErrConfiguration indicates a missing signing secret.
	ErrConfiguration = New(KindConfiguration, "server misconfigured")

	// ErrPersistence indicates an unexpected storage failure.
	ErrPersistence = New(KindPersistence, "storage failure")

	// ErrDispatch indicates that an outbound email could not be delivered.
	ErrDispatch = New(KindDispatch, "failed to send email")

	// ErrTokenGenerationFailed indicates that no verification code could be produced.
	ErrTokenGenerationFailed = New(KindTokenGenerationFailed, "failed to generate verification token")

	// ErrRegistrationFailed is returned when a registration was rolled back.
	ErrRegistrationFailed = New(KindRegistrationFailed, "registration failed")
)
