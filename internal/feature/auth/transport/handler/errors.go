package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/transport/http/dto"
)

const actionResendVerification = "resend_verification"

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation,
		domain.KindDuplicateEmail,
		domain.KindInvalidToken,
		domain.KindExpiredToken,
		domain.KindAlreadyVerified:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindEmailNotVerified:
		return http.StatusUnauthorized
	case domain.KindUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing message for err. Causes are never exposed.
func messageFor(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return "internal server error"
	}
	switch de.Kind {
	case domain.KindInvalidToken, domain.KindExpiredToken:
		// wrong and expired codes read the same
		return "Invalid or expired token"
	case domain.KindEmailNotVerified:
		return "Email not verified. Please check your email or resend verification."
	}
	return de.Message
}

// writeError responds with the status and body derived from err.
func writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	res := dto.ErrorResponse{Error: messageFor(err), Code: string(kind)}
	if kind == "" {
		res.Code = string(domain.KindPersistence)
	}
	c.JSON(statusFor(kind), res)
}

// writeBindError responds 400 with a per-field message for binding failures.
func writeBindError(c *gin.Context, err error) {
	res := dto.ErrorResponse{Error: "invalid request", Code: string(domain.KindValidation)}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		res.Fields = make(map[string]string, len(ve))
		for _, fe := range ve {
			res.Fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
		}
	}
	c.JSON(http.StatusBadRequest, res)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
