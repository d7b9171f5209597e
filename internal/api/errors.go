package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/upscayl-gateway/internal/api/shared"
	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/service/auth"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
)

// StatusClientClosedRequest is the non-standard status recorded when the
// caller disconnects before the response is ready.
const StatusClientClosedRequest = 499

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrInvalidForm):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge

	// Polling outcomes
	case errors.Is(err, upscale.ErrPollingTimeout):
		return http.StatusRequestTimeout

	case errors.Is(err, upscale.ErrTaskFailed):
		return http.StatusInternalServerError

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest

	// Remote service errors
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case upscayl.IsRemoteError(err):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.As(err, &validationErr):
		return validationMessage(validationErr)

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, shared.ErrInvalidForm):
		return "Invalid multipart form"

	case errors.Is(err, shared.ErrRequestTooLarge):
		return "Request body too large"

	case errors.Is(err, upscale.ErrPollingTimeout):
		return "Upscale task did not finish in time"

	case errors.Is(err, upscale.ErrTaskFailed):
		return "Upscale task failed"

	case errors.Is(err, context.Canceled):
		return "Request cancelled"

	case errors.Is(err, context.DeadlineExceeded):
		return "Upscale service timed out"

	case errors.Is(err, upscayl.ErrTransport):
		return "Upscale service unavailable"

	case errors.Is(err, upscayl.ErrProtocol):
		return "Upscale service returned an unexpected response"

	case errors.Is(err, upscale.ErrStartFailed):
		return "Failed to start upscale task"

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage renders a validation error for clients. Field names and
// messages come from request validation and never carry internal details.
func validationMessage(err *domain.ValidationError) string {
	message := err.Message
	if message == "" {
		message = "is invalid"
	}
	if err.Field == "" {
		return capitalize(message)
	}
	return "Invalid " + err.Field + ": " + message
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HandleAPIError writes the error response for err, logging the full error
// and sending only the safe message. A non-empty fallback replaces the
// generic message for unclassified errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string, opts ...shared.ResponseOption) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallback != "" && message == "An unexpected error occurred" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
