package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/embedding"
	"github.com/termwise/termwise-api/internal/evaluation"
	"github.com/termwise/termwise-api/internal/service/auth"
	"github.com/termwise/termwise-api/internal/service/quiz"
	"github.com/termwise/termwise-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, quiz.ErrSessionNotOwned),
		errors.Is(err, quiz.ErrDomainNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrDomainNotFound),
		errors.Is(err, store.ErrTermNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors: lost optimistic-concurrency races, stale
	// submissions, and lifecycle transitions the session's state forbids
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, quiz.ErrStaleQuestion),
		errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, evaluation.ErrValidation),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, quiz.ErrDomainEmpty):
		return http.StatusBadRequest

	// Embedding backend outages are not client errors
	case errors.Is(err, embedding.ErrUnavailable):
		return http.StatusServiceUnavailable

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

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, quiz.ErrSessionNotOwned):
		return "You do not own this session"

	case errors.Is(err, quiz.ErrDomainNotOwned):
		return "You do not own this domain"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Access denied"

	// Not found errors
	case errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrDomainNotFound):
		return "Domain not found"

	case errors.Is(err, store.ErrTermNotFound):
		return "Term not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrConflict):
		return "The session was modified by another request, retry with fresh state"

	case errors.Is(err, quiz.ErrStaleQuestion):
		return "The submitted term is not the current question"

	case errors.Is(err, domain.ErrInvalidStateTransition):
		return "Operation not allowed in the session's current state"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case errors.Is(err, quiz.ErrDomainEmpty):
		return "Domain has no terms to quiz"

	case errors.Is(err, evaluation.ErrValidation),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Embedding backend outages
	case errors.Is(err, embedding.ErrUnavailable):
		return "Answer evaluation is temporarily unavailable, try again shortly"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'StartQuizRequest.DomainID' Error:Field
		// validation for 'DomainID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}
