package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/embedding"
	"github.com/termwise/termwise-api/internal/evaluation"
	"github.com/termwise/termwise-api/internal/service/auth"
	"github.com/termwise/termwise-api/internal/service/quiz"
	"github.com/termwise/termwise-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "authentication error",
			err:            auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrapped authentication error",
			err:            fmt.Errorf("failed to authenticate: %w", auth.ErrExpiredToken),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "session ownership error",
			err:            quiz.ErrSessionNotOwned,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "domain ownership error",
			err:            quiz.ErrDomainNotOwned,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "session not found",
			err:            store.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "term not found",
			err:            fmt.Errorf("resume failed: %w", store.ErrTermNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "optimistic concurrency conflict",
			err:            store.ErrConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "stale question submission",
			err:            quiz.ErrStaleQuestion,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid state transition",
			err:            fmt.Errorf("pause failed: %w", domain.ErrInvalidStateTransition),
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "evaluation input validation",
			err:            evaluation.ErrEmptyAnswer,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty domain",
			err:            quiz.ErrDomainEmpty,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "embedding backend unavailable",
			err:            fmt.Errorf("evaluation failed: %w", embedding.ErrUnavailable),
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "unknown error",
			err:            errors.New("some unexpected error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "An unexpected error occurred",
		},
		{
			name:     "session not found",
			err:      store.ErrSessionNotFound,
			expected: "Session not found",
		},
		{
			name:     "conflict never leaks version details",
			err:      fmt.Errorf("%w: session abc version changed (expected 3)", store.ErrConflict),
			expected: "The session was modified by another request, retry with fresh state",
		},
		{
			name:     "backend outage is not blamed on the student",
			err:      fmt.Errorf("evaluation failed: %w", embedding.ErrUnavailable),
			expected: "Answer evaluation is temporarily unavailable, try again shortly",
		},
		{
			name:     "unknown error stays generic",
			err:      errors.New("pq: relation quiz_sessions does not exist"),
			expected: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		expected string
	}{
		{
			name:     "required field",
			errMsg:   "Key: 'StartQuizRequest.DomainID' Error:Field validation for 'DomainID' failed on the 'required' tag",
			expected: "Invalid DomainID: required field",
		},
		{
			name:     "uuid format",
			errMsg:   "Key: 'SubmitAnswerRequest.TermID' Error:Field validation for 'TermID' failed on the 'uuid' tag",
			expected: "Invalid TermID: must be a valid UUID",
		},
		{
			name:     "unrecognized format",
			errMsg:   "something else entirely",
			expected: "Validation error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeValidationError(errors.New(tc.errMsg)))
		})
	}
}
