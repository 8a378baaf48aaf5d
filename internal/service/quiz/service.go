// Package quiz owns the quiz session state machine: starting a session,
// pausing and resuming it, grading submitted answers through the
// evaluator, and ending it with a summary. All mutations to a session go
// through this package and are serialized per session by the store's
// optimistic version check.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/evaluation"
)

// Common error types for the quiz session service
var (
	// ErrDomainEmpty indicates an attempt to start a quiz on a domain with
	// no terms. No session is created.
	ErrDomainEmpty = errors.New("domain has no terms to quiz")

	// ErrDomainNotOwned indicates that the user does not own the domain.
	ErrDomainNotOwned = errors.New("unauthorized access: domain not owned by user")

	// ErrSessionNotOwned indicates that the user does not own the session.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrStaleQuestion indicates a submission against a term that is not
	// the session's current question, e.g. after a lost race with another
	// client on the same session.
	ErrStaleQuestion = errors.New("submitted term is not the current question")
)

// Question is the learner-facing view of a term: the definition text is
// deliberately absent so the correct answer never reaches the client.
type Question struct {
	TermID   uuid.UUID `json:"term_id"`
	TermText string    `json:"term_text"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
}

// SessionProgress describes how far a session has advanced.
type SessionProgress struct {
	CurrentTermIndex int `json:"current_term_index"`
	TotalTerms       int `json:"total_terms"`
	CorrectAnswers   int `json:"correct_answers"`
}

// Summary is the terminal report for a completed session.
type Summary struct {
	SessionID         uuid.UUID  `json:"session_id"`
	QuestionsAnswered int        `json:"questions_answered"`
	CorrectAnswers    int        `json:"correct_answers"`
	FinalScore        float64    `json:"final_score"`
	CompletionTime    *time.Time `json:"completion_time,omitempty"`
}

// StartResult is the outcome of starting a session.
type StartResult struct {
	SessionID uuid.UUID       `json:"session_id"`
	Question  Question        `json:"question"`
	Progress  SessionProgress `json:"progress"`
}

// SubmitResult is the outcome of grading one submission. Exactly one of
// NextQuestion and Summary is set: a summary means the session completed
// on this answer.
type SubmitResult struct {
	Evaluation   *evaluation.Result `json:"evaluation"`
	NextQuestion *Question          `json:"next_question,omitempty"`
	Summary      *Summary           `json:"summary,omitempty"`
	Progress     SessionProgress    `json:"progress"`
}

// ResumeResult is the outcome of resuming a paused session. The question
// and progress are identical to what the session showed immediately
// before it was paused.
type ResumeResult struct {
	Question Question        `json:"question"`
	Progress SessionProgress `json:"progress"`
}

// SessionService drives quiz sessions through their state machine.
// Every operation verifies that the session (or domain) belongs to the
// calling user; broader role-based access control is external.
type SessionService interface {
	// Start creates an active session over the domain's terms and returns
	// the first question. The domain's term count is snapshotted into the
	// session and does not change if the domain is edited later.
	//
	// Returns:
	//   - (nil, ErrDomainEmpty): the domain has no terms; nothing is persisted
	//   - (nil, ErrDomainNotOwned): the domain belongs to another user
	//   - (nil, store.ErrDomainNotFound): unknown domain
	Start(ctx context.Context, userID, domainID uuid.UUID) (*StartResult, error)

	// Pause suspends an active session. Only the status and pause
	// timestamp change; the current question and all attempt data are
	// untouched, which is what makes Resume exact.
	//
	// Returns domain.ErrInvalidStateTransition unless the session is active.
	Pause(ctx context.Context, userID, sessionID uuid.UUID) error

	// Resume reactivates a paused session and returns the question and
	// progress exactly as they stood before the pause.
	//
	// Returns domain.ErrInvalidStateTransition unless the session is paused.
	Resume(ctx context.Context, userID, sessionID uuid.UUID) (*ResumeResult, error)

	// SubmitAnswer grades the answer for the session's current term,
	// appends one attempt record, and advances the session — the record
	// append and session update are one atomic unit. Submitting against
	// any term other than the current one fails ErrStaleQuestion. When the
	// last term is answered the session completes and the result carries a
	// summary instead of a next question.
	//
	// An evaluator failure (validation or backend unavailability) blocks
	// the whole operation: no record is written and the session does not
	// advance.
	SubmitAnswer(ctx context.Context, userID, sessionID, termID uuid.UUID, answerText string) (*SubmitResult, error)

	// End terminates the session from active or paused and returns its
	// summary. Ending an already-completed session is idempotent: the
	// persisted summary is returned again without error.
	End(ctx context.Context, userID, sessionID uuid.UUID) (*Summary, error)
}

// ServiceError wraps errors from the quiz session service with additional
// context, so consumers can differentiate failures with errors.As instead
// of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
