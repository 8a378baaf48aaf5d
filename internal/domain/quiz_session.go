package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a quiz session
type SessionStatus string

// Possible session status values
const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
)

// Common validation errors for QuizSession
var (
	ErrEmptySessionID       = errors.New("session ID cannot be empty")
	ErrEmptySessionUserID   = errors.New("session user ID cannot be empty")
	ErrEmptySessionDomainID = errors.New("session domain ID cannot be empty")
	ErrSessionNoTerms       = errors.New("session must cover at least one term")
	ErrInvalidTermIndex     = errors.New("current term index must be between 0 and total terms")
)

// QuizSession tracks one learner's pass over a domain's terms.
// TotalTerms is a snapshot of the domain's term count at start time and
// does not change even if the domain's term set later changes. Version
// backs the store's optimistic concurrency check: concurrent writers
// against the same session contend on it rather than corrupting state.
type QuizSession struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	DomainID         uuid.UUID     `json:"domain_id"`
	Status           SessionStatus `json:"status"`
	CurrentTermIndex int           `json:"current_term_index"`
	TotalTerms       int           `json:"total_terms"`
	CorrectAnswers   int           `json:"correct_answers"`
	ScoreTotal       float64       `json:"score_total"`
	Version          int           `json:"version"`
	StartedAt        time.Time     `json:"started_at"`
	PausedAt         *time.Time    `json:"paused_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NewQuizSession creates an active session for the given user and domain,
// snapshotting the domain's term count. Returns an error if validation fails.
func NewQuizSession(userID, domainID uuid.UUID, totalTerms int) (*QuizSession, error) {
	now := time.Now().UTC()
	session := &QuizSession{
		ID:               uuid.New(),
		UserID:           userID,
		DomainID:         domainID,
		Status:           SessionStatusActive,
		CurrentTermIndex: 0,
		TotalTerms:       totalTerms,
		Version:          1,
		StartedAt:        now,
		UpdatedAt:        now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the QuizSession has valid data.
// Returns an error if any field fails validation.
func (s *QuizSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.DomainID == uuid.Nil {
		return ErrEmptySessionDomainID
	}

	if s.TotalTerms < 1 {
		return ErrSessionNoTerms
	}

	if s.CurrentTermIndex < 0 || s.CurrentTermIndex > s.TotalTerms {
		return ErrInvalidTermIndex
	}

	if !isValidSessionStatus(s.Status) {
		return ErrInvalidSessionStatus
	}

	return nil
}

// Pause suspends an active session. It records PausedAt and touches
// UpdatedAt; CurrentTermIndex and all attempt data are left untouched so
// a later Resume restores exactly the state Pause observed.
func (s *QuizSession) Pause(now time.Time) error {
	if s.Status != SessionStatusActive {
		return fmt.Errorf("%w: cannot pause session in status %q", ErrInvalidStateTransition, s.Status)
	}

	s.Status = SessionStatusPaused
	s.PausedAt = &now
	s.UpdatedAt = now
	return nil
}

// Resume reactivates a paused session and clears PausedAt.
func (s *QuizSession) Resume(now time.Time) error {
	if s.Status != SessionStatusPaused {
		return fmt.Errorf("%w: cannot resume session in status %q", ErrInvalidStateTransition, s.Status)
	}

	s.Status = SessionStatusActive
	s.PausedAt = nil
	s.UpdatedAt = now
	return nil
}

// RecordAnswer advances the session past the current term, accumulating
// the answer's correctness and score. Reaching TotalTerms forces the
// session into the completed state.
func (s *QuizSession) RecordAnswer(isCorrect bool, score float64, now time.Time) error {
	if s.Status != SessionStatusActive {
		return fmt.Errorf("%w: cannot submit answer to session in status %q", ErrInvalidStateTransition, s.Status)
	}

	if score < 0 || score > 1 {
		return ErrInvalidSimilarityScore
	}

	s.CurrentTermIndex++
	if isCorrect {
		s.CorrectAnswers++
	}
	s.ScoreTotal += score
	s.UpdatedAt = now

	if s.CurrentTermIndex >= s.TotalTerms {
		s.Status = SessionStatusCompleted
		s.CompletedAt = &now
		s.PausedAt = nil
	}
	return nil
}

// Complete terminates the session early from active or paused.
// Completing an already-completed session is an invalid transition; the
// service layer treats that case as an idempotent no-op instead.
func (s *QuizSession) Complete(now time.Time) error {
	if s.Status == SessionStatusCompleted {
		return fmt.Errorf("%w: session already completed", ErrInvalidStateTransition)
	}

	s.Status = SessionStatusCompleted
	s.CompletedAt = &now
	s.PausedAt = nil
	s.UpdatedAt = now
	return nil
}

// IsFinished reports whether the session has answered every term.
func (s *QuizSession) IsFinished() bool {
	return s.CurrentTermIndex >= s.TotalTerms
}

// FinalScore returns the average similarity score over answered terms,
// or 0 when nothing has been answered.
func (s *QuizSession) FinalScore() float64 {
	if s.CurrentTermIndex == 0 {
		return 0
	}
	return s.ScoreTotal / float64(s.CurrentTermIndex)
}

// isValidSessionStatus checks if the given status is a valid SessionStatus.
func isValidSessionStatus(status SessionStatus) bool {
	switch status {
	case SessionStatusActive, SessionStatusPaused, SessionStatusCompleted:
		return true
	default:
		return false
	}
}
