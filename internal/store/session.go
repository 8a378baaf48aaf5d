package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
)

// SessionPatch enumerates every mutable QuizSession field. Update takes
// the whole patch rather than assembling per-field statements, so store
// implementations always run one fixed UPDATE and the core never builds
// query strings.
type SessionPatch struct {
	Status           domain.SessionStatus
	CurrentTermIndex int
	CorrectAnswers   int
	ScoreTotal       float64
	PausedAt         *time.Time
	CompletedAt      *time.Time
	UpdatedAt        time.Time
}

// PatchFromSession builds a SessionPatch from a session's current
// mutable state. Callers mutate the domain object through its state
// machine methods and then persist the result with this patch.
func PatchFromSession(s *domain.QuizSession) SessionPatch {
	return SessionPatch{
		Status:           s.Status,
		CurrentTermIndex: s.CurrentTermIndex,
		CorrectAnswers:   s.CorrectAnswers,
		ScoreTotal:       s.ScoreTotal,
		PausedAt:         s.PausedAt,
		CompletedAt:      s.CompletedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// SessionStore defines the interface for quiz session persistence.
type SessionStore interface {
	// Create saves a new quiz session.
	// It handles domain validation internally.
	// Returns ErrDuplicate if a session with the same ID already exists.
	Create(ctx context.Context, session *domain.QuizSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.QuizSession, error)

	// Update applies the patch to the session identified by id, guarded by
	// an optimistic version check: the row is only written when its stored
	// version equals expectedVersion, and the version is incremented as
	// part of the same statement.
	// Returns ErrSessionNotFound if the session does not exist.
	// Returns ErrConflict if the session exists but the version check fails,
	// meaning a concurrent writer won the race.
	Update(ctx context.Context, id uuid.UUID, expectedVersion int, patch SessionPatch) error

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) SessionStore
}
