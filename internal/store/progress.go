package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
)

// ProgressStore defines the interface for attempt record persistence.
// Progress records are append-only: there is deliberately no update or
// delete operation on this interface.
type ProgressStore interface {
	// Append saves a new attempt record.
	// It handles domain validation internally.
	// Returns ErrDuplicate if a record for the same (user, term, attempt
	// number) already exists, which protects the gapless strictly
	// increasing attempt numbering.
	Append(ctx context.Context, record *domain.ProgressRecord) error

	// CountByUserAndTerm returns the number of attempts recorded for the
	// given user and term. The next attempt number is this count plus one.
	CountByUserAndTerm(ctx context.Context, userID, termID uuid.UUID) (int, error)

	// ListByUserAndTerm retrieves all attempts for the given user and term,
	// ordered by ascending attempt number. Returns an empty slice when the
	// pair has no history.
	ListByUserAndTerm(ctx context.Context, userID, termID uuid.UUID) ([]*domain.ProgressRecord, error)

	// ListByUserAndDomain retrieves all attempts the user has made against
	// any term currently belonging to the given domain, ordered by term and
	// ascending attempt number.
	ListByUserAndDomain(ctx context.Context, userID, domainID uuid.UUID) ([]*domain.ProgressRecord, error)

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
