package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
)

// DomainStore defines the interface for knowledge domain and term
// persistence. Terms are children of a domain and are removed by the
// database's cascade when the domain is deleted.
type DomainStore interface {
	// Create saves a new knowledge domain.
	// Returns ErrDuplicate if the user already owns a domain with the same name.
	Create(ctx context.Context, d *domain.KnowledgeDomain) error

	// GetByID retrieves a domain by its unique ID.
	// Returns ErrDomainNotFound if the domain does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDomain, error)

	// ListByUser retrieves all domains owned by the given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.KnowledgeDomain, error)

	// Delete removes a domain by its ID. Associated terms are removed by
	// the ON DELETE CASCADE constraint on the terms table.
	// Returns ErrDomainNotFound if the domain does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateTerms saves multiple terms under their domains. Run it inside a
	// transaction via WithTx when the terms must land atomically.
	CreateTerms(ctx context.Context, terms []*domain.Term) error

	// ListTerms retrieves every term in the domain ordered by ascending
	// position. This ordering is the quiz ordering: sessions index into it
	// with current_term_index, so it must be stable for the lifetime of any
	// session over the domain. Terms must not be inserted or reordered while
	// such sessions exist: a shrink is caught by the index guard at resume
	// and submit, but an insertion before the current index would silently
	// shift which question a paused session lands on.
	ListTerms(ctx context.Context, domainID uuid.UUID) ([]*domain.Term, error)

	// GetTerm retrieves a term by its unique ID.
	// Returns ErrTermNotFound if the term does not exist.
	GetTerm(ctx context.Context, termID uuid.UUID) (*domain.Term, error)

	// CountTerms returns the number of terms in the domain.
	CountTerms(ctx context.Context, domainID uuid.UUID) (int, error)

	// WithTx returns a new DomainStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DomainStore
}
