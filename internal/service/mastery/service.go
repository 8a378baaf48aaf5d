// Package mastery derives mastery levels and domain progress from the
// append-only attempt history. It is a pure read-side computation: no
// mutation, deterministic for a fixed set of records, and safe to call
// concurrently and arbitrarily often.
package mastery

import (
	"context"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
)

// ProgressReader is the slice of the progress store the aggregator needs.
type ProgressReader interface {
	ListByUserAndTerm(ctx context.Context, userID, termID uuid.UUID) ([]*domain.ProgressRecord, error)
	ListByUserAndDomain(ctx context.Context, userID, domainID uuid.UUID) ([]*domain.ProgressRecord, error)
}

// DomainReader is the slice of the domain store the aggregator needs.
type DomainReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDomain, error)
	ListTerms(ctx context.Context, domainID uuid.UUID) ([]*domain.Term, error)
}

// Service defines the interface for mastery aggregation.
type Service interface {
	// TermMastery computes the mastery level and score for one (user, term)
	// pair from its full attempt history. The score is the best-k average
	// of similarity scores with k = min(BestK, attempts); it never
	// decreases as attempts accumulate.
	TermMastery(ctx context.Context, userID, termID uuid.UUID) (*domain.TermMastery, error)

	// DomainProgress rolls TermMastery up across every term in the domain.
	// The breakdown counts one entry per term across all six bands and
	// always sums to the domain's term count.
	// Returns store.ErrDomainNotFound if the domain does not exist.
	DomainProgress(ctx context.Context, userID, domainID uuid.UUID) (*domain.DomainProgress, error)
}
