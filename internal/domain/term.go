package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Term-specific validation errors
var (
	// ErrTermIDEmpty is returned when a term ID is empty or nil.
	ErrTermIDEmpty = errors.New("term ID cannot be empty")

	// ErrTermDomainIDEmpty is returned when a term's parent domain ID is empty or nil.
	ErrTermDomainIDEmpty = errors.New("term domain ID cannot be empty")

	// ErrTermTextEmpty is returned when a term's text is empty.
	ErrTermTextEmpty = errors.New("term text cannot be empty")

	// ErrTermDefinitionEmpty is returned when a term's definition is empty.
	ErrTermDefinitionEmpty = errors.New("term definition cannot be empty")

	// ErrTermPositionNegative is returned when a term's position is negative.
	ErrTermPositionNegative = errors.New("term position cannot be negative")
)

// Term is the atomic unit being quizzed: a name and its canonical
// definition, owned by a KnowledgeDomain. Position fixes the term's place
// in the domain's quiz ordering; sessions walk terms by ascending position.
type Term struct {
	ID         uuid.UUID `json:"id"`
	DomainID   uuid.UUID `json:"domain_id"`
	Text       string    `json:"text"`
	Definition string    `json:"definition"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTerm creates a new Term under the given domain at the given position.
// It generates a new UUID for the term ID and sets the timestamps.
// Returns an error if validation fails.
func NewTerm(domainID uuid.UUID, text, definition string, position int) (*Term, error) {
	term := &Term{
		ID:         uuid.New(),
		DomainID:   domainID,
		Text:       strings.TrimSpace(text),
		Definition: strings.TrimSpace(definition),
		Position:   position,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := term.Validate(); err != nil {
		return nil, err
	}

	return term, nil
}

// Validate checks if the Term has valid data.
// Returns an error if any field fails validation.
func (t *Term) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTermIDEmpty
	}

	if t.DomainID == uuid.Nil {
		return ErrTermDomainIDEmpty
	}

	if strings.TrimSpace(t.Text) == "" {
		return ErrTermTextEmpty
	}

	if strings.TrimSpace(t.Definition) == "" {
		return ErrTermDefinitionEmpty
	}

	if t.Position < 0 {
		return ErrTermPositionNegative
	}

	return nil
}
