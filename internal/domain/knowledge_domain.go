package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KnowledgeDomain-specific validation errors
var (
	// ErrDomainIDEmpty is returned when a domain ID is empty or nil.
	ErrDomainIDEmpty = errors.New("domain ID cannot be empty")

	// ErrDomainUserIDEmpty is returned when a domain's owner ID is empty or nil.
	ErrDomainUserIDEmpty = errors.New("domain user ID cannot be empty")

	// ErrDomainNameEmpty is returned when a domain's name is empty.
	ErrDomainNameEmpty = errors.New("domain name cannot be empty")
)

// KnowledgeDomain is a named set of terms owned by a user. Its identity is
// immutable once created; terms are children and cascade on delete.
type KnowledgeDomain struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewKnowledgeDomain creates a new KnowledgeDomain owned by the given user.
// It generates a new UUID for the domain ID and sets the timestamps.
// Returns an error if validation fails.
func NewKnowledgeDomain(userID uuid.UUID, name string) (*KnowledgeDomain, error) {
	d := &KnowledgeDomain{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks if the KnowledgeDomain has valid data.
// Returns an error if any field fails validation.
func (d *KnowledgeDomain) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDomainIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDomainUserIDEmpty
	}

	if strings.TrimSpace(d.Name) == "" {
		return ErrDomainNameEmpty
	}

	return nil
}
