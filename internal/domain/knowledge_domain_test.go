package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termwise/termwise-api/internal/domain"
)

func TestNewKnowledgeDomain(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	d, err := domain.NewKnowledgeDomain(userID, "  Cell Biology  ")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, userID, d.UserID)
	assert.Equal(t, "Cell Biology", d.Name)

	_, err = domain.NewKnowledgeDomain(userID, "   ")
	assert.ErrorIs(t, err, domain.ErrDomainNameEmpty)

	_, err = domain.NewKnowledgeDomain(uuid.Nil, "Chemistry")
	assert.ErrorIs(t, err, domain.ErrDomainUserIDEmpty)
}

func TestNewTerm(t *testing.T) {
	t.Parallel()

	domainID := uuid.New()

	term, err := domain.NewTerm(domainID, "mitochondria", "the powerhouse of the cell", 2)
	require.NoError(t, err)
	assert.Equal(t, domainID, term.DomainID)
	assert.Equal(t, "mitochondria", term.Text)
	assert.Equal(t, 2, term.Position)

	tests := []struct {
		name       string
		domainID   uuid.UUID
		text       string
		definition string
		position   int
		wantErr    error
	}{
		{"empty text", domainID, "  ", "definition", 0, domain.ErrTermTextEmpty},
		{"empty definition", domainID, "text", "", 0, domain.ErrTermDefinitionEmpty},
		{"nil domain", uuid.Nil, "text", "definition", 0, domain.ErrTermDomainIDEmpty},
		{"negative position", domainID, "text", "definition", -1, domain.ErrTermPositionNegative},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := domain.NewTerm(tt.domainID, tt.text, tt.definition, tt.position)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewProgressRecord(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	termID := uuid.New()
	sessionID := uuid.New()

	record, err := domain.NewProgressRecord(
		userID, termID, &sessionID,
		"student answer", "correct answer",
		true, 0.91, 1, "Excellent!",
	)
	require.NoError(t, err)
	assert.Equal(t, 1, record.AttemptNumber)
	assert.Equal(t, &sessionID, record.SessionID)

	// Session ID is optional for ad-hoc drills.
	record, err = domain.NewProgressRecord(
		userID, termID, nil,
		"student answer", "correct answer",
		false, 0.2, 3, "Incorrect.",
	)
	require.NoError(t, err)
	assert.Nil(t, record.SessionID)

	_, err = domain.NewProgressRecord(userID, termID, nil, "a", "b", true, 0.5, 0, "f")
	assert.ErrorIs(t, err, domain.ErrInvalidAttemptNumber)

	_, err = domain.NewProgressRecord(userID, termID, nil, "a", "b", true, 1.2, 1, "f")
	assert.ErrorIs(t, err, domain.ErrInvalidSimilarityScore)

	_, err = domain.NewProgressRecord(userID, termID, nil, "", "b", true, 0.5, 1, "f")
	assert.ErrorIs(t, err, domain.ErrEmptyStudentAnswer)
}
