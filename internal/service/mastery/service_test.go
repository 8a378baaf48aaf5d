package mastery_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/service/mastery"
	"github.com/termwise/termwise-api/internal/store"
)

// MockProgressReader is a mock implementation of the ProgressReader interface
type MockProgressReader struct {
	mock.Mock
}

func (m *MockProgressReader) ListByUserAndTerm(
	ctx context.Context,
	userID, termID uuid.UUID,
) ([]*domain.ProgressRecord, error) {
	args := m.Called(ctx, userID, termID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressReader) ListByUserAndDomain(
	ctx context.Context,
	userID, domainID uuid.UUID,
) ([]*domain.ProgressRecord, error) {
	args := m.Called(ctx, userID, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProgressRecord), args.Error(1)
}

// MockDomainReader is a mock implementation of the DomainReader interface
type MockDomainReader struct {
	mock.Mock
}

func (m *MockDomainReader) GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDomain, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeDomain), args.Error(1)
}

func (m *MockDomainReader) ListTerms(ctx context.Context, domainID uuid.UUID) ([]*domain.Term, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Term), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func attemptRecords(userID, termID uuid.UUID, scores ...float64) []*domain.ProgressRecord {
	records := make([]*domain.ProgressRecord, 0, len(scores))
	for i, score := range scores {
		records = append(records, &domain.ProgressRecord{
			ID:              uuid.New(),
			UserID:          userID,
			TermID:          termID,
			StudentAnswer:   "answer",
			CorrectAnswer:   "definition",
			SimilarityScore: score,
			AttemptNumber:   i + 1,
		})
	}
	return records
}

func TestTermMastery(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	termID := uuid.New()
	ctx := context.Background()

	t.Run("no attempts is not_attempted", func(t *testing.T) {
		t.Parallel()
		progressReader := new(MockProgressReader)
		domainReader := new(MockDomainReader)
		progressReader.On("ListByUserAndTerm", ctx, userID, termID).
			Return([]*domain.ProgressRecord{}, nil)

		svc := mastery.NewService(progressReader, domainReader, nil, testLogger())
		result, err := svc.TermMastery(ctx, userID, termID)
		require.NoError(t, err)

		assert.Equal(t, domain.MasteryLevelNotAttempted, result.Level)
		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, 0, result.Attempts)
	})

	t.Run("best-k average over many attempts", func(t *testing.T) {
		t.Parallel()
		progressReader := new(MockProgressReader)
		domainReader := new(MockDomainReader)
		progressReader.On("ListByUserAndTerm", ctx, userID, termID).
			Return(attemptRecords(userID, termID, 0.3, 0.95, 0.88, 0.2, 0.91), nil)

		svc := mastery.NewService(progressReader, domainReader, nil, testLogger())
		result, err := svc.TermMastery(ctx, userID, termID)
		require.NoError(t, err)

		// Best 3 of {0.3, 0.95, 0.88, 0.2, 0.91} = (0.95+0.91+0.88)/3
		assert.InDelta(t, 0.91333, result.Score, 1e-4)
		assert.Equal(t, domain.MasteryLevelMastered, result.Level)
		assert.Equal(t, 5, result.Attempts)
	})

	t.Run("store error propagates", func(t *testing.T) {
		t.Parallel()
		progressReader := new(MockProgressReader)
		domainReader := new(MockDomainReader)
		progressReader.On("ListByUserAndTerm", ctx, userID, termID).
			Return(nil, assert.AnError)

		svc := mastery.NewService(progressReader, domainReader, nil, testLogger())
		_, err := svc.TermMastery(ctx, userID, termID)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDomainProgress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	domainID := uuid.New()
	ctx := context.Background()

	knowledgeDomain := &domain.KnowledgeDomain{ID: domainID, UserID: userID, Name: "Biology"}
	termA := &domain.Term{ID: uuid.New(), DomainID: domainID, Text: "a", Definition: "da", Position: 0}
	termB := &domain.Term{ID: uuid.New(), DomainID: domainID, Text: "b", Definition: "db", Position: 1}
	termC := &domain.Term{ID: uuid.New(), DomainID: domainID, Text: "c", Definition: "dc", Position: 2}

	t.Run("breakdown covers every term once", func(t *testing.T) {
		t.Parallel()
		progressReader := new(MockProgressReader)
		domainReader := new(MockDomainReader)
		domainReader.On("GetByID", ctx, domainID).Return(knowledgeDomain, nil)
		domainReader.On("ListTerms", ctx, domainID).
			Return([]*domain.Term{termA, termB, termC}, nil)

		// termA mastered, termB developing, termC untouched.
		records := append(
			attemptRecords(userID, termA.ID, 0.9, 0.92),
			attemptRecords(userID, termB.ID, 0.6)...,
		)
		progressReader.On("ListByUserAndDomain", ctx, userID, domainID).Return(records, nil)

		svc := mastery.NewService(progressReader, domainReader, nil, testLogger())
		progress, err := svc.DomainProgress(ctx, userID, domainID)
		require.NoError(t, err)

		assert.Equal(t, 3, progress.TotalTerms)
		assert.Equal(t, 1, progress.Breakdown[domain.MasteryLevelMastered])
		assert.Equal(t, 1, progress.Breakdown[domain.MasteryLevelDeveloping])
		assert.Equal(t, 1, progress.Breakdown[domain.MasteryLevelNotAttempted])

		total := 0
		for _, level := range domain.AllMasteryLevels {
			count, ok := progress.Breakdown[level]
			assert.True(t, ok, "breakdown missing level %s", level)
			total += count
		}
		assert.Equal(t, progress.TotalTerms, total)

		// mastered + developing count as completed; only mastered counts
		// toward mastery.
		assert.InDelta(t, 100.0*2/3, progress.CompletionPercentage, 1e-9)
		assert.InDelta(t, 100.0*1/3, progress.MasteryPercentage, 1e-9)
	})

	t.Run("empty domain", func(t *testing.T) {
		t.Parallel()
		progressReader := new(MockProgressReader)
		domainReader := new(MockDomainReader)
		domainReader.On("GetByID", ctx, domainID).Return(knowledgeDomain, nil)
		domainReader.On("ListTerms", ctx, domainID).Return([]*domain.Term{}, nil)
		progressReader.On("ListByUserAndDomain", ctx, userID, domainID).
			Return([]*domain.ProgressRecord{}, nil)

		svc := mastery.NewService(progressReader, domainReader, nil, testLogger())
		progress, err := svc.DomainProgress(ctx, userID, domainID)
		require.NoError(t, err)

		assert.Equal(t, 0, progress.TotalTerms)
		assert.Equal(t, 0.0, progress.CompletionPercentage)
		assert.Equal(t, 0.0, progress.MasteryPercentage)
	})

	t.Run("unknown domain", func(t *testing.T) {
		t.Parallel()
		progressReader := new(MockProgressReader)
		domainReader := new(MockDomainReader)
		domainReader.On("GetByID", ctx, domainID).Return(nil, store.ErrDomainNotFound)

		svc := mastery.NewService(progressReader, domainReader, nil, testLogger())
		_, err := svc.DomainProgress(ctx, userID, domainID)
		assert.ErrorIs(t, err, store.ErrDomainNotFound)
	})
}
