package quiz_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/evaluation"
	"github.com/termwise/termwise-api/internal/service/quiz"
	"github.com/termwise/termwise-api/internal/store"
)

// newTransactionalTestService wires the service over a sqlmock database
// so the committed submit path runs through a real transaction. Store
// calls inside the transaction still go to the testify mocks (WithTx
// returns the mock itself), so sqlmock only sees begin/commit/rollback.
func newTransactionalTestService(t *testing.T) (quiz.SessionService, *testDeps, sqlmock.Sqlmock) {
	t.Helper()

	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := &testDeps{
		sessions:  new(MockSessionStore),
		progress:  new(MockProgressStore),
		domains:   new(MockDomainStore),
		evaluator: new(MockEvaluator),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := quiz.NewSessionService(db, deps.sessions, deps.progress, deps.domains, deps.evaluator, 0.8, logger)
	require.NoError(t, err)
	return svc, deps, mockDB
}

func TestSubmitAnswer_PersistsAttemptAndAdvances(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	domainID := uuid.New()
	ctx := context.Background()

	svc, deps, mockDB := newTransactionalTestService(t)

	session := newActiveSession(t, userID, domainID, 3)
	terms := testTerms(domainID, 3)
	evalResult := &evaluation.Result{Similarity: 0.92, IsCorrect: true, Feedback: "Excellent! Your answer matches very well."}

	deps.sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)
	deps.domains.On("ListTerms", mock.Anything, domainID).Return(terms, nil)
	deps.evaluator.On("Evaluate", mock.Anything, "an answer", terms[0].Definition, 0.8).
		Return(evalResult, nil)

	mockDB.ExpectBegin()
	deps.progress.On("CountByUserAndTerm", mock.Anything, userID, terms[0].ID).Return(2, nil)
	deps.progress.On("Append", mock.Anything, mock.AnythingOfType("*domain.ProgressRecord")).
		Run(func(args mock.Arguments) {
			record := args.Get(1).(*domain.ProgressRecord)
			assert.Equal(t, 3, record.AttemptNumber)
			assert.Equal(t, terms[0].ID, record.TermID)
			require.NotNil(t, record.SessionID)
			assert.Equal(t, session.ID, *record.SessionID)
			assert.Equal(t, "an answer", record.StudentAnswer)
			assert.Equal(t, terms[0].Definition, record.CorrectAnswer)
			assert.True(t, record.IsCorrect)
			assert.InDelta(t, 0.92, record.SimilarityScore, 1e-9)
		}).
		Return(nil)
	deps.sessions.On("Update", mock.Anything, session.ID, 1, mock.AnythingOfType("store.SessionPatch")).
		Run(func(args mock.Arguments) {
			patch := args.Get(3).(store.SessionPatch)
			assert.Equal(t, domain.SessionStatusActive, patch.Status)
			assert.Equal(t, 1, patch.CurrentTermIndex)
			assert.Equal(t, 1, patch.CorrectAnswers)
		}).
		Return(nil)
	mockDB.ExpectCommit()

	result, err := svc.SubmitAnswer(ctx, userID, session.ID, terms[0].ID, "an answer")
	require.NoError(t, err)

	assert.Equal(t, evalResult, result.Evaluation)
	require.NotNil(t, result.NextQuestion)
	assert.Equal(t, terms[1].ID, result.NextQuestion.TermID)
	assert.Equal(t, 1, result.NextQuestion.Index)
	assert.Nil(t, result.Summary)
	assert.Equal(t, 1, result.Progress.CurrentTermIndex)

	deps.progress.AssertExpectations(t)
	deps.sessions.AssertExpectations(t)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSubmitAnswer_FinalTermCompletesSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	domainID := uuid.New()
	ctx := context.Background()

	svc, deps, mockDB := newTransactionalTestService(t)

	session := newActiveSession(t, userID, domainID, 3)
	session.CurrentTermIndex = 2
	session.CorrectAnswers = 1
	session.ScoreTotal = 1.4
	terms := testTerms(domainID, 3)

	deps.sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)
	deps.domains.On("ListTerms", mock.Anything, domainID).Return(terms, nil)
	deps.evaluator.On("Evaluate", mock.Anything, "the last answer", terms[2].Definition, 0.8).
		Return(&evaluation.Result{Similarity: 0.9, IsCorrect: true, Feedback: "Excellent! Your answer matches very well."}, nil)

	mockDB.ExpectBegin()
	deps.progress.On("CountByUserAndTerm", mock.Anything, userID, terms[2].ID).Return(0, nil)
	deps.progress.On("Append", mock.Anything, mock.AnythingOfType("*domain.ProgressRecord")).
		Run(func(args mock.Arguments) {
			record := args.Get(1).(*domain.ProgressRecord)
			assert.Equal(t, 1, record.AttemptNumber)
		}).
		Return(nil)
	deps.sessions.On("Update", mock.Anything, session.ID, 1, mock.AnythingOfType("store.SessionPatch")).
		Run(func(args mock.Arguments) {
			patch := args.Get(3).(store.SessionPatch)
			assert.Equal(t, domain.SessionStatusCompleted, patch.Status)
			assert.Equal(t, 3, patch.CurrentTermIndex)
			assert.NotNil(t, patch.CompletedAt)
		}).
		Return(nil)
	mockDB.ExpectCommit()

	result, err := svc.SubmitAnswer(ctx, userID, session.ID, terms[2].ID, "the last answer")
	require.NoError(t, err)

	// The final answer yields a summary, not a next question.
	assert.Nil(t, result.NextQuestion)
	require.NotNil(t, result.Summary)
	assert.Equal(t, session.ID, result.Summary.SessionID)
	assert.Equal(t, 3, result.Summary.QuestionsAnswered)
	assert.Equal(t, 2, result.Summary.CorrectAnswers)
	assert.InDelta(t, 2.3/3, result.Summary.FinalScore, 1e-9)
	assert.NotNil(t, result.Summary.CompletionTime)

	deps.progress.AssertExpectations(t)
	deps.sessions.AssertExpectations(t)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSubmitAnswer_AppendFailureRollsBack(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	domainID := uuid.New()
	ctx := context.Background()

	svc, deps, mockDB := newTransactionalTestService(t)

	session := newActiveSession(t, userID, domainID, 3)
	terms := testTerms(domainID, 3)

	deps.sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)
	deps.domains.On("ListTerms", mock.Anything, domainID).Return(terms, nil)
	deps.evaluator.On("Evaluate", mock.Anything, "an answer", terms[0].Definition, 0.8).
		Return(&evaluation.Result{Similarity: 0.92, IsCorrect: true, Feedback: "Excellent! Your answer matches very well."}, nil)

	mockDB.ExpectBegin()
	deps.progress.On("CountByUserAndTerm", mock.Anything, userID, terms[0].ID).Return(0, nil)
	deps.progress.On("Append", mock.Anything, mock.AnythingOfType("*domain.ProgressRecord")).
		Return(errors.New("insert failed"))
	mockDB.ExpectRollback()

	_, err := svc.SubmitAnswer(ctx, userID, session.ID, terms[0].ID, "an answer")
	require.Error(t, err)

	// The session was not advanced and no version bump was attempted.
	assert.Equal(t, 0, session.CurrentTermIndex)
	assert.Equal(t, domain.SessionStatusActive, session.Status)
	deps.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
