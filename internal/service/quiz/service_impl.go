package quiz

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/evaluation"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/store"
)

// sessionService implements SessionService on top of the store interfaces
// and the answer evaluator.
type sessionService struct {
	db        *sql.DB
	sessions  store.SessionStore
	progress  store.ProgressStore
	domains   store.DomainStore
	evaluator evaluation.Evaluator
	threshold float64
	logger    *slog.Logger
}

// Verify interface compliance at compile time.
var _ SessionService = (*sessionService)(nil)

// NewSessionService creates a new quiz session service. The threshold is
// the similarity score at or above which an answer counts as correct.
func NewSessionService(
	db *sql.DB,
	sessions store.SessionStore,
	progress store.ProgressStore,
	domains store.DomainStore,
	evaluator evaluation.Evaluator,
	threshold float64,
	log *slog.Logger,
) (SessionService, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if progress == nil {
		return nil, fmt.Errorf("progress store cannot be nil")
	}
	if domains == nil {
		return nil, fmt.Errorf("domain store cannot be nil")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1], got %f", threshold)
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &sessionService{
		db:        db,
		sessions:  sessions,
		progress:  progress,
		domains:   domains,
		evaluator: evaluator,
		threshold: threshold,
		logger:    log.With(slog.String("component", "quiz_service")),
	}, nil
}

// Start implements SessionService.Start.
func (s *sessionService) Start(ctx context.Context, userID, domainID uuid.UUID) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	knowledgeDomain, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		return nil, NewServiceError("start", "failed to get domain", err)
	}
	if knowledgeDomain.UserID != userID {
		log.Warn("start denied: domain not owned by user",
			slog.String("domain_id", domainID.String()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("start", "domain ownership check failed", ErrDomainNotOwned)
	}

	terms, err := s.domains.ListTerms(ctx, domainID)
	if err != nil {
		return nil, NewServiceError("start", "failed to list terms", err)
	}
	if len(terms) == 0 {
		return nil, NewServiceError("start", "cannot start quiz", ErrDomainEmpty)
	}

	session, err := domain.NewQuizSession(userID, domainID, len(terms))
	if err != nil {
		return nil, NewServiceError("start", "failed to create session", err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, NewServiceError("start", "failed to save session", err)
	}

	log.Info("quiz session started",
		slog.String("session_id", session.ID.String()),
		slog.String("domain_id", domainID.String()),
		slog.Int("total_terms", session.TotalTerms))

	return &StartResult{
		SessionID: session.ID,
		Question:  questionAt(terms, 0, session.TotalTerms),
		Progress:  progressOf(session),
	}, nil
}

// Pause implements SessionService.Pause.
func (s *sessionService) Pause(ctx context.Context, userID, sessionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.ownedSession(ctx, userID, sessionID, "pause")
	if err != nil {
		return err
	}

	if err := session.Pause(time.Now().UTC()); err != nil {
		return NewServiceError("pause", "invalid transition", err)
	}
	if err := s.sessions.Update(ctx, session.ID, session.Version, store.PatchFromSession(session)); err != nil {
		return NewServiceError("pause", "failed to update session", err)
	}

	log.Info("quiz session paused", slog.String("session_id", sessionID.String()))
	return nil
}

// Resume implements SessionService.Resume.
func (s *sessionService) Resume(ctx context.Context, userID, sessionID uuid.UUID) (*ResumeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.ownedSession(ctx, userID, sessionID, "resume")
	if err != nil {
		return nil, err
	}

	if err := session.Resume(time.Now().UTC()); err != nil {
		return nil, NewServiceError("resume", "invalid transition", err)
	}
	if err := s.sessions.Update(ctx, session.ID, session.Version, store.PatchFromSession(session)); err != nil {
		return nil, NewServiceError("resume", "failed to update session", err)
	}

	terms, err := s.domains.ListTerms(ctx, session.DomainID)
	if err != nil {
		return nil, NewServiceError("resume", "failed to list terms", err)
	}
	if session.CurrentTermIndex >= len(terms) {
		// Terms were removed from the domain while the session was paused.
		// Relies on the ListTerms ordering contract: the term list does not
		// grow or reorder under a live session, so the index still points at
		// the same question.
		return nil, NewServiceError("resume", "current term no longer exists", store.ErrTermNotFound)
	}

	log.Info("quiz session resumed", slog.String("session_id", sessionID.String()))

	return &ResumeResult{
		Question: questionAt(terms, session.CurrentTermIndex, session.TotalTerms),
		Progress: progressOf(session),
	}, nil
}

// SubmitAnswer implements SessionService.SubmitAnswer.
func (s *sessionService) SubmitAnswer(ctx context.Context, userID, sessionID, termID uuid.UUID, answerText string) (*SubmitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.ownedSession(ctx, userID, sessionID, "submit_answer")
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusActive {
		return nil, NewServiceError("submit_answer", "session is not active", domain.ErrInvalidStateTransition)
	}

	terms, err := s.domains.ListTerms(ctx, session.DomainID)
	if err != nil {
		return nil, NewServiceError("submit_answer", "failed to list terms", err)
	}
	if session.CurrentTermIndex >= len(terms) {
		return nil, NewServiceError("submit_answer", "current term no longer exists", store.ErrTermNotFound)
	}
	currentTerm := terms[session.CurrentTermIndex]
	if currentTerm.ID != termID {
		return nil, NewServiceError("submit_answer", "submission targets a different term", ErrStaleQuestion)
	}

	// Grading runs before, and outside, the transaction. A failing
	// evaluation leaves the session untouched, and the embedding call
	// never holds a database transaction open.
	result, err := s.evaluator.Evaluate(ctx, answerText, currentTerm.Definition, s.threshold)
	if err != nil {
		return nil, NewServiceError("submit_answer", "evaluation failed", err)
	}

	now := time.Now().UTC()
	txErr := store.RunInTransaction(logger.WithLogger(ctx, log), s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progress.WithTx(tx)
		txSessions := s.sessions.WithTx(tx)

		attempts, err := txProgress.CountByUserAndTerm(ctx, userID, currentTerm.ID)
		if err != nil {
			return fmt.Errorf("failed to count previous attempts: %w", err)
		}

		record, err := domain.NewProgressRecord(userID, currentTerm.ID, &session.ID,
			answerText, currentTerm.Definition, result.IsCorrect, result.Similarity,
			attempts+1, result.Feedback)
		if err != nil {
			return fmt.Errorf("failed to create progress record: %w", err)
		}
		if err := txProgress.Append(ctx, record); err != nil {
			return fmt.Errorf("failed to save progress record: %w", err)
		}

		expectedVersion := session.Version
		if err := session.RecordAnswer(result.IsCorrect, result.Similarity, now); err != nil {
			return fmt.Errorf("failed to record answer on session: %w", err)
		}
		if err := txSessions.Update(ctx, session.ID, expectedVersion, store.PatchFromSession(session)); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, NewServiceError("submit_answer", "failed to persist submission", txErr)
	}

	out := &SubmitResult{
		Evaluation: result,
		Progress:   progressOf(session),
	}
	if session.Status == domain.SessionStatusCompleted {
		out.Summary = summaryOf(session)
		log.Info("quiz session completed",
			slog.String("session_id", sessionID.String()),
			slog.Int("correct_answers", session.CorrectAnswers))
	} else {
		next := questionAt(terms, session.CurrentTermIndex, session.TotalTerms)
		out.NextQuestion = &next
	}
	return out, nil
}

// End implements SessionService.End.
func (s *sessionService) End(ctx context.Context, userID, sessionID uuid.UUID) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.ownedSession(ctx, userID, sessionID, "end")
	if err != nil {
		return nil, err
	}

	// Ending twice is a no-op that returns the same summary.
	if session.Status == domain.SessionStatusCompleted {
		return summaryOf(session), nil
	}

	if err := session.Complete(time.Now().UTC()); err != nil {
		return nil, NewServiceError("end", "invalid transition", err)
	}
	if err := s.sessions.Update(ctx, session.ID, session.Version, store.PatchFromSession(session)); err != nil {
		return nil, NewServiceError("end", "failed to update session", err)
	}

	log.Info("quiz session ended",
		slog.String("session_id", sessionID.String()),
		slog.Int("questions_answered", session.CurrentTermIndex))

	return summaryOf(session), nil
}

// ownedSession loads the session and verifies the caller owns it.
func (s *sessionService) ownedSession(ctx context.Context, userID, sessionID uuid.UUID, op string) (*domain.QuizSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, NewServiceError(op, "failed to get session", err)
	}
	if session.UserID != userID {
		return nil, NewServiceError(op, "session ownership check failed", ErrSessionNotOwned)
	}
	return session, nil
}

func questionAt(terms []*domain.Term, index, total int) Question {
	t := terms[index]
	return Question{
		TermID:   t.ID,
		TermText: t.Text,
		Index:    index,
		Total:    total,
	}
}

func progressOf(s *domain.QuizSession) SessionProgress {
	return SessionProgress{
		CurrentTermIndex: s.CurrentTermIndex,
		TotalTerms:       s.TotalTerms,
		CorrectAnswers:   s.CorrectAnswers,
	}
}

func summaryOf(s *domain.QuizSession) *Summary {
	return &Summary{
		SessionID:         s.ID,
		QuestionsAnswered: s.CurrentTermIndex,
		CorrectAnswers:    s.CorrectAnswers,
		FinalScore:        s.FinalScore(),
		CompletionTime:    s.CompletedAt,
	}
}
