package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SessionStore.Create
// It saves a new quiz session to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the domain ID doesn't exist (foreign key violation).
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.QuizSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO quiz_sessions (id, user_id, domain_id, status, current_term_index,
			total_terms, correct_answers, score_total, version, started_at,
			paused_at, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.DomainID,
		session.Status,
		session.CurrentTermIndex,
		session.TotalTerms,
		session.CorrectAnswers,
		session.ScoreTotal,
		session.Version,
		session.StartedAt,
		session.PausedAt,
		session.CompletedAt,
		session.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during session creation",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID.String()),
				slog.String("domain_id", session.DomainID.String()))
			return fmt.Errorf("%w: domain with ID %s not found",
				store.ErrInvalidEntity, session.DomainID)
		}

		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("session created successfully",
		slog.String("session_id", session.ID.String()),
		slog.String("domain_id", session.DomainID.String()),
		slog.Int("total_terms", session.TotalTerms))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// It retrieves a session by its unique ID.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuizSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving session by ID", slog.String("session_id", id.String()))

	query := `
		SELECT id, user_id, domain_id, status, current_term_index, total_terms,
			correct_answers, score_total, version, started_at, paused_at,
			completed_at, updated_at
		FROM quiz_sessions
		WHERE id = $1
	`

	var session domain.QuizSession
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.DomainID,
		&status,
		&session.CurrentTermIndex,
		&session.TotalTerms,
		&session.CorrectAnswers,
		&session.ScoreTotal,
		&session.Version,
		&session.StartedAt,
		&session.PausedAt,
		&session.CompletedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	session.Status = domain.SessionStatus(status)

	return &session, nil
}

// Update implements store.SessionStore.Update
// It applies the patch under an optimistic version check: the single
// UPDATE statement only matches when the stored version still equals
// expectedVersion, and increments the version in the same statement.
// Returns store.ErrSessionNotFound if the session does not exist.
// Returns store.ErrConflict if the session exists but a concurrent writer
// already bumped the version.
func (s *PostgresSessionStore) Update(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int,
	patch store.SessionPatch,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE quiz_sessions
		SET status = $1,
			current_term_index = $2,
			correct_answers = $3,
			score_total = $4,
			paused_at = $5,
			completed_at = $6,
			updated_at = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		patch.Status,
		patch.CurrentTermIndex,
		patch.CorrectAnswers,
		patch.ScoreTotal,
		patch.PausedAt,
		patch.CompletedAt,
		patch.UpdatedAt,
		id,
		expectedVersion,
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		// Zero rows means either the session is gone or the version check
		// failed; a second lookup tells the two apart.
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM quiz_sessions WHERE id = $1)`
		if err := s.db.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
			log.Error("failed to check session existence after update miss",
				slog.String("error", err.Error()),
				slog.String("session_id", id.String()))
			return err
		}
		if !exists {
			log.Debug("session not found for update",
				slog.String("session_id", id.String()))
			return store.ErrSessionNotFound
		}
		log.Warn("optimistic concurrency conflict on session update",
			slog.String("session_id", id.String()),
			slog.Int("expected_version", expectedVersion))
		return fmt.Errorf("%w: session %s version changed (expected %d)",
			store.ErrConflict, id, expectedVersion)
	}

	log.Debug("session updated successfully",
		slog.String("session_id", id.String()),
		slog.String("status", string(patch.Status)),
		slog.Int("new_version", expectedVersion+1))
	return nil
}
