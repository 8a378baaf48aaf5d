package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.ProgressStore.Append
// It saves one attempt record, handling domain validation.
// The unique index on (user_id, term_id, attempt_number) backs the
// gapless attempt numbering; a duplicate maps to store.ErrDuplicate.
func (s *PostgresProgressStore) Append(ctx context.Context, record *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("progress record validation failed during append",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	query := `
		INSERT INTO progress_records (id, user_id, term_id, session_id,
			student_answer, correct_answer, is_correct, similarity_score,
			attempt_number, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.TermID,
		record.SessionID,
		record.StudentAnswer,
		record.CorrectAnswer,
		record.IsCorrect,
		record.SimilarityScore,
		record.AttemptNumber,
		record.Feedback,
		record.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate attempt number during progress append",
				slog.String("record_id", record.ID.String()),
				slog.String("term_id", record.TermID.String()),
				slog.Int("attempt_number", record.AttemptNumber))
			return fmt.Errorf("%w: attempt %d already recorded for this term",
				store.ErrDuplicate, record.AttemptNumber)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced term or session not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to append progress record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return MapError(err)
	}

	log.Debug("progress record appended",
		slog.String("record_id", record.ID.String()),
		slog.String("term_id", record.TermID.String()),
		slog.Int("attempt_number", record.AttemptNumber),
		slog.Bool("is_correct", record.IsCorrect))
	return nil
}

// CountByUserAndTerm implements store.ProgressStore.CountByUserAndTerm
func (s *PostgresProgressStore) CountByUserAndTerm(ctx context.Context, userID, termID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM progress_records
		WHERE user_id = $1 AND term_id = $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, termID).Scan(&count); err != nil {
		log.Error("failed to count attempts",
			slog.String("error", err.Error()),
			slog.String("term_id", termID.String()))
		return 0, err
	}
	return count, nil
}

// ListByUserAndTerm implements store.ProgressStore.ListByUserAndTerm
// Records come back ordered by ascending attempt number; an empty history
// yields an empty slice, not an error.
func (s *PostgresProgressStore) ListByUserAndTerm(
	ctx context.Context,
	userID, termID uuid.UUID,
) ([]*domain.ProgressRecord, error) {
	query := `
		SELECT id, user_id, term_id, session_id, student_answer, correct_answer,
			is_correct, similarity_score, attempt_number, feedback, created_at
		FROM progress_records
		WHERE user_id = $1 AND term_id = $2
		ORDER BY attempt_number ASC
	`
	return s.queryRecords(ctx, query, userID, termID)
}

// ListByUserAndDomain implements store.ProgressStore.ListByUserAndDomain
// It joins through the terms table so only attempts against terms still
// in the domain are counted.
func (s *PostgresProgressStore) ListByUserAndDomain(
	ctx context.Context,
	userID, domainID uuid.UUID,
) ([]*domain.ProgressRecord, error) {
	query := `
		SELECT pr.id, pr.user_id, pr.term_id, pr.session_id, pr.student_answer,
			pr.correct_answer, pr.is_correct, pr.similarity_score,
			pr.attempt_number, pr.feedback, pr.created_at
		FROM progress_records pr
		JOIN terms t ON t.id = pr.term_id
		WHERE pr.user_id = $1 AND t.domain_id = $2
		ORDER BY t.position ASC, pr.attempt_number ASC
	`
	return s.queryRecords(ctx, query, userID, domainID)
}

// queryRecords runs a SELECT over progress_records and scans the rows.
func (s *PostgresProgressStore) queryRecords(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query progress records",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.ProgressRecord{}
	for rows.Next() {
		var record domain.ProgressRecord
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.TermID,
			&record.SessionID,
			&record.StudentAnswer,
			&record.CorrectAnswer,
			&record.IsCorrect,
			&record.SimilarityScore,
			&record.AttemptNumber,
			&record.Feedback,
			&record.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan progress record row",
				slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}
