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

// PostgresDomainStore implements the store.DomainStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDomainStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDomainStore creates a new PostgreSQL implementation of the
// DomainStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDomainStore(db store.DBTX, logger *slog.Logger) *PostgresDomainStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDomainStore{
		db:     db,
		logger: logger.With(slog.String("component", "domain_store")),
	}
}

// Ensure PostgresDomainStore implements store.DomainStore interface
var _ store.DomainStore = (*PostgresDomainStore)(nil)

// WithTx implements store.DomainStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresDomainStore) WithTx(tx *sql.Tx) store.DomainStore {
	return &PostgresDomainStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DomainStore.Create
// Returns store.ErrDuplicate if the user already owns a domain with the
// same name (unique index on user_id, name).
func (s *PostgresDomainStore) Create(ctx context.Context, d *domain.KnowledgeDomain) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := d.Validate(); err != nil {
		log.Warn("domain validation failed during create",
			slog.String("error", err.Error()),
			slog.String("domain_id", d.ID.String()))
		return err
	}

	query := `
		INSERT INTO domains (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, d.ID, d.UserID, d.Name, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate domain name for user",
				slog.String("user_id", d.UserID.String()),
				slog.String("name", d.Name))
			return fmt.Errorf("%w: domain named %q already exists for this user",
				store.ErrDuplicate, d.Name)
		}

		log.Error("failed to create domain",
			slog.String("error", err.Error()),
			slog.String("domain_id", d.ID.String()))
		return MapError(err)
	}

	log.Info("domain created successfully",
		slog.String("domain_id", d.ID.String()),
		slog.String("user_id", d.UserID.String()))
	return nil
}

// GetByID implements store.DomainStore.GetByID
// Returns store.ErrDomainNotFound if the domain does not exist.
func (s *PostgresDomainStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDomain, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM domains
		WHERE id = $1
	`

	var d domain.KnowledgeDomain
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("domain not found", slog.String("domain_id", id.String()))
			return nil, store.ErrDomainNotFound
		}
		log.Error("failed to get domain by ID",
			slog.String("error", err.Error()),
			slog.String("domain_id", id.String()))
		return nil, err
	}

	return &d, nil
}

// ListByUser implements store.DomainStore.ListByUser
func (s *PostgresDomainStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.KnowledgeDomain, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM domains
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query domains by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	domains := []*domain.KnowledgeDomain{}
	for rows.Next() {
		var d domain.KnowledgeDomain
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			log.Error("failed to scan domain row", slog.String("error", err.Error()))
			return nil, err
		}
		domains = append(domains, &d)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return domains, nil
}

// Delete implements store.DomainStore.Delete
// Terms under the domain are removed by the ON DELETE CASCADE constraint.
// Returns store.ErrDomainNotFound if the domain does not exist.
func (s *PostgresDomainStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM domains WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete domain",
			slog.String("error", err.Error()),
			slog.String("domain_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("domain_id", id.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("domain not found for delete", slog.String("domain_id", id.String()))
		return store.ErrDomainNotFound
	}

	log.Info("domain deleted successfully", slog.String("domain_id", id.String()))
	return nil
}

// CreateTerms implements store.DomainStore.CreateTerms
// Each term is validated and inserted individually; run inside a
// transaction via WithTx when the batch must land atomically.
func (s *PostgresDomainStore) CreateTerms(ctx context.Context, terms []*domain.Term) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO terms (id, domain_id, text, definition, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, term := range terms {
		if err := term.Validate(); err != nil {
			log.Warn("term validation failed during create",
				slog.String("error", err.Error()),
				slog.String("term_id", term.ID.String()))
			return err
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			term.ID,
			term.DomainID,
			term.Text,
			term.Definition,
			term.Position,
			term.CreatedAt,
			term.UpdatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: domain with ID %s not found",
					store.ErrInvalidEntity, term.DomainID)
			}
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: position %d already taken in domain",
					store.ErrDuplicate, term.Position)
			}
			log.Error("failed to create term",
				slog.String("error", err.Error()),
				slog.String("term_id", term.ID.String()))
			return MapError(err)
		}
	}

	log.Info("terms created successfully", slog.Int("count", len(terms)))
	return nil
}

// ListTerms implements store.DomainStore.ListTerms
// The ascending position ordering is the quiz ordering and must be stable
// across calls: sessions index into it with current_term_index.
func (s *PostgresDomainStore) ListTerms(ctx context.Context, domainID uuid.UUID) ([]*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, domain_id, text, definition, position, created_at, updated_at
		FROM terms
		WHERE domain_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, domainID)
	if err != nil {
		log.Error("failed to query terms",
			slog.String("error", err.Error()),
			slog.String("domain_id", domainID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	terms := []*domain.Term{}
	for rows.Next() {
		var t domain.Term
		err := rows.Scan(&t.ID, &t.DomainID, &t.Text, &t.Definition, &t.Position,
			&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			log.Error("failed to scan term row", slog.String("error", err.Error()))
			return nil, err
		}
		terms = append(terms, &t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return terms, nil
}

// GetTerm implements store.DomainStore.GetTerm
// Returns store.ErrTermNotFound if the term does not exist.
func (s *PostgresDomainStore) GetTerm(ctx context.Context, termID uuid.UUID) (*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, domain_id, text, definition, position, created_at, updated_at
		FROM terms
		WHERE id = $1
	`

	var t domain.Term
	err := s.db.QueryRowContext(ctx, query, termID).Scan(
		&t.ID,
		&t.DomainID,
		&t.Text,
		&t.Definition,
		&t.Position,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("term not found", slog.String("term_id", termID.String()))
			return nil, store.ErrTermNotFound
		}
		log.Error("failed to get term by ID",
			slog.String("error", err.Error()),
			slog.String("term_id", termID.String()))
		return nil, err
	}

	return &t, nil
}

// CountTerms implements store.DomainStore.CountTerms
func (s *PostgresDomainStore) CountTerms(ctx context.Context, domainID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM terms WHERE domain_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, domainID).Scan(&count); err != nil {
		log.Error("failed to count terms",
			slog.String("error", err.Error()),
			slog.String("domain_id", domainID.String()))
		return 0, err
	}
	return count, nil
}
