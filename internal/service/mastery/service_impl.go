package mastery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/platform/logger"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	progressReader ProgressReader
	domainReader   DomainReader
	params         *Params
	logger         *slog.Logger
}

// NewService creates a new mastery aggregation Service.
// If params is nil, defaults are used.
func NewService(
	progressReader ProgressReader,
	domainReader DomainReader,
	params *Params,
	logger *slog.Logger,
) Service {
	if progressReader == nil {
		panic("progressReader cannot be nil")
	}
	if domainReader == nil {
		panic("domainReader cannot be nil")
	}

	if params == nil {
		params = NewDefaultParams()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		progressReader: progressReader,
		domainReader:   domainReader,
		params:         params,
		logger:         logger.With(slog.String("component", "mastery_service")),
	}
}

// TermMastery implements Service.TermMastery.
func (s *serviceImpl) TermMastery(
	ctx context.Context,
	userID, termID uuid.UUID,
) (*domain.TermMastery, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.progressReader.ListByUserAndTerm(ctx, userID, termID)
	if err != nil {
		log.Error("failed to list attempts for term",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("term_id", termID.String()))
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	mastery := masteryFromRecords(records, s.params)

	log.Debug("computed term mastery",
		slog.String("user_id", userID.String()),
		slog.String("term_id", termID.String()),
		slog.String("level", string(mastery.Level)),
		slog.Float64("score", mastery.Score),
		slog.Int("attempts", mastery.Attempts))
	return mastery, nil
}

// DomainProgress implements Service.DomainProgress.
// It loads the domain's attempt history in one read and groups it by term
// rather than issuing a query per term.
func (s *serviceImpl) DomainProgress(
	ctx context.Context,
	userID, domainID uuid.UUID,
) (*domain.DomainProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.domainReader.GetByID(ctx, domainID); err != nil {
		return nil, err
	}

	terms, err := s.domainReader.ListTerms(ctx, domainID)
	if err != nil {
		log.Error("failed to list domain terms",
			slog.String("error", err.Error()),
			slog.String("domain_id", domainID.String()))
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}

	records, err := s.progressReader.ListByUserAndDomain(ctx, userID, domainID)
	if err != nil {
		log.Error("failed to list domain attempts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("domain_id", domainID.String()))
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	byTerm := make(map[uuid.UUID][]*domain.ProgressRecord, len(terms))
	for _, record := range records {
		byTerm[record.TermID] = append(byTerm[record.TermID], record)
	}

	progress := &domain.DomainProgress{
		TotalTerms: len(terms),
		Breakdown:  make(map[domain.MasteryLevel]int, len(domain.AllMasteryLevels)),
	}
	for _, level := range domain.AllMasteryLevels {
		progress.Breakdown[level] = 0
	}

	completed := 0
	mastered := 0
	for _, term := range terms {
		mastery := masteryFromRecords(byTerm[term.ID], s.params)
		progress.Breakdown[mastery.Level]++
		if countsTowardCompletion(mastery.Level) {
			completed++
		}
		if mastery.Level == domain.MasteryLevelMastered {
			mastered++
		}
	}

	if progress.TotalTerms > 0 {
		progress.CompletionPercentage = 100 * float64(completed) / float64(progress.TotalTerms)
		progress.MasteryPercentage = 100 * float64(mastered) / float64(progress.TotalTerms)
	}

	log.Debug("computed domain progress",
		slog.String("user_id", userID.String()),
		slog.String("domain_id", domainID.String()),
		slog.Int("total_terms", progress.TotalTerms),
		slog.Float64("completion", progress.CompletionPercentage))
	return progress, nil
}

// masteryFromRecords reduces one term's attempt history to its mastery.
func masteryFromRecords(records []*domain.ProgressRecord, params *Params) *domain.TermMastery {
	scores := make([]float64, 0, len(records))
	for _, record := range records {
		scores = append(scores, record.SimilarityScore)
	}

	score := bestKAverage(scores, params.BestK)
	return &domain.TermMastery{
		Level:    levelFor(score, len(records), params),
		Score:    score,
		Attempts: len(records),
	}
}
