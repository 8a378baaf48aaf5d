package evaluation

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/termwise/termwise-api/internal/embedding"
	"github.com/termwise/termwise-api/internal/platform/logger"
)

// Verify interface compliance at compile time
var _ Evaluator = (*evaluatorImpl)(nil)

// evaluatorImpl implements the Evaluator interface over an injected
// embedding.TextEmbedder. It holds no model state beyond that handle.
type evaluatorImpl struct {
	embedder embedding.TextEmbedder
	params   *Params
	logger   *slog.Logger
}

// NewEvaluator creates a new Evaluator implementation.
// If params is nil, defaults are used.
func NewEvaluator(embedder embedding.TextEmbedder, params *Params, logger *slog.Logger) Evaluator {
	if embedder == nil {
		panic("embedder cannot be nil")
	}

	if params == nil {
		params = NewDefaultParams()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &evaluatorImpl{
		embedder: embedder,
		params:   params,
		logger:   logger.With(slog.String("component", "answer_evaluator")),
	}
}

// Evaluate implements Evaluator.Evaluate.
func (e *evaluatorImpl) Evaluate(
	ctx context.Context,
	studentAnswer, correctAnswer string,
	threshold float64,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if err := e.validateInputs(studentAnswer, correctAnswer, threshold); err != nil {
		log.Warn("evaluation input rejected", slog.String("error", err.Error()))
		return nil, err
	}

	studentVec, err := e.embedder.Encode(ctx, studentAnswer)
	if err != nil {
		log.Error("failed to embed student answer", slog.String("error", err.Error()))
		return nil, err
	}

	correctVec, err := e.embedder.Encode(ctx, correctAnswer)
	if err != nil {
		log.Error("failed to embed correct answer", slog.String("error", err.Error()))
		return nil, err
	}

	similarity := clampScore(cosineSimilarity(studentVec, correctVec))
	isCorrect := similarity >= threshold

	result := &Result{
		Similarity: similarity,
		IsCorrect:  isCorrect,
		Feedback:   feedbackFor(similarity, threshold, correctAnswer),
	}

	log.Debug("answer evaluated",
		slog.Float64("similarity", similarity),
		slog.Bool("is_correct", isCorrect),
		slog.Float64("threshold", threshold))
	return result, nil
}

// EvaluateBatch implements Evaluator.EvaluateBatch.
// It fans out across pairs with bounded parallelism but writes each
// outcome to its pair's slot, preserving the per-item ordering contract.
func (e *evaluatorImpl) EvaluateBatch(
	ctx context.Context,
	pairs []Pair,
	threshold float64,
) ([]BatchItem, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	if len(pairs) == 0 {
		return nil, ErrEmptyBatch
	}

	items := make([]BatchItem, len(pairs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.params.BatchParallelism)

	for i, pair := range pairs {
		g.Go(func() error {
			result, err := e.Evaluate(groupCtx, pair.StudentAnswer, pair.CorrectAnswer, threshold)
			if err != nil {
				// Per-item failure: record it, keep the batch going.
				items[i] = BatchItem{Err: err}
				return nil
			}
			items[i] = BatchItem{Result: result}
			return nil
		})
	}

	// The group never propagates item errors, so Wait only fails on
	// context cancellation inside errgroup itself.
	if err := g.Wait(); err != nil {
		log.Error("batch evaluation aborted", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("batch evaluated", slog.Int("pairs", len(pairs)))
	return items, nil
}

// validateInputs rejects empty/oversized texts and out-of-range thresholds.
func (e *evaluatorImpl) validateInputs(studentAnswer, correctAnswer string, threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return ErrInvalidThreshold
	}

	if strings.TrimSpace(studentAnswer) == "" || strings.TrimSpace(correctAnswer) == "" {
		return ErrEmptyAnswer
	}

	if utf8.RuneCountInString(studentAnswer) > e.params.MaxAnswerLength ||
		utf8.RuneCountInString(correctAnswer) > e.params.MaxAnswerLength {
		return ErrAnswerTooLong
	}

	return nil
}
