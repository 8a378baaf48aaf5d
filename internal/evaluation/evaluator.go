package evaluation

import (
	"context"
	"errors"
	"fmt"
)

// Common error types for the evaluator
var (
	// ErrValidation is the root of all input-validation failures. Callers
	// check it with errors.Is to distinguish bad requests from backend
	// trouble.
	ErrValidation = errors.New("invalid evaluation input")

	// ErrEmptyAnswer indicates an empty or whitespace-only input text.
	ErrEmptyAnswer = fmt.Errorf("%w: answer text cannot be empty", ErrValidation)

	// ErrAnswerTooLong indicates an input text over the configured maximum length.
	ErrAnswerTooLong = fmt.Errorf("%w: answer text exceeds maximum length", ErrValidation)

	// ErrInvalidThreshold indicates a threshold outside [0, 1].
	ErrInvalidThreshold = fmt.Errorf("%w: threshold must be between 0.0 and 1.0", ErrValidation)

	// ErrEmptyBatch indicates an EvaluateBatch call with no pairs.
	ErrEmptyBatch = fmt.Errorf("%w: batch must contain at least one pair", ErrValidation)
)

// Result is the outcome of evaluating one answer pair.
type Result struct {
	Similarity float64 `json:"similarity"`
	IsCorrect  bool    `json:"is_correct"`
	Feedback   string  `json:"feedback"`
}

// Pair is one (student answer, correct answer) input to batch evaluation.
type Pair struct {
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// BatchItem carries the per-pair outcome of a batch evaluation. Exactly
// one of Result and Err is set; a failing pair never aborts its batch.
type BatchItem struct {
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// Evaluator scores student answers against canonical definitions.
type Evaluator interface {
	// Evaluate scores a single answer pair against the threshold.
	//
	// Returns:
	//   - (*Result, nil): similarity in [0, 1], correctness, and feedback
	//   - (nil, ErrValidation-wrapped): empty/oversized inputs or a threshold outside [0, 1]
	//   - (nil, embedding.ErrUnavailable-wrapped): the embedding backend could
	//     not serve the request; never reported as an incorrect answer
	//
	// Repeated calls with identical inputs return identical results.
	Evaluate(ctx context.Context, studentAnswer, correctAnswer string, threshold float64) (*Result, error)

	// EvaluateBatch is observably equivalent to calling Evaluate once per
	// pair in order: same scores, correctness, and feedback, packaged
	// together. Item i of the response always corresponds to pairs[i].
	// Per-pair failures are reported in their BatchItem; only batch-level
	// validation (bad threshold, empty batch) fails the whole call.
	EvaluateBatch(ctx context.Context, pairs []Pair, threshold float64) ([]BatchItem, error)
}
