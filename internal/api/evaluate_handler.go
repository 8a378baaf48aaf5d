package api

import (
	"log/slog"
	"net/http"

	"github.com/termwise/termwise-api/internal/api/shared"
	"github.com/termwise/termwise-api/internal/evaluation"
	"github.com/termwise/termwise-api/internal/platform/logger"
)

// EvaluateHandler handles standalone answer-evaluation HTTP requests.
// These endpoints grade answers outside any quiz session; nothing is
// persisted.
type EvaluateHandler struct {
	evaluator        evaluation.Evaluator
	defaultThreshold float64
	logger           *slog.Logger
}

// NewEvaluateHandler creates a new EvaluateHandler
func NewEvaluateHandler(
	evaluator evaluation.Evaluator,
	defaultThreshold float64,
	logger *slog.Logger,
) *EvaluateHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EvaluateHandler")
	}

	return &EvaluateHandler{
		evaluator:        evaluator,
		defaultThreshold: defaultThreshold,
		logger:           logger.With(slog.String("component", "evaluate_handler")),
	}
}

// EvaluateRequest represents the request body for a single evaluation
type EvaluateRequest struct {
	StudentAnswer string   `json:"student_answer" validate:"required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Threshold     *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// EvaluateBatchRequest represents the request body for batch evaluation
type EvaluateBatchRequest struct {
	Pairs     []evaluation.Pair `json:"pairs" validate:"required,min=1,dive"`
	Threshold *float64          `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// BatchItemResponse is the per-pair outcome in a batch response. Failed
// pairs carry an error message instead of a result.
type BatchItemResponse struct {
	Result *evaluation.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// Evaluate handles POST /evaluate requests
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req EvaluateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	result, err := h.evaluator.Evaluate(r.Context(), req.StudentAnswer, req.CorrectAnswer, threshold)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("standalone evaluation completed",
		slog.Float64("similarity", result.Similarity),
		slog.Bool("is_correct", result.IsCorrect))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// EvaluateBatch handles POST /evaluate/batch requests
// Pairs are evaluated independently: one failing pair is reported in its
// slot and never aborts the rest of the batch.
func (h *EvaluateHandler) EvaluateBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req EvaluateBatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	items, err := h.evaluator.EvaluateBatch(r.Context(), req.Pairs, threshold)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]BatchItemResponse, len(items))
	failed := 0
	for i, item := range items {
		if item.Err != nil {
			responses[i] = BatchItemResponse{Error: GetSafeErrorMessage(item.Err)}
			failed++
			continue
		}
		responses[i] = BatchItemResponse{Result: item.Result}
	}

	log.Debug("batch evaluation completed",
		slog.Int("pairs", len(items)),
		slog.Int("failed", failed))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"items": responses,
	})
}
