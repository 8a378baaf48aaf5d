package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/termwise/termwise-api/internal/api/shared"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/service/quiz"
)

// QuizHandler handles quiz-session HTTP requests
type QuizHandler struct {
	quizService quiz.SessionService
	logger      *slog.Logger
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(quizService quiz.SessionService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		quizService: quizService,
		logger:      logger.With(slog.String("component", "quiz_handler")),
	}
}

// StartQuizRequest represents the request body for starting a quiz session
type StartQuizRequest struct {
	DomainID string `json:"domain_id" validate:"required,uuid"`
}

// SubmitAnswerRequest represents the request body for answering the
// session's current question
type SubmitAnswerRequest struct {
	TermID string `json:"term_id" validate:"required,uuid"`
	Answer string `json:"answer" validate:"required"`
}

// Start handles POST /quiz/start requests
// It creates a new active session over the requested domain and returns
// the first question.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	domainID, err := uuid.Parse(req.DomainID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid domain ID format")
		return
	}

	result, err := h.quizService.Start(r.Context(), userID, domainID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// SubmitAnswer handles POST /quiz/{id}/answer requests
// It grades the answer against the session's current question and
// advances the session.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, ok := parseIDParam(w, r, "id", "Session")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	termID, err := uuid.Parse(req.TermID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid term ID format")
		return
	}

	result, err := h.quizService.SubmitAnswer(r.Context(), userID, sessionID, termID, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Pause handles POST /quiz/{id}/pause requests
func (h *QuizHandler) Pause(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, ok := parseIDParam(w, r, "id", "Session")
	if !ok {
		return
	}

	if err := h.quizService.Pause(r.Context(), userID, sessionID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "paused"})
}

// Resume handles POST /quiz/{id}/resume requests
// The response carries the question and progress exactly as they stood
// before the pause.
func (h *QuizHandler) Resume(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, ok := parseIDParam(w, r, "id", "Session")
	if !ok {
		return
	}

	result, err := h.quizService.Resume(r.Context(), userID, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// End handles POST /quiz/{id}/end requests
// Ending an already-completed session returns the same summary again.
func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, ok := parseIDParam(w, r, "id", "Session")
	if !ok {
		return
	}

	summary, err := h.quizService.End(r.Context(), userID, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// authenticatedUserID extracts the user ID the auth middleware placed in
// the request context.
func authenticatedUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam extracts and parses a UUID path parameter, writing a 400
// response and returning false when it is missing or malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, param, entity string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, entity+" ID is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+entity+" ID format")
		return uuid.Nil, false
	}
	return id, true
}
