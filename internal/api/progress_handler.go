package api

import (
	"log/slog"
	"net/http"

	"github.com/termwise/termwise-api/internal/api/shared"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/service/mastery"
)

// ProgressHandler handles mastery and progress HTTP requests
type ProgressHandler struct {
	masteryService mastery.Service
	logger         *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(masteryService mastery.Service, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		masteryService: masteryService,
		logger:         logger.With(slog.String("component", "progress_handler")),
	}
}

// GetTermMastery handles GET /progress/terms/{id} requests
// It reports the authenticated user's mastery for one term.
func (h *ProgressHandler) GetTermMastery(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	termID, ok := parseIDParam(w, r, "id", "Term")
	if !ok {
		return
	}

	result, err := h.masteryService.TermMastery(r.Context(), userID, termID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetDomainProgress handles GET /progress/domains/{id} requests
// It rolls term mastery up across the whole domain for the authenticated
// user, including the per-band breakdown.
func (h *ProgressHandler) GetDomainProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	domainID, ok := parseIDParam(w, r, "id", "Domain")
	if !ok {
		return
	}

	result, err := h.masteryService.DomainProgress(r.Context(), userID, domainID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
