package api

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/termwise/termwise-api/internal/api/shared"
	"github.com/termwise/termwise-api/internal/domain"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/store"
)

// DomainHandler handles knowledge-domain HTTP requests
type DomainHandler struct {
	db      *sql.DB
	domains store.DomainStore
	logger  *slog.Logger
}

// NewDomainHandler creates a new DomainHandler
func NewDomainHandler(db *sql.DB, domains store.DomainStore, logger *slog.Logger) *DomainHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DomainHandler")
	}

	return &DomainHandler{
		db:      db,
		domains: domains,
		logger:  logger.With(slog.String("component", "domain_handler")),
	}
}

// TermRequest is one term in a domain-creation request
type TermRequest struct {
	Text       string `json:"text" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}

// CreateDomainRequest represents the request body for creating a domain
// together with its terms
type CreateDomainRequest struct {
	Name  string        `json:"name" validate:"required,max=200"`
	Terms []TermRequest `json:"terms" validate:"omitempty,dive"`
}

// DomainResponse represents a domain with its term count
type DomainResponse struct {
	*domain.KnowledgeDomain
	TermCount int `json:"term_count"`
}

// DomainDetailResponse represents a domain with its full term list
type DomainDetailResponse struct {
	*domain.KnowledgeDomain
	Terms []*domain.Term `json:"terms"`
}

// Create handles POST /domains requests
// The domain and its terms are created in one transaction; term positions
// follow the order of the request body.
func (h *DomainHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDomainRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	knowledgeDomain, err := domain.NewKnowledgeDomain(userID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid domain data", err)
		return
	}

	terms := make([]*domain.Term, 0, len(req.Terms))
	for i, tr := range req.Terms {
		term, err := domain.NewTerm(knowledgeDomain.ID, tr.Text, tr.Definition, i)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
				fmt.Sprintf("Invalid term at position %d", i), err)
			return
		}
		terms = append(terms, term)
	}

	err = store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		txDomains := h.domains.WithTx(tx)
		if err := txDomains.Create(ctx, knowledgeDomain); err != nil {
			return err
		}
		if len(terms) > 0 {
			if err := txDomains.CreateTerms(ctx, terms); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("domain created",
		slog.String("domain_id", knowledgeDomain.ID.String()),
		slog.Int("term_count", len(terms)))
	shared.RespondWithJSON(w, r, http.StatusCreated, DomainResponse{
		KnowledgeDomain: knowledgeDomain,
		TermCount:       len(terms),
	})
}

// List handles GET /domains requests
// It lists the authenticated user's domains, newest first.
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	domains, err := h.domains.ListByUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]DomainResponse, 0, len(domains))
	for _, d := range domains {
		count, err := h.domains.CountTerms(r.Context(), d.ID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		responses = append(responses, DomainResponse{KnowledgeDomain: d, TermCount: count})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /domains/{id} requests
// The response includes the domain's full term list in quiz order.
func (h *DomainHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	knowledgeDomain, err := h.domains.GetByID(r.Context(), domainID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if knowledgeDomain.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this domain")
		return
	}

	terms, err := h.domains.ListTerms(r.Context(), domainID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DomainDetailResponse{
		KnowledgeDomain: knowledgeDomain,
		Terms:           terms,
	})
}

// Delete handles DELETE /domains/{id} requests
// Deleting a domain cascades to its terms.
func (h *DomainHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	knowledgeDomain, err := h.domains.GetByID(r.Context(), domainID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if knowledgeDomain.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this domain")
		return
	}

	if err := h.domains.Delete(r.Context(), domainID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("domain deleted", slog.String("domain_id", domainID.String()))
	w.WriteHeader(http.StatusNoContent)
}
