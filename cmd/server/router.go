package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/termwise/termwise-api/internal/api"
	apiMiddleware "github.com/termwise/termwise-api/internal/api/middleware"
	"github.com/termwise/termwise-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	quizHandler := api.NewQuizHandler(app.quizService, app.logger)
	evaluateHandler := api.NewEvaluateHandler(
		app.evaluator,
		app.config.Evaluation.DefaultThreshold,
		app.logger,
	)
	progressHandler := api.NewProgressHandler(app.masteryService, app.logger)
	domainHandler := api.NewDomainHandler(app.db, app.domainStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenVerifier)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Quiz session endpoints
			r.Post("/quiz/start", quizHandler.Start)
			r.Post("/quiz/{id}/answer", quizHandler.SubmitAnswer)
			r.Post("/quiz/{id}/pause", quizHandler.Pause)
			r.Post("/quiz/{id}/resume", quizHandler.Resume)
			r.Post("/quiz/{id}/end", quizHandler.End)

			// Standalone evaluation endpoints
			r.Post("/evaluate", evaluateHandler.Evaluate)
			r.Post("/evaluate/batch", evaluateHandler.EvaluateBatch)

			// Progress endpoints
			r.Get("/progress/terms/{id}", progressHandler.GetTermMastery)
			r.Get("/progress/domains/{id}", progressHandler.GetDomainProgress)

			// Domain management endpoints
			r.Post("/domains", domainHandler.Create)
			r.Get("/domains", domainHandler.List)
			r.Get("/domains/{id}", domainHandler.Get)
			r.Delete("/domains/{id}", domainHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", app.healthCheck)

	return r
}

// healthCheck reports liveness plus the reachability of the database and
// the embedding backend.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{
		"database":  "ok",
		"embedding": "ok",
	}

	if err := app.db.PingContext(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if !app.embedder.HealthCheck(ctx) {
		checks["embedding"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, checks)
}
