package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/termwise/termwise-api/internal/config"
	"github.com/termwise/termwise-api/internal/embedding"
	"github.com/termwise/termwise-api/internal/evaluation"
	"github.com/termwise/termwise-api/internal/platform/gemini"
	"github.com/termwise/termwise-api/internal/platform/logger"
	"github.com/termwise/termwise-api/internal/platform/postgres"
	"github.com/termwise/termwise-api/internal/service/auth"
	"github.com/termwise/termwise-api/internal/service/mastery"
	"github.com/termwise/termwise-api/internal/service/quiz"
	"github.com/termwise/termwise-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	sessionStore  store.SessionStore
	progressStore store.ProgressStore
	domainStore   store.DomainStore

	// Services
	tokenVerifier  auth.TokenVerifier
	embedder       embedding.TextEmbedder
	evaluator      evaluation.Evaluator
	quizService    quiz.SessionService
	masteryService mastery.Service
}

// initializeApp loads configuration and wires up every application
// component. Returns the assembled application or an initialization error.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}
	if err := app.wireComponents(); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// wireComponents constructs the stores and services over the open
// database connection.
func (app *application) wireComponents() error {
	app.sessionStore = postgres.NewPostgresSessionStore(app.db, app.logger)
	app.progressStore = postgres.NewPostgresProgressStore(app.db, app.logger)
	app.domainStore = postgres.NewPostgresDomainStore(app.db, app.logger)

	verifier, err := auth.NewTokenVerifier(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}
	app.tokenVerifier = verifier

	embedder, err := gemini.NewGeminiEmbedder(context.Background(), app.logger, app.config.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	app.embedder = embedder

	evalParams := evaluation.NewParams(
		app.config.Evaluation.MaxAnswerLength,
		app.config.Evaluation.BatchParallelism,
	)
	app.evaluator = evaluation.NewEvaluator(app.embedder, evalParams, app.logger)

	quizService, err := quiz.NewSessionService(
		app.db,
		app.sessionStore,
		app.progressStore,
		app.domainStore,
		app.evaluator,
		app.config.Evaluation.DefaultThreshold,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz service: %w", err)
	}
	app.quizService = quizService

	app.masteryService = mastery.NewService(
		app.progressStore,
		app.domainStore,
		mastery.NewParams(mastery.ParamsConfig{
			BestK:           app.config.Mastery.BestK,
			MasteredBound:   app.config.Mastery.MasteredBound,
			ProficientBound: app.config.Mastery.ProficientBound,
			DevelopingBound: app.config.Mastery.DevelopingBound,
			BeginnerBound:   app.config.Mastery.BeginnerBound,
		}),
		app.logger,
	)

	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
