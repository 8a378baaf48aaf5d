package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/termwise/termwise-api/internal/config"
	"github.com/termwise/termwise-api/internal/embedding"
	"google.golang.org/genai"
)

// healthCheckTimeout bounds the embed call made by HealthCheck.
const healthCheckTimeout = 5 * time.Second

// GeminiEmbedder implements the embedding.TextEmbedder interface using
// Google's Gemini API to embed answer text.
type GeminiEmbedder struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the embedding model to use
	model string
}

// Ensure GeminiEmbedder implements embedding.TextEmbedder
var _ embedding.TextEmbedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates a new GeminiEmbedder with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: Embedding configuration containing API key and model name
//
// Returns:
//   - A properly initialized GeminiEmbedder or an error if initialization fails
func NewGeminiEmbedder(ctx context.Context, logger *slog.Logger, cfg config.EmbeddingConfig) (*GeminiEmbedder, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", embedding.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", embedding.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			embedding.ErrInvalidConfig, err)
	}

	return &GeminiEmbedder{
		logger: logger.With(slog.String("component", "gemini_embedder")),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Encode implements embedding.TextEmbedder.Encode.
// It requests a single embedding vector for the given text. Backend and
// transport failures surface as embedding.ErrUnavailable so callers can
// distinguish "scorer down" from any similarity outcome.
func (g *GeminiEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyText
	}

	g.logger.DebugContext(ctx, "requesting embedding",
		slog.String("model", g.model),
		slog.Int("text_length", len(text)))

	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		g.logger.ErrorContext(ctx, "embedding request failed",
			slog.String("error", err.Error()),
			slog.String("model", g.model))
		return nil, fmt.Errorf("%w: %v", embedding.ErrUnavailable, err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: response carries no embedding values", embedding.ErrInvalidResponse)
	}

	return resp.Embeddings[0].Values, nil
}

// HealthCheck implements embedding.TextEmbedder.HealthCheck.
// It embeds a constant probe string with a short timeout and reports
// whether the backend answered.
func (g *GeminiEmbedder) HealthCheck(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	_, err := g.Encode(probeCtx, "healthcheck")
	if err != nil {
		g.logger.WarnContext(ctx, "embedding backend health check failed",
			slog.String("error", err.Error()))
		return false
	}
	return true
}
