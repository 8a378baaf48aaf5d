package embedding

import "context"

// TextEmbedder defines the interface for turning text into a dense vector.
// This interface serves as a boundary between the application core and
// external embedding-model services, following the hexagonal architecture
// pattern. Implementations must be safe for concurrent use: the model is
// loaded once and treated as an immutable shared resource.
type TextEmbedder interface {
	// Encode returns the embedding vector for the given text.
	// It must be deterministic for a fixed input: repeated calls return
	// the same vector so downstream similarity scores are reproducible.
	//
	// Returns ErrUnavailable (possibly wrapped) when the backend cannot be
	// reached or times out; callers must not interpret that as a zero
	// similarity.
	Encode(ctx context.Context, text string) ([]float32, error)

	// HealthCheck reports whether the embedding backend is reachable.
	HealthCheck(ctx context.Context) bool
}
