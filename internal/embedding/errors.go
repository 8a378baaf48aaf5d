package embedding

import "errors"

// Common errors returned by embedding implementations
var (
	// ErrUnavailable is returned when the embedding backend is unreachable,
	// times out, or is not yet loaded. Distinct from any scoring outcome.
	ErrUnavailable = errors.New("embedding backend unavailable")

	// ErrInvalidResponse is returned when the backend response cannot be
	// parsed or carries no vector.
	ErrInvalidResponse = errors.New("invalid response from embedding backend")

	// ErrEmptyText is returned when the text to embed is empty.
	ErrEmptyText = errors.New("text to embed cannot be empty")

	// ErrInvalidConfig is returned when the embedder configuration is invalid.
	ErrInvalidConfig = errors.New("invalid embedder configuration")
)
