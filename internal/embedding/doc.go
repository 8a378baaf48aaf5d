// Package embedding defines the text-embedding boundary between the
// application core and external model backends. The core consumes the
// TextEmbedder interface; concrete clients live under platform.
package embedding
