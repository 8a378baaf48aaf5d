// Package gemini implements the embedding.TextEmbedder interface using
// Google's Gemini embedding models via the genai client.
package gemini
