// Package evaluation scores free-text answers against canonical
// definitions. It computes cosine similarity over an injected text
// embedder, decides correctness against a threshold, and renders banded
// feedback. Evaluation is deterministic: identical inputs always produce
// identical scores, decisions, and feedback.
package evaluation
