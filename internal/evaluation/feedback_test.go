package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackFor_Bands(t *testing.T) {
	t.Parallel()

	const answer = "the canonical definition"
	const threshold = 0.70

	tests := []struct {
		name     string
		score    float64
		contains string
	}{
		{"excellent", 0.95, "Excellent"},
		{"excellent boundary", 0.85, "Excellent"},
		{"good below excellent", 0.80, "Good answer"},
		{"good boundary", 0.70, "Good answer"},
		{"partial", 0.60, "Partially correct"},
		{"partial boundary", 0.50, "Partially correct"},
		{"incorrect", 0.30, "Not quite"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := feedbackFor(tt.score, threshold, answer)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestFeedbackFor_ThresholdBand(t *testing.T) {
	t.Parallel()

	const answer = "the canonical definition"

	// With a threshold between the partial and good bounds, scores in
	// [threshold, goodBound) land in the "correct" band.
	got := feedbackFor(0.62, 0.60, answer)
	assert.Contains(t, got, "Correct")

	// The highest lower bound met wins: a score above goodBound reports
	// "good" even when the threshold band was also met.
	got = feedbackFor(0.75, 0.60, answer)
	assert.Contains(t, got, "Good answer")

	// Fixed bands also compete when the threshold sits above them: the
	// excellent band still wins at 0.87 even against a 0.90 threshold.
	got = feedbackFor(0.87, 0.90, answer)
	assert.Contains(t, got, "Excellent")
}

func TestFeedbackFor_RevealsAnswerOnlyBelowThreshold(t *testing.T) {
	t.Parallel()

	const answer = "the canonical definition"
	const threshold = 0.70

	for _, score := range []float64{0.95, 0.85, 0.75, 0.70} {
		got := feedbackFor(score, threshold, answer)
		assert.False(t, strings.Contains(got, answer),
			"score %.2f should not reveal the expected answer", score)
	}

	for _, score := range []float64{0.65, 0.50, 0.10} {
		got := feedbackFor(score, threshold, answer)
		assert.Contains(t, got, answer)
	}
}
