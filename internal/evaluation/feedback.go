package evaluation

import "fmt"

// Fixed feedback band lower bounds. The threshold itself forms a fifth,
// movable band ("correct") between these.
const (
	excellentBound = 0.85
	goodBound      = 0.70
	partialBound   = 0.50
)

// feedbackFor renders feedback for a score using the fixed, ordered band
// set. The winning band is the one with the highest lower bound the score
// meets or exceeds; the configured threshold competes as the lower bound
// of the "correct" band. Bands below the threshold include the expected
// answer text so the learner can study it.
func feedbackFor(score, threshold float64, correctAnswer string) string {
	type band struct {
		bound   float64
		message func() string
	}

	bands := []band{
		{excellentBound, func() string {
			return "Excellent! Your answer captures the meaning precisely."
		}},
		{goodBound, func() string {
			return "Good answer. You clearly understand this term."
		}},
		{threshold, func() string {
			return "Correct. Your answer matches the expected meaning."
		}},
		{partialBound, func() string {
			return fmt.Sprintf("Partially correct. The expected answer was: %s", correctAnswer)
		}},
	}

	best := -1
	for i, b := range bands {
		if score >= b.bound && (best == -1 || b.bound > bands[best].bound) {
			best = i
		}
	}
	if best >= 0 {
		return bands[best].message()
	}

	return fmt.Sprintf("Not quite. The expected answer was: %s", correctAnswer)
}
