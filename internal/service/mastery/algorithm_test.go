package mastery

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/termwise/termwise-api/internal/domain"
)

func TestBestKAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []float64
		k      int
		want   float64
	}{
		{"empty", nil, 3, 0},
		{"zero k", []float64{0.9}, 0, 0},
		{"fewer than k", []float64{0.6, 0.8}, 3, 0.7},
		{"exactly k", []float64{0.6, 0.8, 1.0}, 3, 0.8},
		{"more than k keeps the best", []float64{0.2, 0.9, 0.1, 0.8, 0.7}, 3, 0.8},
		{"single attempt", []float64{0.5}, 3, 0.5},
		{"all identical", []float64{0.4, 0.4, 0.4, 0.4}, 3, 0.4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := bestKAverage(tt.scores, tt.k)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBestKAverage_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	scores := []float64{0.1, 0.9, 0.5}
	bestKAverage(scores, 2)
	assert.Equal(t, []float64{0.1, 0.9, 0.5}, scores)
}

// Mastery never decreases as attempts accumulate, whatever the new score.
func TestBestKAverage_Monotone(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		var scores []float64
		prev := 0.0
		for i := 0; i < 20; i++ {
			scores = append(scores, rng.Float64())
			got := bestKAverage(scores, 3)
			assert.GreaterOrEqual(t, got, prev,
				"mastery decreased after attempt %d in trial %d", i+1, trial)
			prev = got
		}
	}
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	tests := []struct {
		name     string
		score    float64
		attempts int
		want     domain.MasteryLevel
	}{
		{"no attempts", 0, 0, domain.MasteryLevelNotAttempted},
		{"no attempts ignores score", 0.99, 0, domain.MasteryLevelNotAttempted},
		{"mastered", 0.9, 2, domain.MasteryLevelMastered},
		{"mastered boundary", 0.85, 1, domain.MasteryLevelMastered},
		{"proficient", 0.75, 1, domain.MasteryLevelProficient},
		{"developing", 0.6, 1, domain.MasteryLevelDeveloping},
		{"beginner", 0.45, 4, domain.MasteryLevelBeginner},
		{"needs practice", 0.2, 1, domain.MasteryLevelNeedsPractice},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, levelFor(tt.score, tt.attempts, params))
		})
	}
}

func TestCountsTowardCompletion(t *testing.T) {
	t.Parallel()

	assert.True(t, countsTowardCompletion(domain.MasteryLevelMastered))
	assert.True(t, countsTowardCompletion(domain.MasteryLevelProficient))
	assert.True(t, countsTowardCompletion(domain.MasteryLevelDeveloping))
	assert.False(t, countsTowardCompletion(domain.MasteryLevelBeginner))
	assert.False(t, countsTowardCompletion(domain.MasteryLevelNeedsPractice))
	assert.False(t, countsTowardCompletion(domain.MasteryLevelNotAttempted))
}
