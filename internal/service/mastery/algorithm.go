package mastery

import (
	"sort"

	"github.com/termwise/termwise-api/internal/domain"
)

// bestKAverage returns the average of the k highest scores. k is clamped
// to the number of scores; an empty input yields 0.
//
// This statistic is what makes mastery monotone under new attempts:
// appending a score can only leave the top-k subset unchanged or replace
// a lower member with a higher one, so the average never decreases.
func bestKAverage(scores []float64, k int) float64 {
	if len(scores) == 0 || k <= 0 {
		return 0
	}

	if k > len(scores) {
		k = len(scores)
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var sum float64
	for _, s := range sorted[:k] {
		sum += s
	}
	return sum / float64(k)
}

// levelFor maps a mastery score onto its band. A term with no attempts is
// not_attempted regardless of score; with attempts, a score below every
// band bound is needs_practice.
func levelFor(score float64, attempts int, params *Params) domain.MasteryLevel {
	if attempts == 0 {
		return domain.MasteryLevelNotAttempted
	}

	switch {
	case score >= params.MasteredBound:
		return domain.MasteryLevelMastered
	case score >= params.ProficientBound:
		return domain.MasteryLevelProficient
	case score >= params.DevelopingBound:
		return domain.MasteryLevelDeveloping
	case score >= params.BeginnerBound:
		return domain.MasteryLevelBeginner
	default:
		return domain.MasteryLevelNeedsPractice
	}
}

// countsTowardCompletion reports whether a term at this level counts into
// the domain completion percentage.
func countsTowardCompletion(level domain.MasteryLevel) bool {
	switch level {
	case domain.MasteryLevelMastered, domain.MasteryLevelProficient, domain.MasteryLevelDeveloping:
		return true
	default:
		return false
	}
}
