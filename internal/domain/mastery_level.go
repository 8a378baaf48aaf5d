package domain

// MasteryLevel is a discretized competency bucket derived from a learner's
// historical similarity scores on a term. It is computed on demand and
// never persisted.
type MasteryLevel string

// Possible mastery level values, strongest first.
const (
	MasteryLevelMastered      MasteryLevel = "mastered"
	MasteryLevelProficient    MasteryLevel = "proficient"
	MasteryLevelDeveloping    MasteryLevel = "developing"
	MasteryLevelBeginner      MasteryLevel = "beginner"
	MasteryLevelNeedsPractice MasteryLevel = "needs_practice"
	MasteryLevelNotAttempted  MasteryLevel = "not_attempted"
)

// AllMasteryLevels lists every level in band order. Aggregation code
// relies on this ordering when building breakdowns.
var AllMasteryLevels = []MasteryLevel{
	MasteryLevelMastered,
	MasteryLevelProficient,
	MasteryLevelDeveloping,
	MasteryLevelBeginner,
	MasteryLevelNeedsPractice,
	MasteryLevelNotAttempted,
}

// TermMastery pairs a level with the score that produced it for one
// (user, term) pair.
type TermMastery struct {
	Level    MasteryLevel `json:"level"`
	Score    float64      `json:"score"`
	Attempts int          `json:"attempts"`
}

// DomainProgress rolls up mastery across every term in a domain for one
// learner. Breakdown counts across all six bands always sum to TotalTerms.
type DomainProgress struct {
	TotalTerms           int                  `json:"total_terms"`
	CompletionPercentage float64              `json:"completion_percentage"`
	MasteryPercentage    float64              `json:"mastery_percentage"`
	Breakdown            map[MasteryLevel]int `json:"mastery_breakdown"`
}
