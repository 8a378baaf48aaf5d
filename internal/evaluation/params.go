package evaluation

// Params defines the configurable limits of the evaluator.
type Params struct {
	// MaxAnswerLength is the longest input text accepted, in runes.
	MaxAnswerLength int

	// BatchParallelism bounds how many pairs EvaluateBatch embeds
	// concurrently.
	BatchParallelism int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MaxAnswerLength:  2000,
		BatchParallelism: 4,
	}
}

// NewParams creates a new Params instance, overriding defaults with any
// positive values in the config.
func NewParams(maxAnswerLength, batchParallelism int) *Params {
	params := NewDefaultParams()

	if maxAnswerLength > 0 {
		params.MaxAnswerLength = maxAnswerLength
	}
	if batchParallelism > 0 {
		params.BatchParallelism = batchParallelism
	}

	return params
}
