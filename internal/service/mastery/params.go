package mastery

// Params defines all configurable parameters for mastery aggregation.
// The band thresholds and the best-k window are tunables, not business
// constants; reporting surfaces should treat them as deployment config.
type Params struct {
	// BestK is the number of top similarity scores averaged into the
	// mastery score. The effective window is min(BestK, attempts).
	BestK int

	// Band lower bounds, strongest first. Bands must not overlap:
	// Mastered > Proficient > Developing > Beginner.
	MasteredBound   float64
	ProficientBound float64
	DevelopingBound float64
	BeginnerBound   float64
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance. Zero values keep the default.
type ParamsConfig struct {
	BestK int

	MasteredBound   float64
	ProficientBound float64
	DevelopingBound float64
	BeginnerBound   float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		BestK:           3,
		MasteredBound:   0.85,
		ProficientBound: 0.70,
		DevelopingBound: 0.55,
		BeginnerBound:   0.40,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.BestK > 0 {
		params.BestK = config.BestK
	}
	if config.MasteredBound > 0 {
		params.MasteredBound = config.MasteredBound
	}
	if config.ProficientBound > 0 {
		params.ProficientBound = config.ProficientBound
	}
	if config.DevelopingBound > 0 {
		params.DevelopingBound = config.DevelopingBound
	}
	if config.BeginnerBound > 0 {
		params.BeginnerBound = config.BeginnerBound
	}

	return params
}
