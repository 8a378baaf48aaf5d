package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Mastery    MasteryConfig    `mapstructure:"mastery" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// Tokens are issued by the external identity service; this service only
// verifies them, so the shared secret is the whole surface.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// EmbeddingConfig contains settings for the text-embedding backend.
type EmbeddingConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
}

// EvaluationConfig contains answer-evaluation settings.
type EvaluationConfig struct {
	// DefaultThreshold is the similarity threshold used when a request
	// does not carry its own.
	DefaultThreshold float64 `mapstructure:"default_threshold" validate:"gte=0,lte=1"`

	// MaxAnswerLength is the longest answer text the evaluator accepts,
	// in runes.
	MaxAnswerLength int `mapstructure:"max_answer_length" validate:"required,gt=0"`

	// BatchParallelism bounds the fan-out of batch evaluation.
	BatchParallelism int `mapstructure:"batch_parallelism" validate:"required,gt=0"`
}

// MasteryConfig contains mastery-scoring settings. The bounds are the
// lower edges of the mastery levels and must descend strictly from
// mastered to beginner.
type MasteryConfig struct {
	// BestK is how many of a term's highest-scoring attempts feed its
	// mastery score.
	BestK int `mapstructure:"best_k" validate:"required,gt=0"`

	MasteredBound   float64 `mapstructure:"mastered_bound" validate:"required,gt=0,lte=1"`
	ProficientBound float64 `mapstructure:"proficient_bound" validate:"required,gt=0,ltfield=MasteredBound"`
	DevelopingBound float64 `mapstructure:"developing_bound" validate:"required,gt=0,ltfield=ProficientBound"`
	BeginnerBound   float64 `mapstructure:"beginner_bound" validate:"required,gt=0,ltfield=DevelopingBound"`
}
