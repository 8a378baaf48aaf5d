package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. TERMWISE_SERVER_PORT or TERMWISE_DATABASE_URL.
const envPrefix = "TERMWISE"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. Secrets and
	// connection strings deliberately have none.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("embedding.model_name", "text-embedding-004")
	v.SetDefault("evaluation.default_threshold", 0.7)
	v.SetDefault("evaluation.max_answer_length", 2000)
	v.SetDefault("evaluation.batch_parallelism", 4)
	v.SetDefault("mastery.best_k", 3)
	v.SetDefault("mastery.mastered_bound", 0.85)
	v.SetDefault("mastery.proficient_bound", 0.70)
	v.SetDefault("mastery.developing_bound", 0.55)
	v.SetDefault("mastery.beginner_bound", 0.40)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// A missing config file is fine: env vars alone can carry the config.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal, so bind the ones
	// we care about explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"embedding.gemini_api_key",
		"embedding.model_name",
		"evaluation.default_threshold",
		"evaluation.max_answer_length",
		"evaluation.batch_parallelism",
		"mastery.best_k",
		"mastery.mastered_bound",
		"mastery.proficient_bound",
		"mastery.developing_bound",
		"mastery.beginner_bound",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
