package config

import (
	"os"
	"strconv"
	"time"

	"dealscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Sources  SourcesConfig
	Server   ServerConfig
	Quota    QuotaConfig
}

// DatabaseConfig holds database connection settings. An empty URL puts the
// service in memory-backed dev mode.
type DatabaseConfig struct {
	URL string
}

// AIConfig holds reasoning-engine settings
type AIConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration
}

// SourcesConfig holds per-source upstream settings. Missing credentials are
// not an error: the affected adapter simply reports absence.
type SourcesConfig struct {
	RegistryBaseURL  string
	RegistryAPIKey   string
	SearchBaseURL    string
	SearchAPIKey     string
	SanctionsBaseURL string

	// FetchTimeout is the per-adapter ceiling; a slower source is treated
	// as absent rather than stalling the whole aggregation.
	FetchTimeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// QuotaConfig holds per-owner allowance defaults
type QuotaConfig struct {
	DefaultPeriodLimit int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		AI: AIConfig{
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnvOrDefault("LLM_MODEL", "gpt-4o"),
			SystemContext: "You are a transaction fraud analyst producing structured risk assessments.",
			MaxTokens:     getEnvIntOrDefault("LLM_MAX_TOKENS", 4000),
			Temperature:   getEnvFloatOrDefault("LLM_TEMPERATURE", 0.2),
			Timeout:       getEnvDurationOrDefault("LLM_TIMEOUT", 90*time.Second),
		},
		Sources: SourcesConfig{
			RegistryBaseURL:  getEnvOrDefault("REGISTRY_BASE_URL", "https://api.opencorporates.com/v0.4"),
			RegistryAPIKey:   os.Getenv("REGISTRY_API_KEY"),
			SearchBaseURL:    getEnvOrDefault("SEARCH_BASE_URL", "https://serpapi.com"),
			SearchAPIKey:     os.Getenv("SEARCH_API_KEY"),
			SanctionsBaseURL: getEnvOrDefault("SANCTIONS_BASE_URL", "https://api.opensanctions.org"),
			FetchTimeout:     getEnvDurationOrDefault("SOURCE_FETCH_TIMEOUT", 15*time.Second),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Quota: QuotaConfig{
			DefaultPeriodLimit: getEnvIntOrDefault("QUOTA_DEFAULT_LIMIT", 10),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OPENAI_API_KEY is required")
	}
	if config.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("LLM_MAX_TOKENS must be positive")
	}
	if config.Quota.DefaultPeriodLimit < 0 {
		return errors.ConfigInvalid("QUOTA_DEFAULT_LIMIT cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
