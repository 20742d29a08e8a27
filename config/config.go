// Package config reads service configuration from environment variables.
// In development a .env file is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// placeholderPrefix marks credentials that were never filled in. A
// placeholder secondary key disables provider fallback instead of producing
// doomed upstream calls.
const placeholderPrefix = "your_"

// Config holds all configuration for the service.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Providers
	AnthropicAPIKey   string
	OpenAIAPIKey      string
	GeminiAPIKey      string
	SecondaryProvider string // "openai" or "gemini"

	// Generation
	DefaultModel           string
	FallbackModel          string
	MaxTokens              int
	Temperature            float64
	SummarizationThreshold int

	// HTTP
	CORSOrigins []string

	// Conversation store
	StoreBackend string // "memory", "sqlite", "postgres", "redis"
	SQLitePath   string
	DatabaseURL  string
	RedisURL     string
}

// Load reads configuration from the environment and validates it.
// A missing or implausibly short primary credential is a fatal
// configuration error: the service must refuse to start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AnthropicAPIKey:   strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		SecondaryProvider: getEnv("SECONDARY_PROVIDER", "openai"),

		DefaultModel:           getEnv("DEFAULT_MODEL", "claude-sonnet-4-5"),
		FallbackModel:          getEnv("FALLBACK_MODEL", "gpt-4"),
		MaxTokens:              getEnvInt("MAX_TOKENS", 4096),
		Temperature:            getEnvFloat("TEMPERATURE", 0.7),
		SummarizationThreshold: getEnvInt("SUMMARIZATION_THRESHOLD", 20),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	if len(cfg.AnthropicAPIKey) < 20 {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY appears to be invalid (too short, length %d)", len(cfg.AnthropicAPIKey))
	}
	switch cfg.SecondaryProvider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("SECONDARY_PROVIDER must be \"openai\" or \"gemini\", got %q", cfg.SecondaryProvider)
	}

	return cfg, nil
}

// IsDevelopment returns true when running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SecondaryCredential returns the API key of the configured secondary
// provider, or "" when it is unset or a placeholder. An empty result
// disables the fallback path.
func (c *Config) SecondaryCredential() string {
	var key string
	switch c.SecondaryProvider {
	case "openai":
		key = c.OpenAIAPIKey
	case "gemini":
		key = c.GeminiAPIKey
	}
	if key == "" || strings.HasPrefix(key, placeholderPrefix) {
		return ""
	}
	return key
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, entry := range strings.Split(value, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
