package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External services
	DemandAPIURL string
	GapAPIURL    string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Sessions & caching
	SessionTTL  time.Duration
	RankingsTTL time.Duration

	// Chat limits
	MaxQueryLen  int
	RateLimitRPM int

	// Observability
	OTLPEndpoint string

	// Auth (empty secret disables authentication)
	JWTSecret string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DemandAPIURL: getEnv("DEMAND_API_URL", "http://localhost:5001"),
		GapAPIURL:    getEnv("GAP_API_URL", "http://localhost:5002"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		// Each turn makes a single attempt per collaborator; failures
		// degrade to an apologetic answer rather than a retry storm.
		MaxRetries:     getEnvInt("MAX_RETRIES", 0),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),
		RankingsTTL: getEnvDuration("RANKINGS_TTL", 10*time.Minute),

		MaxQueryLen:  getEnvInt("MAX_QUERY_LEN", 500),
		RateLimitRPM: getEnvInt("RATE_LIMIT_RPM", 60),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
