package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Journey backend
	JourneyAPIURL string
	MemberID      string // empty shows the built-in demo journey

	// Query cache
	JourneyStaleTime time.Duration
	AgentsStaleTime  time.Duration
	JourneyRetry     int

	// Storage, all optional
	RedisURL    string
	DatabaseURL string // Postgres snapshots; takes precedence over SQLitePath
	SQLitePath  string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		JourneyAPIURL:    os.Getenv("JOURNEY_API_URL"),
		MemberID:         os.Getenv("MEMBER_ID"),
		JourneyStaleTime: getDuration("JOURNEY_STALE_TIME", 5*time.Minute),
		AgentsStaleTime:  getDuration("AGENTS_STALE_TIME", 10*time.Minute),
		JourneyRetry:     getInt("JOURNEY_RETRY", 1),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	// In production the backend must be named explicitly
	if cfg.Env == "production" {
		if cfg.JourneyAPIURL == "" {
			panic("JOURNEY_API_URL is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a Go duration such as "90s". Invalid values use the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
