// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the catalog refresh interval and the matcher tuning knobs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for tunable values.
const (
	DefaultSheetName      = "TTHC"
	DefaultSheetRange     = "A1:Q"
	DefaultRefreshTTL     = 5 * time.Minute
	DefaultMatchThreshold = 0.42
	DefaultMatchLimit     = 8
	DefaultPort           = "8080"
)

// DefaultMatchAnchors are the multi-token anchor phrases (normalized form)
// used by the matcher's domain guard. See matcher.Config.
var DefaultMatchAnchors = []string{"giay phep xay dung", "xay dung"}

// Config holds all application configuration
type Config struct {
	// Catalog source
	SheetID               string
	SheetName             string
	SheetRange            string        // A1-notation subrange within the sheet
	GoogleCredentialsJSON string        // Service account JSON (empty = ADC or API key)
	GoogleAPIKey          string        // API key auth (empty = ADC or credentials)
	RefreshTTL            time.Duration // Catalog cache time-to-live

	// Matching
	MatchThreshold float64  // Minimum fuzzy score to accept a candidate
	MatchAnchors   []string // Normalized anchor phrases for the domain guard
	MatchLimit     int      // Maximum candidates returned per search

	// Server
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)

	// Sentry (optional)
	SentryDSN         string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack (optional)
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		SheetID:               os.Getenv(EnvSheetID),
		SheetName:             getEnv(EnvSheetName, DefaultSheetName),
		SheetRange:            getEnv(EnvSheetRange, DefaultSheetRange),
		GoogleCredentialsJSON: os.Getenv(EnvGoogleCredentials),
		GoogleAPIKey:          os.Getenv(EnvGoogleAPIKey),
		RefreshTTL:            getDurationEnv(EnvCatalogRefreshTTL, DefaultRefreshTTL),

		MatchThreshold: getFloatEnv(EnvMatchThreshold, DefaultMatchThreshold),
		MatchAnchors:   getSliceEnv(EnvMatchAnchors, DefaultMatchAnchors),
		MatchLimit:     getIntEnv(EnvMatchLimit, DefaultMatchLimit),

		Port:            getEnv(EnvPort, DefaultPort),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: os.Getenv(EnvMetricsPassword),

		SentryDSN:         os.Getenv(EnvSentryDSN),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    os.Getenv(EnvBetterStackToken),
		BetterStackEndpoint: os.Getenv(EnvBetterStackEndpoint),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.SheetID == "" {
		return fmt.Errorf("%s is required", EnvSheetID)
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", EnvMatchThreshold, c.MatchThreshold)
	}
	if c.MatchLimit <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvMatchLimit, c.MatchLimit)
	}
	if c.RefreshTTL <= 0 {
		return fmt.Errorf("%s must be positive, got %v", EnvCatalogRefreshTTL, c.RefreshTTL)
	}
	return nil
}

// ValuesRange returns the A1-notation range for the values.get call,
// e.g. "TTHC!A1:Q".
func (c *Config) ValuesRange() string {
	return c.SheetName + "!" + c.SheetRange
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getIntEnv reads an integer environment variable with a fallback default.
func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getFloatEnv reads a float environment variable with a fallback default.
func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getDurationEnv reads a duration environment variable ("5m", "90s") with a
// fallback default.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getSliceEnv reads a comma-separated environment variable with a fallback
// default. Empty entries are dropped.
func getSliceEnv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
