// Package config defines environment variable keys for configuration.
package config

const (
	// Catalog source (required)
	EnvSheetID = "TTHC_SHEET_ID"

	// Catalog source (optional)
	EnvSheetName         = "TTHC_SHEET_NAME"
	EnvSheetRange        = "TTHC_SHEET_RANGE"
	EnvGoogleCredentials = "TTHC_GOOGLE_CREDENTIALS_JSON"
	EnvGoogleAPIKey      = "TTHC_GOOGLE_API_KEY"
	EnvCatalogRefreshTTL = "TTHC_CATALOG_REFRESH_TTL"

	// Matching
	EnvMatchThreshold = "TTHC_MATCH_THRESHOLD"
	EnvMatchAnchors   = "TTHC_MATCH_ANCHORS"
	EnvMatchLimit     = "TTHC_MATCH_LIMIT"

	// Server
	EnvPort            = "TTHC_PORT"
	EnvLogLevel        = "TTHC_LOG_LEVEL"
	EnvShutdownTimeout = "TTHC_SHUTDOWN_TIMEOUT"

	// Metrics Auth Feature
	EnvMetricsUsername = "TTHC_METRICS_USERNAME"
	EnvMetricsPassword = "TTHC_METRICS_PASSWORD"

	// Sentry Feature
	EnvSentryDSN         = "TTHC_SENTRY_DSN"
	EnvSentryEnvironment = "TTHC_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "TTHC_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "TTHC_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "TTHC_BETTERSTACK_ENDPOINT"
)
