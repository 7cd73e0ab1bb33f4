// Package sentry wraps Sentry SDK initialization and capture for optional
// error tracking. With an empty DSN everything here is a no-op.
package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds the Sentry knobs.
type Config struct {
	// DSN enables reporting when non-empty.
	DSN string

	// Environment identifies the deployment (e.g. "production").
	Environment string

	// Release identifies the running build.
	Release string

	// SampleRate controls error sampling in (0.0, 1.0]. Zero means 1.0.
	SampleRate float64

	// Debug enables SDK debug logging.
	Debug bool
}

// Initialize sets up the Sentry SDK. An empty DSN disables reporting and
// returns nil.
func Initialize(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// IsEnabled reports whether a Sentry client is active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Flush waits for buffered events to be sent, up to the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureException reports an error.
func CaptureException(err error) {
	sentry.CaptureException(err)
}

// CaptureExceptionWithContext reports an error on the hub bound to ctx,
// falling back to the global hub.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
