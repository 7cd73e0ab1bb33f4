// Package timeouts provides centralized timeout constants for the
// application.
//
// Dialogflow imposes the tightest bound: a fulfillment webhook must answer
// within its platform deadline or the agent falls back to the intent's
// static response. A turn that needs a catalog refresh pays one Sheets
// round trip, so the write timeout leaves room for it.
package timeouts

import "time"

const (
	// HTTPRead is the server read timeout. Fulfillment payloads are small
	// JSON bodies.
	HTTPRead = 10 * time.Second

	// HTTPWrite is the server write timeout. Covers one turn including a
	// catalog refresh and response serialization.
	HTTPWrite = 30 * time.Second

	// HTTPIdle is the keep-alive idle timeout.
	HTTPIdle = 120 * time.Second

	// CatalogWarm bounds the startup catalog load. Startup proceeds on
	// failure; the first request retries.
	CatalogWarm = 30 * time.Second

	// SheetFetch bounds one Sheets round trip inside a shared catalog
	// refresh. The refresh runs detached from the callers that wait on
	// it, so this is its only deadline.
	SheetFetch = 20 * time.Second

	// ReadinessCheck bounds the refresh attempt made by the readiness
	// probe when no snapshot is loaded yet.
	ReadinessCheck = 3 * time.Second

	// SentryFlush bounds the event flush during shutdown.
	SentryFlush = 2 * time.Second
)
