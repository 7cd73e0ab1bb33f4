// Package metrics defines Prometheus metrics for the webhook service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookTurnsTotal      *prometheus.CounterVec
	WebhookDurationSeconds prometheus.Histogram

	// Catalog source metrics
	SheetFetchesTotal    *prometheus.CounterVec
	SheetFetchDuration   prometheus.Histogram
	CatalogSize          prometheus.Gauge
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	StaleSnapshotsServed prometheus.Counter

	// Matcher metrics
	SearchCandidates prometheus.Histogram
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookTurnsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tthc_webhook_turns_total",
				Help: "Total number of fulfillment turns by outcome",
			},
			[]string{"outcome"}, // outcome: overview, candidate_list, detail, no_data, not_found, no_match, fallback, error
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tthc_webhook_duration_seconds",
				Help:    "Fulfillment turn duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		),

		SheetFetchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tthc_sheet_fetches_total",
				Help: "Total number of spreadsheet fetches by status",
			},
			[]string{"status"}, // status: success, error
		),

		SheetFetchDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tthc_sheet_fetch_duration_seconds",
				Help:    "Spreadsheet fetch duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),

		CatalogSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "tthc_catalog_records",
				Help: "Number of procedure records in the current snapshot",
			},
		),

		CacheHitsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "tthc_catalog_cache_hits_total",
				Help: "Turns served within the snapshot TTL",
			},
		),

		CacheMissesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "tthc_catalog_cache_misses_total",
				Help: "Turns that triggered a snapshot refresh",
			},
		),

		StaleSnapshotsServed: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "tthc_catalog_stale_served_total",
				Help: "Refresh failures served from the previous snapshot",
			},
		),

		SearchCandidates: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tthc_search_candidates",
				Help:    "Candidate count per free-text search",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 20},
			},
		),
	}
}

// RecordTurn increments the turn counter for an outcome and observes the
// turn duration.
func (m *Metrics) RecordTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.WebhookTurnsTotal.WithLabelValues(outcome).Inc()
	m.WebhookDurationSeconds.Observe(seconds)
}

// ObserveSearchCandidates records how many candidates one free-text search
// returned.
func (m *Metrics) ObserveSearchCandidates(n int) {
	if m == nil {
		return
	}
	m.SearchCandidates.Observe(float64(n))
}
