// Reelmatch - Movie Recommendations with Live OMDb Enrichment
// Copyright 2026 Reelmatch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmatch/reelmatch

// Package metrics provides Prometheus instrumentation for Reelmatch.
//
// Metrics cover the recommendation pipeline end to end:
//   - API endpoint latency and throughput
//   - Ranker latency and candidate counts
//   - OMDb fetch outcomes (success, absent, failure)
//   - Circuit breaker state for the OMDb API
//   - Catalog size gauges set at startup
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"outcome"}, // "success", "not_found", "invalid_count"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of similarity ranking in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates_returned",
			Help:    "Number of candidates returned per recommendation request",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	// OMDb Fetch Metrics
	OMDbFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omdb_fetches_total",
			Help: "Total number of OMDb metadata lookups",
		},
		[]string{"outcome"}, // "success", "absent", "error"
	)

	OMDbFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "omdb_fetch_duration_seconds",
			Help:    "Duration of individual OMDb lookups in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	EnrichBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrich_batch_size",
			Help:    "Number of titles per enrichment batch",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	EnrichBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrich_batch_duration_seconds",
			Help:    "Wall-clock duration of enrichment batches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Circuit Breaker Metrics (OMDb API)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Catalog Gauges (set once at startup)
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the loaded catalog",
		},
	)

	CatalogMatrixDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_matrix_dimension",
			Help: "Dimension of the loaded similarity matrix",
		},
	)
)

// RecordAPIRequest records metrics for a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records a ranking request outcome and timing.
func RecordRecommendation(outcome string, candidates int, duration time.Duration) {
	RecommendRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		RecommendDuration.Observe(duration.Seconds())
		RecommendCandidates.Observe(float64(candidates))
	}
}

// RecordOMDbFetch records a single metadata lookup outcome and timing.
func RecordOMDbFetch(outcome string, duration time.Duration) {
	OMDbFetchesTotal.WithLabelValues(outcome).Inc()
	OMDbFetchDuration.Observe(duration.Seconds())
}

// RecordEnrichBatch records the size and duration of an enrichment batch.
func RecordEnrichBatch(size int, duration time.Duration) {
	EnrichBatchSize.Observe(float64(size))
	EnrichBatchDuration.Observe(duration.Seconds())
}

// SetCatalogGauges sets the startup catalog gauges.
func SetCatalogGauges(items, matrixDim int) {
	CatalogItems.Set(float64(items))
	CatalogMatrixDimension.Set(float64(matrixDim))
}
