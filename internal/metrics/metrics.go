// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for batch synchronization runs:
// - Per-record pipeline outcomes (converted, upserted, failed)
// - ILS API request latency and status distribution
// - Circuit breaker state for the ILS client

var (
	// Record Pipeline Metrics
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibsync_records_processed_total",
			Help: "Total number of registry records processed, by job and outcome",
		},
		[]string{"job", "outcome"}, // outcome: "success", "fetch_error", "convert_error", "upsert_error"
	)

	ConversionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibsync_conversion_errors_total",
			Help: "Total number of record conversion failures, by job and reason",
		},
		[]string{"job", "reason"}, // reason: "validation", "defect"
	)

	// ILS API Metrics
	UpsertRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibsync_upsert_requests_total",
			Help: "Total number of HTTP requests issued by the upsert client",
		},
		[]string{"resource", "method", "status_code"},
	)

	UpsertDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bibsync_upsert_duration_seconds",
			Help:    "Duration of complete upsert exchanges (fetch + create/update) in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"resource"},
	)

	// Batch Run Metrics
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bibsync_batch_duration_seconds",
			Help:    "Duration of full batch runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"job"},
	)

	BatchLastSuccessCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bibsync_batch_last_success_count",
			Help: "Number of records that reached SUCCEEDED in the most recent run",
		},
		[]string{"job"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bibsync_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibsync_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordUpsertRequest records a single HTTP exchange against the ILS API.
func RecordUpsertRequest(resource, method string, statusCode int) {
	UpsertRequests.WithLabelValues(resource, method, strconv.Itoa(statusCode)).Inc()
}

// ObserveUpsertDuration records the duration of a complete upsert exchange.
func ObserveUpsertDuration(resource string, d time.Duration) {
	UpsertDuration.WithLabelValues(resource).Observe(d.Seconds())
}

// ObserveBatchRun records the outcome of a full batch run.
func ObserveBatchRun(job string, d time.Duration, successCount int) {
	BatchDuration.WithLabelValues(job).Observe(d.Seconds())
	BatchLastSuccessCount.WithLabelValues(job).Set(float64(successCount))
}
