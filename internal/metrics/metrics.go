// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for:
// - Bucket ingestion (per-file loads)
// - In-memory reference datasets
// - Flight tree assembly and enrichment
// - Bucket circuit breaker
// - API endpoint latency and throughput

var (
	// Ingestion Metrics
	IngestFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skytally_ingest_files_total",
			Help: "Total number of bucket objects processed, by format and outcome",
		},
		[]string{"format", "outcome"}, // outcome: "loaded", "failed", "skipped"
	)

	IngestFileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skytally_ingest_file_duration_seconds",
			Help:    "Time spent loading a single bucket object",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"format"},
	)

	IngestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skytally_ingest_run_duration_seconds",
			Help:    "Duration of a full bucket ingestion run",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IngestLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skytally_ingest_last_success_timestamp",
			Help: "Unix timestamp of the last ingestion run that listed the bucket",
		},
	)

	// Dataset Metrics
	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skytally_dataset_records",
			Help: "Number of records currently held per reference collection",
		},
		[]string{"collection"},
	)

	DatasetReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skytally_dataset_replacements_total",
			Help: "Total number of atomic collection replacements",
		},
		[]string{"collection"},
	)

	DatasetVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skytally_dataset_version",
			Help: "Current dataset version token",
		},
	)

	// Assembly Metrics
	AssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skytally_assembly_duration_seconds",
			Help:    "Duration of flight tree assembly (read, tag, rewrite, snapshot)",
			Buckets: prometheus.DefBuckets,
		},
	)

	AssemblyRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "skytally_assembly_records",
			Help: "Number of flight records produced by the last successful assembly",
		},
	)

	AssemblyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skytally_assembly_failures_total",
			Help: "Total number of failed flight tree assemblies",
		},
	)

	AssemblyShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skytally_assembly_shared_total",
			Help: "Total number of callers that joined an assembly already in flight",
		},
	)

	// Enrichment Metrics
	EnrichSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skytally_enrich_skipped_total",
			Help: "Total number of flights skipped during enrichment, by reason",
		},
		[]string{"reason"},
	)

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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Bucket Circuit Breaker Metrics
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
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordIngestFile records the outcome of loading one bucket object.
func RecordIngestFile(format, outcome string, duration time.Duration) {
	IngestFilesTotal.WithLabelValues(format, outcome).Inc()
	if outcome != "skipped" {
		IngestFileDuration.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// RecordIngestRun records a completed ingestion run.
func RecordIngestRun(duration time.Duration, err error) {
	IngestRunDuration.Observe(duration.Seconds())
	if err == nil {
		IngestLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordDatasetReplace records an atomic collection replacement.
func RecordDatasetReplace(collection string, records int, version uint64) {
	DatasetRecords.WithLabelValues(collection).Set(float64(records))
	DatasetReplacements.WithLabelValues(collection).Inc()
	DatasetVersion.Set(float64(version))
}

// RecordAssembly records a flight tree assembly.
func RecordAssembly(duration time.Duration, records int, err error) {
	AssemblyDuration.Observe(duration.Seconds())
	if err != nil {
		AssemblyFailures.Inc()
		return
	}
	AssemblyRecords.Set(float64(records))
}

// RecordEnrichSkip records a flight dropped from enrichment.
func RecordEnrichSkip(reason string) {
	EnrichSkipped.WithLabelValues(reason).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
