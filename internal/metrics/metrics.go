// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for:
// - API endpoint latency and throughput
// - Index builds and the published index
// - Recommendation query outcomes
// - Result cache efficiency
// - IMDb catalog downloads and DuckDB ingestion
// - Circuit breakers

// Outcome labels shared by several vectors.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRestored = "restored"
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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}, // queries are in-memory reads
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Index Metrics
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_builds_total",
			Help: "Total number of index build attempts",
		},
		[]string{"outcome"}, // "success", "failure", "restored"
	)

	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "index_build_duration_seconds",
			Help:    "Duration of index builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	IndexItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_items",
			Help: "Number of movies in the published index",
		},
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_vocabulary_size",
			Help: "Number of distinct tokens in the published vocabulary",
		},
	)

	IndexEmptyProfiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_empty_profiles",
			Help: "Number of movies whose profile has no vocabulary tokens",
		},
	)

	IndexVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_version",
			Help: "Version of the published index",
		},
	)

	IndexLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_last_success_timestamp",
			Help: "Unix timestamp of the last successful index publish",
		},
	)

	// Recommendation Query Metrics
	RecommendQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"kind", "outcome"}, // kind: "title", "id"; outcome: "ok", "unknown_title", "unavailable", "invalid", "error"
	)

	RecommendQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Recommendation query duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"kind"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommendations"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Catalog Metrics
	CatalogDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_downloads_total",
			Help: "Total number of IMDb dataset file fetches",
		},
		[]string{"file", "outcome"}, // outcome: "downloaded", "skipped", "not_modified", "failure"
	)

	CatalogDownloadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_download_bytes_total",
			Help: "Total compressed bytes received from the IMDb dataset host",
		},
		[]string{"file"},
	)

	CatalogDownloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_download_duration_seconds",
			Help:    "Duration of IMDb dataset file downloads in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"file"},
	)

	// DuckDB Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Circuit Breaker Metrics
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

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

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

// IndexSummary is the subset of index statistics exported as gauges.
type IndexSummary struct {
	Version        int64
	Items          int
	VocabularySize int
	EmptyProfiles  int
}

// RecordIndexBuild records an index build attempt. On success or restore the
// published index gauges are updated; on failure they keep describing the
// index that is still serving.
func RecordIndexBuild(outcome string, duration time.Duration, summary IndexSummary) {
	IndexBuildsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeFailure {
		return
	}

	IndexBuildDuration.Observe(duration.Seconds())
	IndexItems.Set(float64(summary.Items))
	IndexVocabularySize.Set(float64(summary.VocabularySize))
	IndexEmptyProfiles.Set(float64(summary.EmptyProfiles))
	IndexVersion.Set(float64(summary.Version))
	IndexLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordRecommendQuery records a recommendation query outcome.
func RecordRecommendQuery(kind, outcome string, duration time.Duration) {
	RecommendQueriesTotal.WithLabelValues(kind, outcome).Inc()
	RecommendQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCacheEvictions records entries removed by TTL cleanup.
func RecordCacheEvictions(cacheType string, n int) {
	if n > 0 {
		CacheEvictions.WithLabelValues(cacheType).Add(float64(n))
	}
}

// RecordDownload records a catalog file fetch.
func RecordDownload(file, outcome string, bytes int64, duration time.Duration) {
	CatalogDownloadsTotal.WithLabelValues(file, outcome).Inc()
	if bytes > 0 {
		CatalogDownloadBytes.WithLabelValues(file).Add(float64(bytes))
	}
	if outcome == "downloaded" {
		CatalogDownloadDuration.WithLabelValues(file).Observe(duration.Seconds())
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}
