// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Index Metrics:
  - index_builds_total: Build attempts (counter)
    Labels: outcome (success, failure, restored)
  - index_build_duration_seconds: Build latency (histogram)
  - index_items, index_vocabulary_size, index_empty_profiles, index_version (gauges)
  - index_last_success_timestamp: Unix time of the last publish (gauge)

Query Metrics:
  - recommend_queries_total: Queries (counter)
    Labels: kind (title, id), outcome (ok, unknown_title, unavailable, invalid, error)
  - recommend_query_duration_seconds: Query latency (histogram)

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_evictions_total (counters)
    Labels: cache_type

Catalog Metrics:
  - catalog_downloads_total: File fetches (counter)
    Labels: file, outcome (downloaded, skipped, not_modified, failure)
  - catalog_download_bytes_total: Compressed bytes received (counter)
  - catalog_download_duration_seconds: Download latency (histogram)
  - duckdb_query_duration_seconds, duckdb_query_errors_total: ingestion queries

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx, title, n)
	metrics.RecordRecommendQuery("title", outcome(err), time.Since(start))

# Thread Safety

All recording helpers are safe for concurrent use.
*/
package metrics
