// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package models

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse wraps every API response.
//
// Success:
//
//	{
//	  "status": "success",
//	  "data": {"query": "The Dark Knight Rises", "items": [...]},
//	  "metadata": {"timestamp": "2026-01-03T12:00:00Z", "query_time_ms": 1, "cached": true}
//	}
//
// Error:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "UNKNOWN_TITLE", "message": "movie \"Nope 2\" is not in the dataset"},
//	  "metadata": {"timestamp": "2026-01-03T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	Cached       bool      `json:"cached,omitempty"`
	IndexVersion int64     `json:"index_version,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
}

// APIError is the error body of a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by GET /api/v1/health.
type HealthStatus struct {
	// Status is "healthy" when an index is serving, "starting" before the
	// first build and "degraded" when the last build failed with no index.
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	IndexReady   bool    `json:"index_ready"`
	IndexVersion int64   `json:"index_version,omitempty"`
	Uptime       float64 `json:"uptime_seconds"`
}

// IndexStatus is returned by GET /api/v1/index/status.
type IndexStatus struct {
	recommend.Status
	Dataset string            `json:"dataset,omitempty"`
	Metrics recommend.Metrics `json:"metrics"`
}

// ReloadResult is returned by POST /api/v1/index/reload.
type ReloadResult struct {
	Index      recommend.IndexStats `json:"index"`
	DurationMS int64                `json:"duration_ms"`
}
