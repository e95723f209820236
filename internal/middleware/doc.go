// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package middleware provides the HTTP middleware mounted by the API router.
//
// All middleware use the chi signature func(http.Handler) http.Handler:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.RequestLogger(logger, time.Second))
//
// RequestID honors a well-formed inbound X-Request-ID (from a proxy) and
// otherwise generates a UUID. The ID is echoed in the response and stored in
// the request context through the logging package, so logging.Ctx attaches
// it to every line.
//
// PrometheusMetrics labels requests by chi route pattern rather than raw path
// so that /api/v1/movies/{id}/similar is one series, not one per movie.
package middleware
