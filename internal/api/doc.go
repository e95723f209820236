// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api serves recommendations over HTTP.

Routes (all under /api/v1 except /metrics):

	GET  /health                        liveness and index readiness
	GET  /recommendations?title=&limit= similar movies by title
	GET  /movies/{id}/similar?limit=    similar movies by identifier
	GET  /index/status                  published index and last build attempt
	POST /index/reload                  rebuild from the dataset and swap
	GET  /index/events                  websocket stream of index builds
	GET  /metrics                       Prometheus exposition

Every JSON response uses the models.APIResponse envelope. Errors carry a
machine-readable code:

	400 VALIDATION_ERROR   bad query parameters
	404 UNKNOWN_TITLE      title or id not in the index
	409 BUILD_IN_PROGRESS  reload requested while a build runs
	422 INDEX_BUILD_FAILED dataset produced no usable index
	503 INDEX_UNAVAILABLE  no index published yet or dataset unreadable
	503 EVENTS_UNAVAILABLE websocket hub not configured or stopped

The router is chi with go-chi/cors and go-chi/httprate; the handler depends on
the Recommender and Reloader interfaces so tests can run against a real
recommend.Engine built from a small corpus.
*/
package api
