// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package models defines the JSON bodies exchanged by the HTTP API.
//
// Every endpoint answers with an APIResponse envelope. Payload types that
// belong to the recommender (recommend.Response, recommend.IndexStats) are
// embedded as-is; this package only adds the envelope and the endpoint
// specific summaries that have no home in the domain packages.
package models
