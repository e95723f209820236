// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Recommendations answers GET /recommendations?title=&limit=.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := parseRecommendationsRequest(r, h.config.MaxLimit)
	if apiErr != nil {
		metrics.RecordRecommendQuery("title", outcomeInvalid, time.Since(start))
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	h.serveQuery(w, r, "title", start, func(ctx context.Context) (*recommend.Response, error) {
		return h.recommender.Recommend(ctx, req.Title, req.Limit)
	})
}

// Similar answers GET /movies/{id}/similar?limit=. It reaches every row,
// including those whose title is shadowed by an earlier duplicate.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := parseSimilarRequest(r, h.config.MaxLimit)
	if apiErr != nil {
		metrics.RecordRecommendQuery("id", outcomeInvalid, time.Since(start))
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	h.serveQuery(w, r, "id", start, func(ctx context.Context) (*recommend.Response, error) {
		return h.recommender.RecommendByID(ctx, req.ID, req.Limit)
	})
}

func (h *Handler) serveQuery(w http.ResponseWriter, r *http.Request, kind string, start time.Time,
	query func(ctx context.Context) (*recommend.Response, error),
) {
	resp, err := query(r.Context())
	if err != nil {
		status, apiErr, outcome := mapError(err)
		metrics.RecordRecommendQuery(kind, outcome, time.Since(start))

		// lookup misses are routine; only log what the operator can act on
		var logErr error
		if status >= http.StatusInternalServerError {
			logErr = err
		}
		respondError(w, r, status, apiErr, logErr)
		return
	}

	metrics.RecordRecommendQuery(kind, outcomeSuccess, time.Since(start))
	metrics.RecordCacheLookup("recommend", resp.Metadata.CacheHit)

	respondSuccess(w, r, resp, models.Metadata{
		Timestamp:    resp.Metadata.Timestamp,
		QueryTimeMS:  time.Since(start).Milliseconds(),
		Cached:       resp.Metadata.CacheHit,
		IndexVersion: resp.Metadata.IndexVersion,
	})
}
