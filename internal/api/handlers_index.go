// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/models"
)

// IndexStatus reports the published index, the last build attempt and the
// engine counters.
func (h *Handler) IndexStatus(w http.ResponseWriter, r *http.Request) {
	st := h.recommender.Status()

	var version int64
	if st.Index != nil {
		version = st.Index.Version
	}
	respondSuccess(w, r, models.IndexStatus{
		Status:  st,
		Dataset: h.config.Dataset,
		Metrics: h.recommender.GetMetrics(),
	}, models.Metadata{IndexVersion: version})
}

// IndexReload rebuilds the index from the dataset and publishes it. The
// previous index keeps serving if the rebuild fails.
func (h *Handler) IndexReload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeIndexUnavailable,
			Message: "index reload is not configured",
		}, nil)
		return
	}

	ctx := r.Context()
	if h.config.ReloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.ReloadTimeout)
		defer cancel()
	}

	start := time.Now()
	idx, err := h.reloader.Reload(ctx)
	if err != nil {
		status, apiErr, _ := mapError(err)
		respondError(w, r, status, apiErr, err)
		return
	}

	stats := idx.Stats()
	h.logger.Info().
		Int64("version", stats.Version).
		Int("items", stats.Items).
		Str("request_id", logging.RequestIDFromContext(r.Context())).
		Msg("index reloaded on request")

	respondSuccess(w, r, models.ReloadResult{
		Index:      stats,
		DurationMS: time.Since(start).Milliseconds(),
	}, models.Metadata{
		QueryTimeMS:  time.Since(start).Milliseconds(),
		IndexVersion: stats.Version,
	})
}
