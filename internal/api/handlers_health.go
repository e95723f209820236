// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/models"
)

// Health status values.
const (
	healthHealthy  = "healthy"
	healthStarting = "starting"
	healthDegraded = "degraded"
)

// Health reports liveness and whether an index is serving. It always answers
// 200 so orchestrators do not restart a process that is still building.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.recommender.Status()

	health := models.HealthStatus{
		Status:     healthHealthy,
		Version:    h.config.Version,
		IndexReady: st.Ready,
		Uptime:     time.Since(h.startTime).Seconds(),
	}
	switch {
	case st.Ready:
		health.IndexVersion = st.Index.Version
	case st.LastError != "" && !st.Building:
		health.Status = healthDegraded
	default:
		health.Status = healthStarting
	}

	respondSuccess(w, r, health, models.Metadata{IndexVersion: health.IndexVersion})
}

// Ready answers 200 once an index is published and 503 before.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	st := h.recommender.Status()
	if !st.Ready {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeIndexUnavailable,
			Message: "recommendation index is not available",
		}, nil)
		return
	}
	respondSuccess(w, r, map[string]interface{}{"ready": true}, models.Metadata{IndexVersion: st.Index.Version})
}
