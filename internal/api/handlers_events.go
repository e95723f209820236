// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/websocket"
)

// IndexEvents upgrades to a websocket that receives index_published and
// index_failed messages.
func (h *Handler) IndexEvents(w http.ResponseWriter, r *http.Request) {
	hub := h.config.Events
	if hub == nil || !hub.Running() {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeEventsDisabled,
			Message: "index event stream is not available",
		}, nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote an HTTP error
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	if err := hub.Register(r.Context(), websocket.NewClient(hub, conn)); err != nil {
		h.logger.Warn().Err(err).Msg("websocket registration failed")
		_ = conn.Close()
	}
}

func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts only browsers from AllowedOrigins. Requests
// without an Origin header are rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		h.logger.Warn().Msg("websocket connection rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.logger.Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}
