// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// RequestLogger logs one line per request. Requests slower than slow are
// logged at warn level, except upgraded connections; 5xx responses at error level. A zero slow disables
// the slow-request warning.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func RequestLogger(logger zerolog.Logger, slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			next.ServeHTTP(sw, r.WithContext(ctx))

			duration := time.Since(start)
			l := logging.Ctx(ctx)

			var event *zerolog.Event
			switch {
			case sw.status >= http.StatusInternalServerError:
				event = l.Error()
			case slow > 0 && duration > slow && sw.status != http.StatusSwitchingProtocols:
				event = l.Warn().Bool("slow", true)
			default:
				event = l.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", duration).
				Msg("http request")
		})
	}
}
