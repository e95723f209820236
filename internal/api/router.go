// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/middleware"
	"github.com/tomtom215/reelmatch/internal/models"
)

// defaultSlowRequest is the latency above which requests are logged at warn.
const defaultSlowRequest = 500 * time.Millisecond

// Router wires the handler into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
	slowRequest   time.Duration
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(handler *Handler, mw *ChiMiddleware, logger zerolog.Logger) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		logger:        logger,
		slowRequest:   defaultSlowRequest,
	}
}

// MiddlewareConfigFromServer maps server configuration onto the middleware config.
func MiddlewareConfigFromServer(cfg *config.ServerConfig) *ChiMiddlewareConfig {
	mc := DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = append([]string(nil), cfg.CORSOrigins...)
	mc.RateLimitRequests = cfg.RateLimitReqs
	mc.RateLimitWindow = cfg.RateLimitWindow
	mc.RateLimitDisabled = cfg.RateLimitDisabled
	return mc
}

// SetupChi returns the HTTP handler for the whole API.
//
// Middleware order: request ID first so every log line and error body carries
// it, then real IP before rate limiting, then panic recovery.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(router.logger, router.slowRequest))
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, &models.APIError{
			Code:    ErrCodeNotFound,
			Message: "route not found",
		}, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, &models.APIError{
			Code:    ErrCodeMethodNotAllowed,
			Message: "method not allowed",
		}, nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	h := router.handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// probes are exempt from rate limiting
		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/recommendations", h.Recommendations)
			r.Get("/movies/{id}/similar", h.Similar)

			r.Route("/index", func(r chi.Router) {
				r.Get("/status", h.IndexStatus)
				r.Post("/reload", h.IndexReload)
				r.Get("/events", h.IndexEvents)
			})
		})
	})

	return r
}
