// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/websocket"
)

// Recommender answers similarity queries. *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, title string, topN int) (*recommend.Response, error)
	RecommendByID(ctx context.Context, id string, topN int) (*recommend.Response, error)
	Status() recommend.Status
	GetMetrics() recommend.Metrics
}

// Reloader rebuilds and publishes the index from the current dataset.
// The supervisor's IndexService implements it.
type Reloader interface {
	Reload(ctx context.Context) (*recommend.Index, error)
}

// HandlerConfig carries handler settings and optional collaborators.
type HandlerConfig struct {
	// Version is the build version reported by /health.
	Version string

	// Dataset is the dataset path reported by /index/status.
	Dataset string

	// MaxLimit is the largest accepted limit parameter. It should match the
	// engine's Limits.MaxTopN. 0 uses the engine default.
	MaxLimit int

	// ReloadTimeout bounds POST /index/reload. 0 means no extra bound.
	ReloadTimeout time.Duration

	// Events streams index events on /index/events. nil answers 503.
	Events *websocket.Hub

	// AllowedOrigins are the origins accepted for websocket upgrades;
	// "*" accepts any. Empty accepts none.
	AllowedOrigins []string
}

// Handler serves the recommendation API.
type Handler struct {
	recommender Recommender
	reloader    Reloader
	config      HandlerConfig
	logger      zerolog.Logger
	startTime   time.Time
}

// NewHandler creates a handler. reloader may be nil, in which case reload
// requests answer 503.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(rec Recommender, reloader Reloader, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = recommend.DefaultConfig().Limits.MaxTopN
	}
	return &Handler{
		recommender: rec,
		reloader:    reloader,
		config:      cfg,
		logger:      logger.With().Str("component", "api").Logger(),
		startTime:   time.Now(),
	}
}
