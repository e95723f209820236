// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/dataset"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
	"github.com/tomtom215/reelmatch/internal/websocket"
)

// app holds the wired components of the server.
type app struct {
	engine  *recommend.Engine
	index   *services.IndexService
	events  *websocket.Hub
	handler http.Handler
	server  *http.Server
	tree    *supervisor.SupervisorTree
}

// newApp wires configuration into running components without starting them.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	if cfg.SnapshotsEnabled() {
		store, err := storage.NewStore(cfg.Dataset.SnapshotDir)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		engine.SetSnapshotStore(store)
	}

	loader := dataset.NewFileLoader(cfg.Dataset.Path, cfg.Dataset.ReadWorkers, logger)

	var cleanupInterval time.Duration
	if cfg.Recommend.Cache.Enabled {
		cleanupInterval = cfg.Recommend.Cache.TTL
	}
	indexSvc := services.NewIndexService(engine, loader, services.IndexServiceConfig{
		PollInterval:         cfg.Dataset.ReloadInterval,
		CacheCleanupInterval: cleanupInterval,
	}, logger)

	hub := websocket.NewHub(logger)
	indexSvc.SetEvents(hub)

	handler := api.NewHandler(engine, indexSvc, api.HandlerConfig{
		Version:        version,
		Dataset:        cfg.Dataset.Path,
		MaxLimit:       cfg.Recommend.Limits.MaxTopN,
		ReloadTimeout:  cfg.Recommend.Build.Timeout,
		Events:         hub,
		AllowedOrigins: cfg.Server.CORSOrigins,
	}, logger)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.MiddlewareConfigFromServer(&cfg.Server)), logger)
	h := router.SetupChi()

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddIndexService(indexSvc)
	tree.AddAPIService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	return &app{
		engine:  engine,
		index:   indexSvc,
		events:  hub,
		handler: h,
		server:  server,
		tree:    tree,
	}, nil
}
