// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.LoggingConfig())

	logging.Info().
		Str("version", version).
		Str("dataset", cfg.Dataset.Path).
		Dur("reload_interval", cfg.Dataset.ReloadInterval).
		Bool("snapshots", cfg.SnapshotsEnabled()).
		Msg("Starting Reelmatch")

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Server.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
			break
		}
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	app, err := newApp(cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchConfig()
	go trackUptime(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", app.server.Addr).Msg("Starting supervisor tree")
	errCh := app.tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := app.tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// watchConfig applies log level changes from the config file at runtime.
// Everything else requires a restart.
func watchConfig() {
	path := config.ConfigFile()
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded from config file")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watching unavailable")
	}
}

func trackUptime(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(start).Seconds())
		}
	}
}
