// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides the zerolog-based structured logging used across
// Reelmatch.
//
// A global logger is configured once at startup with Init and handed to
// components as a value; packages that own long-lived state (the engine, the
// catalog downloader, the dataset loader) take a zerolog.Logger in their
// constructor and tag it with a "component" field.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	engine, err := recommend.NewEngine(&cfg.Recommend, logging.Logger())
//
// # Request Correlation
//
// HTTP middleware stores a request ID in the request context. Handlers log
// through Ctx so the ID is attached to every line:
//
//	logging.Ctx(r.Context()).Warn().Str("title", title).Msg("unknown title")
//
// # slog Adapter
//
// Suture reports supervisor events through log/slog. SlogHandler forwards
// those records to zerolog so the whole process writes one format:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Output Formats
//
// JSON (default):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","component":"engine","items":4803,"message":"index built"}
//
// Console:
//
//	10:30:00 INF index built component=engine items=4803
//
// Setting FUZZ_MODE=1 raises the default level to fatal so fuzz runs stay
// quiet.
package logging
