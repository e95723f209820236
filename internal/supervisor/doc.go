// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs the server's long-lived services under a suture v4
supervision tree.

The tree has two layers so a crash in one does not take down the other:

	reelmatch
	├── index-layer   IndexService: initial load, dataset polling, cache cleanup
	└── api-layer     HTTPServerService

A failing IndexService is restarted with backoff while the HTTP server keeps
answering from the last published index (or 503 before the first one).

Supervisor events are logged through sutureslog with a slog.Logger, normally
logging.NewSlogLogger() so they end up in the zerolog output.
*/
package supervisor
