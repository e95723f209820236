// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services adapts server components to suture's Serve(ctx) error model.

IndexService owns the recommendation index lifecycle: it loads the dataset
on start, rebuilds when the dataset file changes, periodically drops expired
cached results and serves on-demand reloads for the HTTP API.

HTTPServerService wraps an *http.Server, translating ListenAndServe and
Shutdown into a context-driven Serve.

Both implement fmt.Stringer so supervisor events name them.
*/
package services
