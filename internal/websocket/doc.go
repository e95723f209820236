// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package websocket pushes index lifecycle events to connected clients.

A Hub owns the set of connected clients and fans each Message out to all of
them. The supervisor's IndexService reports every published or failed index
through IndexPublished and IndexFailed, so dashboards can refresh without
polling /api/v1/index/status.

Each Client runs two goroutines:

  - readPump reads client messages, answers "ping" with "pong" and keeps the
    read deadline alive on pong frames
  - writePump writes queued messages and sends ping frames

Message types:

  - index_published: a new index is serving (version, items, restored)
  - index_failed: a build attempt failed; the previous index keeps serving
  - ping / pong: application-level keepalive

Messages are JSON:

	{"type": "index_published", "data": {"version": 3, "items": 4812, ...}}

A client that cannot keep up with its send buffer is disconnected rather
than slowing the broadcast for everyone else.
*/
package websocket
