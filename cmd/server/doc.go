// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package main is the Reelmatch recommendation server.

It serves "more like this" recommendations from a reduced movie dataset
(produced by `reelmatch reduce`) over HTTP.

# Application Architecture

	RootSupervisor ("reelmatch")
	├── IndexSupervisor ("index-layer")
	│   └── IndexService (initial load, dataset polling, cache cleanup)
	└── APISupervisor ("api-layer")
	    ├── WebSocket hub (index events)
	    └── HTTP Server (chi router)

Startup order:

 1. Configuration: koanf defaults, then config file, then environment
 2. Logging: zerolog with JSON or console output
 3. Engine: recommend.Engine with optional snapshot store
 4. Supervisor tree: IndexService, the event hub and the HTTP server
 5. Signal handling: SIGINT/SIGTERM cancel the tree

The HTTP server starts immediately; recommendation endpoints answer 503
until the first index is published.

# Configuration

Common environment variables:

	HTTP_PORT=8080
	DATASET_PATH=data/movies_10.csv
	DATASET_RELOAD_INTERVAL=1m
	SNAPSHOT_DIR=data/snapshots
	LOG_LEVEL=info
	LOG_FORMAT=json
	CONFIG_PATH=/etc/reelmatch/config.yaml

When a config file is in use, changes to its logging level are applied
without a restart.
*/
package main
