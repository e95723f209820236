// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config loads Reelmatch configuration with koanf.

Configuration is layered, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/reelmatch/config.yaml
 3. Environment variables, through an explicit name mapping so unrelated
    variables never leak into the configuration

After unmarshaling, the struct is checked with validator tags and then with
cross-field rules, including the recommender's own Config.Validate.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS (comma separated)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Dataset:
  - DATASET_PATH: reduced CSV served by the index (default: data/movies_10.csv)
  - DATASET_READ_WORKERS
  - DATASET_RELOAD_INTERVAL: mtime poll interval, 0 disables (default: 1m)
  - SNAPSHOT_DIR

Catalog:
  - CATALOG_DIR, CATALOG_BASE_URL, CATALOG_MANIFEST_DIR
  - CATALOG_REFRESH, CATALOG_BYTES_PER_SECOND, CATALOG_TIMEOUT
  - CATALOG_CAST_CATEGORIES (comma separated)
  - DUCKDB_THREADS, DUCKDB_MAX_MEMORY

Recommender:
  - RECOMMEND_QUANTILE, RECOMMEND_MAX_CAST, RECOMMEND_DIRECTOR_REPEAT
  - RECOMMEND_STEM_KEYWORDS, RECOMMEND_BUILD_WORKERS, RECOMMEND_BUILD_TIMEOUT
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_MAX_ENTRIES
  - RECOMMEND_SNAPSHOTS_ENABLED, RECOMMEND_SNAPSHOTS_KEEP

# YAML Example

	server:
	  port: 8080
	  cors_origins: ["https://movies.example.com"]
	logging:
	  level: debug
	  format: console
	dataset:
	  path: /data/movies_10.csv
	  reload_interval: 5m
	recommend:
	  quantile: 0.9
	  profile:
	    stem_keywords: true
*/
package config
