// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// DefaultConfigPaths lists the config files searched in order. The first one
// found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the values applied before the file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dataset: DatasetConfig{
			Path:           "data/movies_10.csv",
			ReloadInterval: time.Minute,
			SnapshotDir:    "data/snapshots",
		},
		Catalog: CatalogConfig{
			BaseURL:        catalog.DefaultBaseURL,
			Dir:            "data/imdb",
			ManifestDir:    "data/imdb/.manifest",
			Timeout:        30 * time.Minute,
			CastCategories: []string{"actor"},
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Load reads configuration from defaults, the first config file found and
// the environment, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ConfigFile returns the config file Load would read, or "" when none exists.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile returns CONFIG_PATH when it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings from the
// environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"catalog.cast_categories",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Dataset
	"dataset_path":            "dataset.path",
	"dataset_read_workers":    "dataset.read_workers",
	"dataset_reload_interval": "dataset.reload_interval",
	"snapshot_dir":            "dataset.snapshot_dir",

	// Catalog
	"catalog_base_url":         "catalog.base_url",
	"catalog_dir":              "catalog.dir",
	"catalog_manifest_dir":     "catalog.manifest_dir",
	"catalog_refresh":          "catalog.refresh",
	"catalog_bytes_per_second": "catalog.bytes_per_second",
	"catalog_timeout":          "catalog.timeout",
	"catalog_cast_categories":  "catalog.cast_categories",
	"duckdb_threads":           "catalog.threads",
	"duckdb_max_memory":        "catalog.max_memory",

	// Recommender
	"recommend_quantile":          "recommend.quantile",
	"recommend_max_cast":          "recommend.profile.max_cast",
	"recommend_director_repeat":   "recommend.profile.director_repeat",
	"recommend_stem_keywords":     "recommend.profile.stem_keywords",
	"recommend_build_workers":     "recommend.build.workers",
	"recommend_build_timeout":     "recommend.build.timeout",
	"recommend_default_limit":     "recommend.limits.default_top_n",
	"recommend_max_limit":         "recommend.limits.max_top_n",
	"recommend_cache_enabled":     "recommend.cache.enabled",
	"recommend_cache_ttl":         "recommend.cache.ttl",
	"recommend_cache_max_entries": "recommend.cache.max_entries",
	"recommend_snapshots_enabled": "recommend.snapshots.enabled",
	"recommend_snapshots_keep":    "recommend.snapshots.keep",
}

// envTransformFunc maps an environment variable to its koanf path. Unmapped
// variables return "" and are skipped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATASET_PATH -> dataset.path
//   - RECOMMEND_STEM_KEYWORDS -> recommend.profile.stem_keywords
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever path changes. The caller reloads
// and swaps configuration under its own lock.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
