// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Dataset   DatasetConfig    `koanf:"dataset"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Recommend recommend.Config `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Default: info
	Level string `koanf:"level" validate:"loglevel"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// DatasetConfig locates the reduced dataset served by the index.
type DatasetConfig struct {
	// Path is the reduced CSV written by `reelmatch reduce`.
	Path string `koanf:"path" validate:"required"`

	// ReadWorkers parallelizes CSV decoding. 0 uses all CPUs.
	ReadWorkers int `koanf:"read_workers" validate:"min=0"`

	// ReloadInterval is how often the dataset modification time is checked.
	// 0 disables automatic reloads.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"min=0"`

	// SnapshotDir holds persisted index snapshots. Empty disables them.
	SnapshotDir string `koanf:"snapshot_dir"`
}

// CatalogConfig configures IMDb downloads and ingestion.
type CatalogConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"required,http_url"`
	Dir            string        `koanf:"dir" validate:"required"`
	ManifestDir    string        `koanf:"manifest_dir"`
	Refresh        bool          `koanf:"refresh"`
	BytesPerSecond int           `koanf:"bytes_per_second" validate:"min=0"`
	Timeout        time.Duration `koanf:"timeout" validate:"min=0"`
	CastCategories []string      `koanf:"cast_categories" validate:"min=1,dive,oneof=actor actress self"`
	Threads        int           `koanf:"threads" validate:"min=0"`
	MaxMemory      string        `koanf:"max_memory" validate:"omitempty,bytesize"`
}

// LoggingConfig converts the settings for logging.Init.
func (c *LoggingConfig) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Caller = c.Caller
	return cfg
}

// DownloadConfig converts the settings for catalog.NewDownloader.
func (c *CatalogConfig) DownloadConfig() catalog.DownloadConfig {
	return catalog.DownloadConfig{
		BaseURL:        c.BaseURL,
		Dir:            c.Dir,
		Refresh:        c.Refresh,
		BytesPerSecond: c.BytesPerSecond,
		Timeout:        c.Timeout,
	}
}

// SourceConfig converts the settings for catalog.NewIMDbSource.
func (c *CatalogConfig) SourceConfig() catalog.SourceConfig {
	return catalog.SourceConfig{
		Dir:            c.Dir,
		CastCategories: append([]string(nil), c.CastCategories...),
		Threads:        c.Threads,
		MaxMemory:      c.MaxMemory,
	}
}
