// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"math"
	"runtime"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Quantile is the vote-count retention quantile used when reducing a raw corpus.
	// 0.90 keeps roughly the top 10% of items by vote count.
	// Must be in [0, 1).
	Quantile float64 `json:"quantile" koanf:"quantile"`

	// Profile contains feature synthesis parameters.
	Profile SynthesizerConfig `json:"profile" koanf:"profile"`

	// Build contains index build parameters.
	Build BuildConfig `json:"build" koanf:"build"`

	// Limits contains query limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// Snapshots contains index snapshot parameters.
	Snapshots SnapshotConfig `json:"snapshots" koanf:"snapshots"`
}

// SnapshotConfig controls index snapshot persistence.
type SnapshotConfig struct {
	// Enabled saves every built index and warm-starts from the latest
	// snapshot when the dataset checksum matches.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Name is the snapshot file prefix.
	// Default: "movies".
	Name string `json:"name" koanf:"name"`

	// Keep is the number of snapshot versions retained after a save.
	// Default: 3.
	Keep int `json:"keep" koanf:"keep"`
}

// SynthesizerConfig controls how profiles are built from scored items.
type SynthesizerConfig struct {
	// MaxCast is the number of leading cast members kept.
	// Default: 3.
	MaxCast int `json:"max_cast" koanf:"max_cast"`

	// DirectorRepeat is how many times the director token is emitted.
	// Default: 2.
	DirectorRepeat int `json:"director_repeat" koanf:"director_repeat"`

	// StemKeywords applies the Snowball English stemmer to keywords.
	// Default: false.
	StemKeywords bool `json:"stem_keywords" koanf:"stem_keywords"`
}

// BuildConfig controls the similarity matrix build.
type BuildConfig struct {
	// Workers is the number of goroutines computing matrix rows.
	// 0 uses runtime.NumCPU().
	Workers int `json:"workers" koanf:"workers"`

	// Timeout bounds a single index build.
	// Default: 30m.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`
}

// LimitsConfig bounds query sizes.
type LimitsConfig struct {
	// DefaultTopN is used when a caller does not specify a result size.
	// Default: 10.
	DefaultTopN int `json:"default_top_n" koanf:"default_top_n"`

	// MaxTopN is the largest result size accepted. Larger requests fail
	// with ErrInvalidParameter.
	// Default: 100.
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled turns on result caching.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 10m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Quantile: 0.90,
		Profile:  DefaultSynthesizerConfig(),
		Build: BuildConfig{
			Workers: 0,
			Timeout: 30 * time.Minute,
		},
		Limits: LimitsConfig{
			DefaultTopN: 10,
			MaxTopN:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 10000,
		},
		Snapshots: SnapshotConfig{
			Enabled: true,
			Name:    "movies",
			Keep:    3,
		},
	}
}

// DefaultSynthesizerConfig returns the profile defaults: three cast members,
// director twice, no stemming.
func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{
		MaxCast:        3,
		DirectorRepeat: 2,
		StemKeywords:   false,
	}
}

// Fingerprint identifies the profile settings. Indexes built under
// different fingerprints have different similarity matrices.
func (c SynthesizerConfig) Fingerprint() string {
	return fmt.Sprintf("max_cast=%d/director_repeat=%d/stem=%t", c.MaxCast, c.DirectorRepeat, c.StemKeywords)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if math.IsNaN(c.Quantile) || c.Quantile < 0 || c.Quantile >= 1 {
		return invalidParameter("quantile must be in [0, 1), got %f", c.Quantile)
	}
	if c.Profile.MaxCast < 0 {
		return invalidParameter("profile.max_cast must be non-negative, got %d", c.Profile.MaxCast)
	}
	if c.Profile.DirectorRepeat < 1 {
		return invalidParameter("profile.director_repeat must be positive, got %d", c.Profile.DirectorRepeat)
	}
	if c.Build.Workers < 0 {
		return invalidParameter("build.workers must be non-negative, got %d", c.Build.Workers)
	}
	if c.Build.Timeout <= 0 {
		return invalidParameter("build.timeout must be positive, got %v", c.Build.Timeout)
	}
	if c.Limits.DefaultTopN < 1 {
		return invalidParameter("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return invalidParameter("limits.max_top_n must be >= limits.default_top_n, got %d < %d",
			c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return invalidParameter("cache.max_entries must be positive when caching is enabled, got %d", c.Cache.MaxEntries)
	}
	if c.Snapshots.Enabled {
		if c.Snapshots.Name == "" {
			return invalidParameter("snapshots.name is required when snapshots are enabled")
		}
		if c.Snapshots.Keep < 1 {
			return invalidParameter("snapshots.keep must be positive, got %d", c.Snapshots.Keep)
		}
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// workers resolves the configured worker count.
func (c *BuildConfig) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// String summarizes the configuration for logs.
func (c *Config) String() string {
	return fmt.Sprintf("quantile=%.2f max_cast=%d director_repeat=%d stem=%t workers=%d",
		c.Quantile, c.Profile.MaxCast, c.Profile.DirectorRepeat, c.Profile.StemKeywords, c.Build.Workers)
}
