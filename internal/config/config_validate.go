// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/tomtom215/reelmatch/internal/validation"
)

// minReloadInterval keeps the dataset poller from spinning on stat calls.
const minReloadInterval = time.Second

// Validate checks struct tags first, then rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateDataset()
}

func (c *Config) validateServer() error {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "" {
			return fmt.Errorf("server.cors_origins must not contain empty entries")
		}
	}
	if c.Server.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("server.shutdown_timeout must be at most 5m, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateDataset() error {
	if c.Dataset.ReloadInterval > 0 && c.Dataset.ReloadInterval < minReloadInterval {
		return fmt.Errorf("dataset.reload_interval must be 0 or at least %v, got %v",
			minReloadInterval, c.Dataset.ReloadInterval)
	}
	if c.Recommend.Snapshots.Enabled && c.Dataset.SnapshotDir != "" {
		data := filepath.Clean(c.Dataset.Path)
		if filepath.Clean(c.Dataset.SnapshotDir) == data {
			return fmt.Errorf("dataset.snapshot_dir must differ from dataset.path")
		}
	}
	return nil
}

// SnapshotsEnabled reports whether index snapshots should be persisted.
func (c *Config) SnapshotsEnabled() bool {
	return c.Recommend.Snapshots.Enabled && c.Dataset.SnapshotDir != ""
}
