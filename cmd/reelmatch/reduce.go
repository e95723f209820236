// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/dataset"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

func (c *cli) reduce(ctx context.Context, cfg *config.Config, args []string) error {
	fs := c.flagSet("reduce")
	quantile := fs.Float64("quantile", cfg.Recommend.Quantile, "vote-count retention quantile in [0, 1)")
	output := fs.String("output", cfg.Dataset.Path, "dataset CSV to write")
	dir := fs.String("dir", cfg.Catalog.Dir, "directory holding the IMDb .tsv files")
	if err := parse(fs, args); err != nil {
		return err
	}

	src := cfg.Catalog.SourceConfig()
	src.Dir = *dir
	raw, err := c.loadCatalog(ctx, src)
	if err != nil {
		return err
	}

	scored, stats, err := recommend.Reduce(raw, *quantile)
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(*output, scored); err != nil {
		return err
	}

	c.logger.Info().
		Int("total", stats.Total).
		Int("retained", stats.Retained).
		Float64("c", stats.C).
		Float64("m", stats.M).
		Str("output", *output).
		Msg("dataset written")
	fmt.Fprintf(c.stdout, "kept %d of %d movies (C=%.3f, m=%.0f at q=%.2f) -> %s\n",
		stats.Retained, stats.Total, stats.C, stats.M, stats.Quantile, *output)
	return nil
}

// loadCatalog reads the raw corpus from the IMDb files. Ingestion failures
// are reported as recommend.ErrIndexUnavailable.
func (c *cli) loadCatalog(ctx context.Context, src catalog.SourceConfig) ([]recommend.RawItem, error) {
	raw, err := catalog.NewIMDbSource(src, *c.logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load imdb catalog: %w: %w", recommend.ErrIndexUnavailable, err)
	}
	return raw, nil
}
