// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/config"
)

func (c *cli) download(ctx context.Context, cfg *config.Config, args []string) error {
	fs := c.flagSet("download")
	refresh := fs.Bool("refresh", cfg.Catalog.Refresh, "revalidate files that already exist")
	dir := fs.String("dir", cfg.Catalog.Dir, "directory for the decompressed .tsv files")
	if err := parse(fs, args); err != nil {
		return err
	}

	dl := cfg.Catalog.DownloadConfig()
	dl.Refresh = *refresh
	dl.Dir = *dir

	var manifest *catalog.Manifest
	if cfg.Catalog.ManifestDir != "" {
		m, err := catalog.OpenManifest(cfg.Catalog.ManifestDir)
		if err != nil {
			return err
		}
		defer m.Close()
		manifest = m
	}

	d, err := catalog.NewDownloader(dl, manifest, *c.logger)
	if err != nil {
		return err
	}
	results, err := d.Download(ctx)

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tOUTCOME\tCOMPRESSED\tBYTES\tDURATION")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.Name, r.Outcome, r.CompressedBytes, r.Bytes, r.Duration.Round(time.Millisecond))
	}
	if flushErr := tw.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	return err
}
