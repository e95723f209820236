// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package catalog acquires the IMDb non-commercial datasets and turns them into
raw items for corpus reduction.

# Components

  - Downloader: fetches the five .tsv.gz dumps from https://datasets.imdbws.com/,
    decompresses them while streaming, and writes <dir>/<name>.tsv through a
    temp file and rename. Existing files are skipped unless Refresh is set.
    Requests pass through a sony/gobreaker circuit breaker and an optional
    byte-rate limiter (golang.org/x/time/rate).
  - Manifest: a BadgerDB store of per-file ETag, size and fetch time. With
    Refresh, stored ETags are sent as If-None-Match so unchanged dumps are not
    downloaded again.
  - IMDbSource: joins the TSV files with DuckDB and returns one
    recommend.RawItem per movie, ordered by tconst.

# Join Rules

  - title.basics rows with titleType = 'movie' only
  - inner join with title.ratings and title.crew
  - director: first nconst listed in title.crew.directors, resolved through
    name.basics (first credited director policy)
  - cast: title.principals rows in the configured categories, in billing
    order, resolved through name.basics
  - genres: title.basics.genres split on ','
  - \N is a missing value

# Usage

	d, err := catalog.NewDownloader(catalog.DownloadConfig{Dir: "data"}, manifest, logger)
	if _, err := d.Download(ctx); err != nil {
	    return err
	}

	src := catalog.NewIMDbSource(catalog.SourceConfig{Dir: "data"}, logger)
	raw, err := src.Load(ctx)
	scored, stats, err := recommend.Reduce(raw, 0.90)
*/
package catalog
