// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package dataset persists the reduced movie corpus as a flat CSV table.

The reducer writes the scored survivors of corpus reduction once; the
recommendation engine re-reads them later without recomputing scores. The
persisted score is ground truth on reload.

# File Format

	id,title,director,genres,keywords,score,actors
	tt0111161,The Shawshank Redemption,Frank Darabont,"[""Drama""]",[],9.29,"[""Tim Robbins"",""Morgan Freeman""]"

List columns (genres, keywords, actors) hold JSON arrays. An empty cell is a
missing field; "[]" is an empty list. The director column holds the first
credited director. Rows are written in descending score order.

# Reading

Read parses records across a worker pool. Each worker fills a disjoint range
of a pre-sized slice, so the result is in file order regardless of the number
of workers. Row positions in the index depend on that order.

# Usage

	if err := dataset.WriteFile("movies_10.csv", scored); err != nil {
	    return err
	}

	loader := dataset.NewFileLoader("movies_10.csv", 0, logger)
	idx, err := engine.LoadFrom(ctx, loader)
*/
package dataset
