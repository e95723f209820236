// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package storage persists built recommendation indexes as versioned snapshots.
//
// A snapshot holds everything needed to serve queries without re-running the
// pipeline: the reduced corpus rows, the fitted vocabulary and the upper
// triangle of the similarity matrix. Snapshots are tagged with the checksum
// of the dataset they were built from so a process restarting against an
// unchanged dataset can skip the build.
//
// # Storage Format
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (SnapshotMetadata)
//	  - CompressedData (gzip-compressed gob-encoded IndexSnapshot)
//
// The SHA-256 of the uncompressed payload is stored in the metadata and
// verified on every load. Files are written to a temporary name and renamed
// into place, so readers never observe a partially written snapshot.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/snapshots")
//	if err != nil {
//	    return err
//	}
//
//	meta, err := store.Save(ctx, "movies", snap)
//
//	var restored storage.IndexSnapshot
//	meta, err = store.Load(ctx, "movies", 0, &restored) // 0 = latest
//
// # Thread Safety
//
// Store methods are safe for concurrent use.
package storage
