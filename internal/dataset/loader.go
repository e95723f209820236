// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package dataset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// FileLoader loads a reduced dataset file for the recommendation engine.
// It implements recommend.DatasetLoader.
type FileLoader struct {
	path    string
	workers int
	logger  zerolog.Logger
}

// NewFileLoader creates a loader for path. workers bounds parallel row
// decoding; 0 uses runtime.NumCPU().
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFileLoader(path string, workers int, logger zerolog.Logger) *FileLoader {
	return &FileLoader{
		path:    path,
		workers: workers,
		logger:  logger.With().Str("component", "dataset").Logger(),
	}
}

// Path returns the dataset file path.
func (l *FileLoader) Path() string {
	return l.path
}

// ModTime returns the dataset file's modification time.
func (l *FileLoader) ModTime() (time.Time, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat dataset: %w", err)
	}
	return info.ModTime(), nil
}

// LoadDataset reads and fingerprints the dataset file.
func (l *FileLoader) LoadDataset(ctx context.Context) (*recommend.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	checksum, err := Checksum(l.path)
	if err != nil {
		return nil, err
	}
	items, err := ReadFile(l.path, l.workers)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("path", l.path).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")

	return &recommend.Dataset{
		Items:    items,
		Source:   l.path,
		Checksum: checksum,
	}, nil
}
