// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// IndexEngine builds and publishes indexes. *recommend.Engine implements it.
type IndexEngine interface {
	LoadFrom(ctx context.Context, loader recommend.DatasetLoader) (*recommend.Index, error)
	CleanupCache() int
}

// DatasetSource is a dataset file the service can watch.
// *dataset.FileLoader implements it.
type DatasetSource interface {
	recommend.DatasetLoader
	Path() string
	ModTime() (time.Time, error)
}

// IndexEvents is told about every build attempt. *websocket.Hub implements it.
type IndexEvents interface {
	IndexPublished(stats recommend.IndexStats, took time.Duration)
	IndexFailed(err error, took time.Duration)
}

// IndexServiceConfig configures an IndexService.
type IndexServiceConfig struct {
	// PollInterval is how often the dataset mtime is checked. 0 disables
	// polling; reloads then only happen on request.
	PollInterval time.Duration

	// CacheCleanupInterval is how often expired cached results are dropped.
	// 0 disables cleanup.
	CacheCleanupInterval time.Duration
}

// IndexService owns the index lifecycle under supervision.
//
// On Serve it loads the dataset and publishes the first index. It then polls
// the dataset file and rebuilds whenever the modification time differs from
// the one last loaded successfully, so a failed load is retried on every poll.
// A failed rebuild never unpublishes the serving index.
type IndexService struct {
	engine IndexEngine
	source DatasetSource
	config IndexServiceConfig
	events IndexEvents
	logger zerolog.Logger

	mu            sync.Mutex
	loadedModTime time.Time
}

// NewIndexService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexService(engine IndexEngine, source DatasetSource, cfg IndexServiceConfig, logger zerolog.Logger) *IndexService {
	return &IndexService{
		engine: engine,
		source: source,
		config: cfg,
		logger: logger.With().Str("service", "index").Logger(),
	}
}

// SetEvents registers a listener for build outcomes. Call it before Serve.
func (s *IndexService) SetEvents(events IndexEvents) {
	s.events = events
}

// Serve implements suture.Service.
func (s *IndexService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("dataset", s.source.Path()).
		Dur("poll_interval", s.config.PollInterval).
		Msg("index service starting")

	if _, err := s.Reload(ctx); err != nil && !errors.Is(err, recommend.ErrBuildInProgress) {
		// keep running: the poll loop retries and the API answers 503 meanwhile
		s.logger.Warn().Err(err).Msg("initial index load failed")
	}

	poll := tickerC(s.config.PollInterval)
	cleanup := tickerC(s.config.CacheCleanupInterval)
	defer poll.stop()
	defer cleanup.stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index service shutting down")
			return ctx.Err()

		case <-poll.c:
			s.checkDataset(ctx)

		case <-cleanup.c:
			if n := s.engine.CleanupCache(); n > 0 {
				metrics.RecordCacheEvictions("recommend", n)
				s.logger.Debug().Int("evicted", n).Msg("expired results dropped")
			}
		}
	}
}

// checkDataset rebuilds when the dataset changed since the last successful load.
func (s *IndexService) checkDataset(ctx context.Context) {
	mod, err := s.source.ModTime()
	if err != nil {
		s.logger.Warn().Err(err).Str("dataset", s.source.Path()).Msg("stat dataset failed")
		return
	}

	s.mu.Lock()
	unchanged := mod.Equal(s.loadedModTime)
	s.mu.Unlock()
	if unchanged {
		return
	}

	s.logger.Info().Time("mod_time", mod).Msg("dataset changed, rebuilding index")
	if _, err := s.Reload(ctx); err != nil && !errors.Is(err, recommend.ErrBuildInProgress) {
		s.logger.Warn().Err(err).Msg("index rebuild failed, previous index keeps serving")
	}
}

// Reload loads the dataset and publishes a new index. It is safe to call
// concurrently with Serve; overlapping calls get recommend.ErrBuildInProgress.
func (s *IndexService) Reload(ctx context.Context) (*recommend.Index, error) {
	// stat before loading so a write during the load triggers another rebuild
	mod, modErr := s.source.ModTime()

	start := time.Now()
	idx, err := s.engine.LoadFrom(ctx, s.source)
	if err != nil {
		if !errors.Is(err, recommend.ErrBuildInProgress) {
			took := time.Since(start)
			metrics.RecordIndexBuild(metrics.OutcomeFailure, took, metrics.IndexSummary{})
			if s.events != nil {
				s.events.IndexFailed(err, took)
			}
		}
		return nil, err
	}

	took := time.Since(start)
	stats := idx.Stats()
	outcome := metrics.OutcomeSuccess
	if stats.Restored {
		outcome = metrics.OutcomeRestored
	}
	metrics.RecordIndexBuild(outcome, took, metrics.IndexSummary{
		Version:        stats.Version,
		Items:          stats.Items,
		VocabularySize: stats.VocabularySize,
		EmptyProfiles:  stats.EmptyProfiles,
	})

	if s.events != nil {
		s.events.IndexPublished(stats, took)
	}

	if modErr == nil {
		s.mu.Lock()
		s.loadedModTime = mod
		s.mu.Unlock()
	}
	return idx, nil
}

// String implements fmt.Stringer.
func (s *IndexService) String() string {
	return "index-service"
}

// optionalTicker is a ticker whose channel never fires when disabled.
type optionalTicker struct {
	c      <-chan time.Time
	ticker *time.Ticker
}

func tickerC(d time.Duration) optionalTicker {
	if d <= 0 {
		return optionalTicker{}
	}
	t := time.NewTicker(d)
	return optionalTicker{c: t.C, ticker: t}
}

func (t optionalTicker) stop() {
	if t.ticker != nil {
		t.ticker.Stop()
	}
}
