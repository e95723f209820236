// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// ErrBuildInProgress is returned when a build is requested while another runs.
var ErrBuildInProgress = errors.New("index build already in progress")

// DatasetLoader supplies the reduced corpus an index is built from.
// It is typically implemented by the dataset package.
type DatasetLoader interface {
	LoadDataset(ctx context.Context) (*Dataset, error)
}

// SnapshotStore persists built indexes. *storage.Store implements it.
type SnapshotStore interface {
	Save(ctx context.Context, name string, snap *storage.IndexSnapshot) (*storage.SnapshotMetadata, error)
	Load(ctx context.Context, name string, version int, target *storage.IndexSnapshot) (*storage.SnapshotMetadata, error)
	Latest(name string) (*storage.SnapshotMetadata, error)
	Prune(ctx context.Context, name string, keep int) (int, error)
}

// Engine holds the published index and answers queries against it.
//
// The index is swapped in atomically: a query reads one *Index pointer and
// uses it for the whole request, so readers see either the old or the new
// snapshot, never a mix. Builds are serialized.
type Engine struct {
	config *Config
	logger zerolog.Logger
	synth  *Synthesizer

	current  atomic.Pointer[Index]
	versions atomic.Int64

	buildMu       sync.Mutex
	building      atomic.Bool
	statusMu      sync.RWMutex
	lastError     string
	lastAttemptAt time.Time

	snapshots SnapshotStore
	results   *cache.LRU[[]Recommendation]

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
	buildCount   atomic.Int64
	buildErrors  atomic.Int64
}

// NewEngine creates an engine with no published index.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		synth:  NewSynthesizer(cfg.Profile),
	}
	if cfg.Cache.Enabled {
		e.results = cache.NewLRU[[]Recommendation](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// SetSnapshotStore attaches snapshot persistence. It must be called before
// the first LoadFrom.
func (e *Engine) SetSnapshotStore(s SnapshotStore) {
	e.snapshots = s
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Build runs Synthesizer → vocabulary → count vectors → similarity matrix
// over items and returns a new unpublished index.
func (e *Engine) Build(ctx context.Context, items []ScoredItem, source string) (*Index, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCorpus
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.config.Build.Timeout)
	defer cancel()

	profiles := e.synth.Profiles(items)

	vocab, err := FitVocabulary(profiles)
	if err != nil {
		return nil, err
	}

	vectors := vocab.EncodeAll(profiles)
	empty := 0
	for i := range vectors {
		if vectors[i].IsZero() {
			empty++
		}
	}

	matrix, err := BuildSimilarityMatrix(ctx, vectors, e.config.Build.workers())
	if err != nil {
		return nil, err
	}

	idx, err := NewIndex(items, vocab, matrix, IndexOptions{
		Version:       e.versions.Add(1),
		Source:        source,
		BuildDuration: time.Since(start),
		EmptyProfiles: empty,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Int64("version", idx.stats.Version).
		Int("items", idx.stats.Items).
		Int("vocabulary", idx.stats.VocabularySize).
		Int("empty_profiles", empty).
		Int("duplicate_titles", idx.stats.DuplicateTitles).
		Dur("duration", idx.stats.BuildDuration).
		Msg("index built")

	return idx, nil
}

// Swap publishes idx and returns the previously published index.
// Cached results of the old index become unreachable because cache keys
// carry the index version.
func (e *Engine) Swap(idx *Index) *Index {
	old := e.current.Swap(idx)
	if idx != nil {
		e.logger.Info().
			Int64("version", idx.stats.Version).
			Str("source", idx.stats.Source).
			Msg("index published")
	}
	return old
}

// Current returns the published index, or nil before the first publish.
func (e *Engine) Current() *Index {
	return e.current.Load()
}

// Ready reports whether an index has been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// LoadFrom loads a dataset, builds (or restores from snapshot) an index and
// publishes it. Loader and snapshot failures surface as ErrIndexUnavailable.
// On failure the previously published index keeps serving.
func (e *Engine) LoadFrom(ctx context.Context, loader DatasetLoader) (*Index, error) {
	if !e.buildMu.TryLock() {
		return nil, ErrBuildInProgress
	}
	defer e.buildMu.Unlock()

	e.building.Store(true)
	defer e.building.Store(false)

	idx, err := e.loadAndBuild(ctx, loader)
	e.recordAttempt(err)
	if err != nil {
		e.buildErrors.Add(1)
		e.logger.Error().Err(err).Msg("index build failed")
		return nil, err
	}

	e.buildCount.Add(1)
	e.Swap(idx)
	return idx, nil
}

func (e *Engine) loadAndBuild(ctx context.Context, loader DatasetLoader) (*Index, error) {
	if loader == nil {
		return nil, unavailable("load dataset", errors.New("no dataset loader configured"))
	}

	ds, err := loader.LoadDataset(ctx)
	if err != nil {
		return nil, unavailable("load dataset", err)
	}
	if len(ds.Items) == 0 {
		return nil, ErrEmptyCorpus
	}

	if idx := e.restoreSnapshot(ctx, ds.Checksum); idx != nil {
		return idx, nil
	}

	idx, err := e.Build(ctx, ds.Items, ds.Source)
	if err != nil {
		return nil, err
	}

	e.saveSnapshot(ctx, idx, ds.Checksum)
	return idx, nil
}

// restoreSnapshot returns the latest snapshot's index when it was built from
// a dataset with the given checksum under the current profile settings. Any
// failure falls back to a rebuild.
func (e *Engine) restoreSnapshot(ctx context.Context, checksum string) *Index {
	if e.snapshots == nil || !e.config.Snapshots.Enabled || checksum == "" {
		return nil
	}

	name := e.config.Snapshots.Name
	meta, err := e.snapshots.Latest(name)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			e.logger.Warn().Err(err).Msg("read snapshot metadata failed")
		}
		return nil
	}
	if meta.DatasetChecksum != checksum {
		e.logger.Debug().
			Int("snapshot_version", meta.Version).
			Msg("dataset changed since last snapshot")
		return nil
	}
	if profile := e.config.Profile.Fingerprint(); meta.ProfileFingerprint != profile {
		e.logger.Info().
			Int("snapshot_version", meta.Version).
			Str("snapshot_profile", meta.ProfileFingerprint).
			Str("profile", profile).
			Msg("profile settings changed since last snapshot")
		return nil
	}

	var snap storage.IndexSnapshot
	if _, err := e.snapshots.Load(ctx, name, meta.Version, &snap); err != nil {
		e.logger.Warn().Err(err).Int("snapshot_version", meta.Version).Msg("load snapshot failed")
		return nil
	}

	idx, err := fromSnapshot(&snap, e.versions.Add(1))
	if err != nil {
		e.logger.Warn().Err(err).Int("snapshot_version", meta.Version).Msg("restore snapshot failed")
		return nil
	}

	e.logger.Info().
		Int("snapshot_version", meta.Version).
		Int("items", idx.Len()).
		Msg("index restored from snapshot")
	return idx
}

func (e *Engine) saveSnapshot(ctx context.Context, idx *Index, checksum string) {
	if e.snapshots == nil || !e.config.Snapshots.Enabled {
		return
	}

	name := e.config.Snapshots.Name
	meta, err := e.snapshots.Save(ctx, name, toSnapshot(idx, checksum, e.config.Profile.Fingerprint()))
	if err != nil {
		e.logger.Warn().Err(err).Msg("save snapshot failed")
		return
	}
	if _, err := e.snapshots.Prune(ctx, name, e.config.Snapshots.Keep); err != nil {
		e.logger.Warn().Err(err).Msg("prune snapshots failed")
	}

	e.logger.Debug().
		Int("snapshot_version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Msg("snapshot saved")
}

func (e *Engine) recordAttempt(err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.lastAttemptAt = time.Now().UTC()
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
}

// Recommend returns the topN titles most similar to title. topN 0 uses the
// configured default; values above the configured maximum fail with
// ErrInvalidParameter.
func (e *Engine) Recommend(ctx context.Context, title string, topN int) (*Response, error) {
	return e.query(ctx, "title", title, topN, (*Index).Recommend)
}

// RecommendByID is Recommend keyed by item identifier.
func (e *Engine) RecommendByID(ctx context.Context, id string, topN int) (*Response, error) {
	return e.query(ctx, "id", id, topN, (*Index).RecommendByID)
}

func (e *Engine) query(ctx context.Context, kind, key string, topN int,
	lookup func(*Index, string, int) ([]Recommendation, error),
) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	n, err := e.resolveTopN(topN)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	idx := e.current.Load()
	if idx == nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("%w: index not built", ErrIndexUnavailable)
	}
	version := idx.stats.Version

	cacheKey := fmt.Sprintf("rec:%d:%s:%d:%s", version, kind, n, key)
	if e.results != nil {
		if items, ok := e.results.Get(cacheKey); ok {
			e.cacheHits.Add(1)
			return e.response(key, items, version, true, start), nil
		}
		e.cacheMisses.Add(1)
	}

	items, err := lookup(idx, key, n)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	if e.results != nil {
		e.results.Add(cacheKey, items)
	}

	e.logger.Debug().
		Str("query", key).
		Str("by", kind).
		Int("top_n", n).
		Int("returned", len(items)).
		Int64("index_version", version).
		Msg("recommendation complete")

	return e.response(key, items, version, false, start), nil
}

func (e *Engine) resolveTopN(topN int) (int, error) {
	switch {
	case topN < 0:
		return 0, invalidParameter("topN must be positive, got %d", topN)
	case topN == 0:
		return e.config.Limits.DefaultTopN, nil
	case topN > e.config.Limits.MaxTopN:
		return 0, invalidParameter("topN must be at most %d, got %d", e.config.Limits.MaxTopN, topN)
	default:
		return topN, nil
	}
}

// response copies items so callers cannot mutate cached slices.
func (e *Engine) response(query string, items []Recommendation, version int64, hit bool, start time.Time) *Response {
	out := make([]Recommendation, len(items))
	copy(out, items)
	return &Response{
		Query: query,
		Items: out,
		Metadata: ResponseMetadata{
			IndexVersion: version,
			CacheHit:     hit,
			LatencyMS:    time.Since(start).Milliseconds(),
			Timestamp:    time.Now().UTC(),
		},
	}
}

// Status reports the published index and the last build attempt.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	st := Status{
		Building:      e.building.Load(),
		LastError:     e.lastError,
		LastAttemptAt: e.lastAttemptAt,
	}
	if idx := e.current.Load(); idx != nil {
		stats := idx.Stats()
		st.Ready = true
		st.Index = &stats
	}
	return st
}

// GetMetrics returns the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
		BuildCount:   e.buildCount.Load(),
		BuildErrors:  e.buildErrors.Load(),
	}
}

// CleanupCache drops expired cached results and returns how many were removed.
func (e *Engine) CleanupCache() int {
	if e.results == nil {
		return 0
	}
	return e.results.CleanupExpired()
}
