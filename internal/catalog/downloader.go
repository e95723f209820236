// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// DefaultBaseURL is the IMDb non-commercial dataset host.
const DefaultBaseURL = "https://datasets.imdbws.com/"

// Dataset file names.
const (
	FileTitleBasics     = "title.basics.tsv.gz"
	FileTitleCrew       = "title.crew.tsv.gz"
	FileTitleRatings    = "title.ratings.tsv.gz"
	FileNameBasics      = "name.basics.tsv.gz"
	FileTitlePrincipals = "title.principals.tsv.gz"
)

// DefaultFiles lists every file the IMDb source needs.
var DefaultFiles = []string{
	FileTitleBasics,
	FileTitleCrew,
	FileTitleRatings,
	FileNameBasics,
	FileTitlePrincipals,
}

// Fetch outcomes.
const (
	OutcomeDownloaded  = "downloaded"
	OutcomeSkipped     = "skipped"
	OutcomeNotModified = "not_modified"
	OutcomeFailure     = "failure"
)

const breakerName = "imdb-datasets"

// StatusError is returned for non-success HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// DownloadConfig configures a Downloader.
type DownloadConfig struct {
	// BaseURL is the dataset host. Default: DefaultBaseURL.
	BaseURL string

	// Dir receives the decompressed .tsv files.
	Dir string

	// Files are the remote file names. Default: DefaultFiles.
	Files []string

	// Refresh revalidates files that already exist instead of skipping them.
	Refresh bool

	// BytesPerSecond throttles the download. 0 disables throttling.
	BytesPerSecond int

	// Timeout bounds a single file download. Default: 30m.
	Timeout time.Duration
}

// Result describes the fetch of one file.
type Result struct {
	Name            string        `json:"name"`
	Path            string        `json:"path"`
	Outcome         string        `json:"outcome"`
	CompressedBytes int64         `json:"compressed_bytes"`
	Bytes           int64         `json:"bytes"`
	Duration        time.Duration `json:"duration"`
}

// Downloader fetches and decompresses IMDb dataset files.
type Downloader struct {
	cfg      DownloadConfig
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*Result]
	limiter  *rate.Limiter
	manifest *Manifest
	logger   zerolog.Logger
}

// NewDownloader creates a downloader. manifest may be nil, in which case
// Refresh always downloads again.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDownloader(cfg DownloadConfig, manifest *Manifest, logger zerolog.Logger) (*Downloader, error) {
	if cfg.Dir == "" {
		return nil, errors.New("download directory is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if len(cfg.Files) == 0 {
		cfg.Files = DefaultFiles
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.BytesPerSecond < 0 {
		return nil, fmt.Errorf("bytes per second must be non-negative, got %d", cfg.BytesPerSecond)
	}

	d := &Downloader{
		cfg:      cfg,
		client:   &http.Client{},
		manifest: manifest,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
	if cfg.BytesPerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.BytesPerSecond), throttleChunk(cfg.BytesPerSecond))
	}
	d.breaker = newBreaker(d.logger)
	return d, nil
}

// WithHTTPClient replaces the HTTP client.
func (d *Downloader) WithHTTPClient(c *http.Client) *Downloader {
	d.client = c
	return d
}

// newBreaker opens after 3 consecutive failures and probes again after a minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreaker(logger zerolog.Logger) *gobreaker.CircuitBreaker[*Result] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// a canceled download says nothing about the host
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// throttleChunk sizes both the limiter burst and the read size so a single
// WaitN never exceeds the burst.
func throttleChunk(bytesPerSecond int) int {
	const maxChunk = 64 * 1024
	if bytesPerSecond < maxChunk {
		return bytesPerSecond
	}
	return maxChunk
}

// Download fetches every configured file in order. It stops at the first
// failure and returns the results gathered so far with the error.
func (d *Downloader) Download(ctx context.Context) ([]Result, error) {
	if err := os.MkdirAll(d.cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}

	results := make([]Result, 0, len(d.cfg.Files))
	for _, name := range d.cfg.Files {
		res, err := d.fetch(ctx, name)
		if err != nil {
			metrics.RecordDownload(name, OutcomeFailure, 0, 0)
			return results, fmt.Errorf("download %s: %w", name, err)
		}
		metrics.RecordDownload(name, res.Outcome, res.CompressedBytes, res.Duration)
		results = append(results, *res)
	}

	d.logger.Info().Int("files", len(results)).Msg("download complete")
	return results, nil
}

// TSVPath returns where the decompressed form of a remote file is written.
func (d *Downloader) TSVPath(name string) string {
	return filepath.Join(d.cfg.Dir, strings.TrimSuffix(name, ".gz"))
}

func (d *Downloader) fetch(ctx context.Context, name string) (*Result, error) {
	path := d.TSVPath(name)
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if exists && !d.cfg.Refresh {
		d.logger.Info().Str("path", path).Msg("file already exists, skipping download")
		return &Result{Name: name, Path: path, Outcome: OutcomeSkipped}, nil
	}

	var prev *ManifestEntry
	if exists && d.manifest != nil {
		if e, err := d.manifest.Get(name); err == nil {
			prev = e
		} else if !errors.Is(err, ErrNotInManifest) {
			d.logger.Warn().Err(err).Str("file", name).Msg("read manifest failed")
		}
	}

	res, err := d.breaker.Execute(func() (*Result, error) {
		return d.transfer(ctx, name, path, prev)
	})
	if err != nil {
		d.recordBreakerFailure(err)
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	return res, nil
}

func (d *Downloader) recordBreakerFailure(err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		d.logger.Warn().Err(err).Msg("download rejected by circuit breaker")
		return
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	counts := d.breaker.Counts()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(counts.ConsecutiveFailures))
}

func (d *Downloader) transfer(ctx context.Context, name, path string, prev *ManifestEntry) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	url := d.cfg.BaseURL + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if prev != nil && prev.ETag != "" {
		req.Header.Set("If-None-Match", prev.ETag)
	}

	start := time.Now()
	d.logger.Info().Str("url", url).Msg("downloading")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && prev != nil {
		prev.FetchedAt = time.Now().UTC()
		d.putManifest(prev)
		d.logger.Info().Str("path", path).Msg("file not modified")
		return &Result{Name: name, Path: path, Outcome: OutcomeNotModified, Duration: time.Since(start)}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	counter := &countingReader{r: resp.Body}
	var body io.Reader = counter
	if d.limiter != nil {
		body = &throttledReader{ctx: ctx, r: body, limiter: d.limiter, chunk: throttleChunk(d.cfg.BytesPerSecond)}
	}

	written, err := extract(body, path)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:            name,
		Path:            path,
		Outcome:         OutcomeDownloaded,
		CompressedBytes: counter.n,
		Bytes:           written,
		Duration:        time.Since(start),
	}
	d.putManifest(&ManifestEntry{
		Name:            name,
		URL:             url,
		ETag:            resp.Header.Get("ETag"),
		LastModified:    resp.Header.Get("Last-Modified"),
		CompressedBytes: res.CompressedBytes,
		Bytes:           res.Bytes,
		FetchedAt:       time.Now().UTC(),
	})

	d.logger.Info().
		Str("path", path).
		Int64("compressed_bytes", res.CompressedBytes).
		Int64("bytes", res.Bytes).
		Dur("duration", res.Duration).
		Msg("extracted")
	return res, nil
}

func (d *Downloader) putManifest(e *ManifestEntry) {
	if d.manifest == nil {
		return
	}
	if err := d.manifest.Put(e); err != nil {
		d.logger.Warn().Err(err).Str("file", e.Name).Msg("write manifest failed")
	}
}

// extract gunzips r into path via a temp file in the same directory.
func extract(r io.Reader, path string) (int64, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	n, err := io.Copy(tmp, gz)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("decompress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("rename: %w", err)
	}
	return n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// throttledReader blocks on the limiter for every byte it returns.
type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
	chunk   int
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) > t.chunk {
		p = p[:t.chunk]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
