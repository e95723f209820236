// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/dataset"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

type harness struct {
	cli    *cli
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	cfg    *config.Config
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dataset.Path = filepath.Join(dir, "movies_10.csv")
	cfg.Dataset.SnapshotDir = ""
	cfg.Catalog.Dir = filepath.Join(dir, "imdb")
	cfg.Catalog.ManifestDir = filepath.Join(dir, "manifest")

	logger := zerolog.Nop()
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, cfg: cfg}
	h.cli = &cli{
		stdin:      strings.NewReader(stdin),
		stdout:     h.stdout,
		stderr:     h.stderr,
		loadConfig: func() (*config.Config, error) { return cfg, nil },
		logger:     &logger,
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.cli.run(context.Background(), args)
}

func movie(id, title, director string, genres ...string) recommend.ScoredItem {
	return recommend.ScoredItem{
		RawItem: recommend.RawItem{
			ID:        id,
			Title:     title,
			NumVotes:  50_000,
			Directors: recommend.Scalar(director),
			Genres:    recommend.List(genres...),
			Cast:      recommend.Missing(),
			Keywords:  recommend.Missing(),
		},
		Score: 7,
	}
}

func writeDataset(t *testing.T, path string) {
	t.Helper()
	err := dataset.WriteFile(path, []recommend.ScoredItem{
		movie("tt0113277", "Heat", "Michael Mann", "Crime", "Thriller"),
		movie("tt0369339", "Collateral", "Michael Mann", "Crime", "Thriller"),
		movie("tt0120586", "American History X", "Tony Kaye", "Crime", "Drama"),
		movie("tt1049413", "Up", "Pete Docter", "Animation", "Family"),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t, "")
	if code := h.run(); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(h.stderr.String(), "recommend") {
		t.Errorf("usage does not list commands:\n%s", h.stderr.String())
	}

	h = newHarness(t, "")
	if code := h.run("help"); code != 0 {
		t.Errorf("help exit code = %d, want 0", code)
	}

	h = newHarness(t, "")
	if code := h.run("serve"); code != 2 {
		t.Errorf("unknown command exit code = %d, want 2", code)
	}
	if !strings.Contains(h.stderr.String(), `unknown command "serve"`) {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}

func TestRun_FlagErrors(t *testing.T) {
	h := newHarness(t, "")
	if code := h.run("recommend", "-n", "ten", "Heat"); code != 2 {
		t.Errorf("bad flag exit code = %d, want 2", code)
	}

	h = newHarness(t, "")
	if code := h.run("reduce", "-h"); code != 0 {
		t.Errorf("-h exit code = %d, want 0", code)
	}
	if !strings.Contains(h.stderr.String(), "-quantile") {
		t.Errorf("reduce -h does not describe flags:\n%s", h.stderr.String())
	}
}

func TestRun_ConfigError(t *testing.T) {
	h := newHarness(t, "")
	h.cli.loadConfig = func() (*config.Config, error) { return nil, errors.New("server.port must be set") }
	if code := h.run("recommend", "Heat"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "server.port") {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}

func TestRecommend(t *testing.T) {
	h := newHarness(t, "")
	writeDataset(t, h.cfg.Dataset.Path)

	if code := h.run("recommend", "-n", "2", "Heat"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q, want 2 lines", h.stdout.String())
	}
	if !strings.HasSuffix(lines[0], "Collateral") {
		t.Errorf("first recommendation = %q, want Collateral", lines[0])
	}
}

func TestRecommend_MultiWordTitleArgs(t *testing.T) {
	h := newHarness(t, "")
	writeDataset(t, h.cfg.Dataset.Path)

	if code := h.run("recommend", "-n", "1", "American", "History", "X"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if strings.TrimSpace(h.stdout.String()) == "" {
		t.Error("expected a recommendation")
	}
}

func TestRecommend_PromptsForTitle(t *testing.T) {
	h := newHarness(t, "Collateral\n")
	writeDataset(t, h.cfg.Dataset.Path)

	if code := h.run("recommend", "-n", "1"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	out := h.stdout.String()
	if !strings.HasPrefix(out, titlePrompt) {
		t.Errorf("output does not start with the prompt: %q", out)
	}
	if !strings.Contains(out, "Heat") {
		t.Errorf("output = %q, want Heat", out)
	}
}

func TestRecommend_EmptyPrompt(t *testing.T) {
	h := newHarness(t, "\n")
	writeDataset(t, h.cfg.Dataset.Path)

	if code := h.run("recommend"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "no title given") {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}

func TestRecommend_UnknownTitle(t *testing.T) {
	h := newHarness(t, "")
	writeDataset(t, h.cfg.Dataset.Path)

	if code := h.run("recommend", "Heat 2"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	want := (&recommend.UnknownTitleError{Title: "Heat 2"}).Error()
	if got := strings.TrimSpace(h.stdout.String()); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("stderr should be empty, got %s", h.stderr.String())
	}
}

func TestRecommend_MissingDataset(t *testing.T) {
	h := newHarness(t, "")
	if code := h.run("recommend", "-dataset", filepath.Join(t.TempDir(), "none.csv"), "Heat"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "reelmatch recommend:") {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}

func TestRecommend_LimitAboveMaximum(t *testing.T) {
	h := newHarness(t, "")
	writeDataset(t, h.cfg.Dataset.Path)

	if code := h.run("recommend", "-n", "101", "Heat"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "at most 100") {
		t.Errorf("stderr = %s", h.stderr.String())
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %s", h.stdout.String())
	}
}

func TestReduce_IngestionFailureIsIndexUnavailable(t *testing.T) {
	h := newHarness(t, "")

	src := h.cfg.Catalog.SourceConfig()
	_, err := h.cli.loadCatalog(context.Background(), src)
	if !errors.Is(err, recommend.ErrIndexUnavailable) {
		t.Errorf("loadCatalog() error = %v, want ErrIndexUnavailable", err)
	}
	if !errors.Is(err, catalog.ErrMissingFile) {
		t.Errorf("loadCatalog() error = %v, want ErrMissingFile kept in the chain", err)
	}

	if code := h.run("reduce"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if _, err := os.Stat(h.cfg.Dataset.Path); !os.IsNotExist(err) {
		t.Errorf("dataset should not be written, stat err = %v", err)
	}
}

func gzipBody(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDownload(t *testing.T) {
	body := gzipBody(t, "tconst\tnumVotes\ntt1\t10\n")
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("ETag", `"v1"`)
		w.Write(body) //nolint:errcheck
	}))
	defer srv.Close()

	h := newHarness(t, "")
	h.cfg.Catalog.BaseURL = srv.URL

	if code := h.run("download"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}
	if n := int(requests.Load()); n != len(catalog.DefaultFiles) {
		t.Errorf("requests = %d, want %d", n, len(catalog.DefaultFiles))
	}
	for _, name := range catalog.DefaultFiles {
		path := filepath.Join(h.cfg.Catalog.Dir, strings.TrimSuffix(name, ".gz"))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
		if !strings.Contains(h.stdout.String(), name) {
			t.Errorf("summary does not mention %s", name)
		}
	}

	// a second run skips files that already exist
	h.stdout.Reset()
	if code := h.run("download"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if n := int(requests.Load()); n != len(catalog.DefaultFiles) {
		t.Errorf("requests after rerun = %d, want no new requests", n)
	}
	if !strings.Contains(h.stdout.String(), catalog.OutcomeSkipped) {
		t.Errorf("summary = %s", h.stdout.String())
	}
}

func TestDownload_Failure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	h := newHarness(t, "")
	h.cfg.Catalog.BaseURL = srv.URL

	if code := h.run("download"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "404") {
		t.Errorf("stderr = %s", h.stderr.String())
	}
}
