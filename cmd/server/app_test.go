// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/dataset"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

func movie(id, title, director string, genres ...string) recommend.ScoredItem {
	return recommend.ScoredItem{
		RawItem: recommend.RawItem{
			ID:            id,
			Title:         title,
			NumVotes:      100_000,
			AverageRating: 7.5,
			Directors:     recommend.Scalar(director),
			Genres:        recommend.List(genres...),
			Cast:          recommend.Missing(),
			Keywords:      recommend.Missing(),
		},
		Score: 7.4,
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "movies_10.csv")
	items := []recommend.ScoredItem{
		movie("tt0113277", "Heat", "Michael Mann", "Crime", "Thriller"),
		movie("tt0369339", "Collateral", "Michael Mann", "Crime", "Thriller"),
		movie("tt1049413", "Up", "Pete Docter", "Animation", "Family"),
	}
	if err := dataset.WriteFile(path, items); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Dataset.Path = path
	cfg.Dataset.SnapshotDir = filepath.Join(dir, "snapshots")
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 18080
	return cfg
}

func TestNewApp(t *testing.T) {
	cfg := testConfig(t)

	a, err := newApp(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.server.Addr != "127.0.0.1:18080" {
		t.Errorf("addr = %q", a.server.Addr)
	}
	if a.server.WriteTimeout != cfg.Server.WriteTimeout {
		t.Errorf("write timeout = %v", a.server.WriteTimeout)
	}

	// nothing is loaded until the index service runs
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready before load = %d, want 503", w.Code)
	}

	if _, err := a.index.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=Heat&limit=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var env struct {
		Data recommend.Response `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if len(env.Data.Items) != 1 || env.Data.Items[0].Title != "Collateral" {
		t.Errorf("items = %+v", env.Data.Items)
	}
}

func TestNewApp_WarmStartFromSnapshot(t *testing.T) {
	cfg := testConfig(t)

	first, err := newApp(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	idx, err := first.index.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if idx.Stats().Restored {
		t.Fatal("first build should not be restored")
	}

	second, err := newApp(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	idx, err = second.index.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !idx.Stats().Restored || idx.Len() != 3 {
		t.Errorf("stats = %+v, want restored index of 3", idx.Stats())
	}
}

func TestNewApp_SupervisedStartup(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.ReloadInterval = 0
	cfg.Dataset.SnapshotDir = ""
	cfg.Server.Port = 0

	a, err := newApp(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := a.tree.ServeBackground(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for !a.engine.Ready() || !a.events.Running() {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("supervised services did not start: ready=%v hub=%v", a.engine.Ready(), a.events.Running())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	for range errCh {
	}
}
