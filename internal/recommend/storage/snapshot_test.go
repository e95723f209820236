// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSnapshot(checksum string) *IndexSnapshot {
	return &IndexSnapshot{
		DatasetChecksum: checksum,
		Source:          "movies_10.csv",
		BuiltAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []ItemRecord{
			{ID: "tt1", Title: "A", Score: 9, Directors: []string{"X"}, DirectorsKind: 1},
			{ID: "tt2", Title: "B", Score: 8, Genres: []string{"action", "drama"}, GenresKind: 2},
		},
		Terms: []string{"action", "drama", "x"},
		Upper: []float64{1, 0.25, 1},
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new_dir")
			},
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.setup(t))
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if store == nil {
				t.Fatal("NewStore() returned nil store")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	meta, err := store.Save(ctx, "movies", testSnapshot("abc"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("Version = %d, want 1", meta.Version)
	}
	if meta.Items != 2 || meta.VocabularySize != 3 {
		t.Errorf("meta counts = %d/%d, want 2/3", meta.Items, meta.VocabularySize)
	}
	if meta.Checksum == "" {
		t.Error("Checksum should be set")
	}

	var got IndexSnapshot
	loaded, err := store.Load(ctx, "movies", 0, &got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DatasetChecksum != "abc" {
		t.Errorf("DatasetChecksum = %q, want abc", loaded.DatasetChecksum)
	}
	if len(got.Items) != 2 || got.Items[1].Genres[1] != "drama" {
		t.Errorf("Items not restored: %+v", got.Items)
	}
	if got.Upper[1] != 0.25 {
		t.Errorf("Upper[1] = %v, want 0.25", got.Upper[1])
	}
}

func TestStore_VersionsIncrementAndSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Save(ctx, "movies", testSnapshot("v")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if v, ok := reopened.LatestVersion("movies"); !ok || v != 3 {
		t.Errorf("LatestVersion() = %d, %v; want 3, true", v, ok)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	var snap IndexSnapshot
	_, err = store.Load(context.Background(), "movies", 0, &snap)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load() error = %v, want ErrNoSnapshot", err)
	}
	if _, err := store.Latest("movies"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Latest() error = %v, want ErrNoSnapshot", err)
	}
}

func TestStore_LoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := store.Save(context.Background(), "movies", testSnapshot("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "movies_v1.gob.gz"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}

	var snap IndexSnapshot
	if _, err := store.Load(context.Background(), "movies", 1, &snap); err == nil {
		t.Error("Load() should fail on a corrupted file")
	}
}

func TestStore_ListAndPrune(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := store.Save(ctx, "movies", testSnapshot("p")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if _, err := store.Save(ctx, "shows", testSnapshot("s")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("List() len = %d, want 5", len(list))
	}
	if list[0].Name != "movies" || list[0].Version != 4 {
		t.Errorf("List()[0] = %s v%d, want movies v4", list[0].Name, list[0].Version)
	}

	removed, err := store.Prune(ctx, "movies", 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed = %d, want 2", removed)
	}

	list, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Errorf("List() after prune len = %d, want 3", len(list))
	}
	if v, _ := store.LatestVersion("movies"); v != 4 {
		t.Errorf("LatestVersion() after prune = %d, want 4", v)
	}
}

func TestParseSnapshotFilename(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		version int
		ok      bool
	}{
		{"movies_v1.gob.gz", "movies", 1, true},
		{"my_index_v12.gob.gz", "my_index", 12, true},
		{"movies_v1.gob", "", 0, false},
		{"movies.gob.gz", "", 0, false},
		{"movies_vx.gob.gz", "", 0, false},
		{"_v1.gob.gz", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, version, ok := parseSnapshotFilename(tt.in)
			if name != tt.name || version != tt.version || ok != tt.ok {
				t.Errorf("parseSnapshotFilename(%q) = %q, %d, %v", tt.in, name, version, ok)
			}
		})
	}
}
