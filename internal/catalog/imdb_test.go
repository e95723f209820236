// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

//go:build integration

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

func writeTSV(t *testing.T, dir, name string, rows ...string) {
	t.Helper()
	path := filepath.Join(dir, strings.TrimSuffix(name, ".gz"))
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeTSV(t, dir, FileTitleBasics,
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000003\tmovie\tThe Matrix\tThe Matrix\t0\t1999\t\\N\t136\tAction,Sci-Fi",
		"tt0000001\tmovie\tCast Away\tCast Away\t0\t2000\t\\N\t143\tAdventure,Drama,Romance",
		"tt0000002\tshort\tA Short\tA Short\t0\t2001\t\\N\t5\tShort",
		"tt0000004\tmovie\tNo Ratings\tNo Ratings\t0\t2002\t\\N\t90\tDrama",
		"tt0000005\tmovie\tNo Genres\tNo Genres\t0\t2003\t\\N\t90\t\\N",
	)
	writeTSV(t, dir, FileTitleRatings,
		"tconst\taverageRating\tnumVotes",
		"tt0000001\t7.8\t600000",
		"tt0000002\t6.0\t100",
		"tt0000003\t8.7\t2000000",
		"tt0000005\t5.5\t42",
	)
	writeTSV(t, dir, FileTitleCrew,
		"tconst\tdirectors\twriters",
		"tt0000001\tnm0000709\tnm0000001",
		"tt0000002\tnm0000002\t\\N",
		"tt0000003\tnm0905154,nm0905152\t\\N",
		"tt0000005\t\\N\t\\N",
	)
	writeTSV(t, dir, FileNameBasics,
		"nconst\tprimaryName\tbirthYear\tdeathYear\tprimaryProfession\tknownForTitles",
		"nm0000158\tTom Hanks\t1956\t\\N\tactor\t\\N",
		"nm0000709\tRobert Zemeckis\t1952\t\\N\tdirector\t\\N",
		"nm0905154\tLana Wachowski\t1965\t\\N\tdirector\t\\N",
		"nm0905152\tLilly Wachowski\t1967\t\\N\tdirector\t\\N",
		"nm0000206\tKeanu Reeves\t1964\t\\N\tactor\t\\N",
		"nm0000401\tLaurence Fishburne\t1961\t\\N\tactor\t\\N",
		"nm0000234\tCarrie-Anne Moss\t1967\t\\N\tactress\t\\N",
		"nm0000002\tNobody\t\\N\t\\N\t\\N\t\\N",
	)
	writeTSV(t, dir, FileTitlePrincipals,
		"tconst\tordering\tnconst\tcategory\tjob\tcharacters",
		"tt0000001\t1\tnm0000158\tactor\t\\N\t[\"Chuck Noland\"]",
		"tt0000001\t2\tnm0000709\tdirector\t\\N\t\\N",
		"tt0000003\t10\tnm0000401\tactor\t\\N\t[\"Morpheus\"]",
		"tt0000003\t2\tnm0000206\tactor\t\\N\t[\"Neo\"]",
		"tt0000003\t3\tnm0000234\tactress\t\\N\t[\"Trinity\"]",
	)
	return dir
}

func TestIMDbSource_Load(t *testing.T) {
	src := NewIMDbSource(SourceConfig{Dir: fixtureDir(t)}, zerolog.Nop())

	items, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	// movies only, joined with ratings and crew, ordered by tconst
	if want := []string{"tt0000001", "tt0000003", "tt0000005"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}

	castAway := items[0]
	if castAway.Title != "Cast Away" || castAway.NumVotes != 600000 || castAway.AverageRating != 7.8 {
		t.Errorf("Cast Away = %+v", castAway)
	}
	if got := castAway.Directors.Values(); !reflect.DeepEqual(got, []string{"Robert Zemeckis"}) {
		t.Errorf("Cast Away directors = %q", got)
	}
	if got := castAway.Genres.Values(); !reflect.DeepEqual(got, []string{"Adventure", "Drama", "Romance"}) {
		t.Errorf("Cast Away genres = %q", got)
	}
	if got := castAway.Cast.Values(); !reflect.DeepEqual(got, []string{"Tom Hanks"}) {
		t.Errorf("Cast Away cast = %q", got)
	}

	matrix := items[1]
	if got := matrix.Directors.Values(); !reflect.DeepEqual(got, []string{"Lana Wachowski"}) {
		t.Errorf("The Matrix directors = %q, want first credited only", got)
	}
	// billing order, actresses excluded by default
	if got := matrix.Cast.Values(); !reflect.DeepEqual(got, []string{"Keanu Reeves", "Laurence Fishburne"}) {
		t.Errorf("The Matrix cast = %q", got)
	}

	noGenres := items[2]
	if noGenres.Genres.Kind() != recommend.FieldMissing || noGenres.Directors.Kind() != recommend.FieldMissing {
		t.Errorf(`\N fields should be missing: %+v`, noGenres)
	}
	if noGenres.Cast.Kind() != recommend.FieldMissing {
		t.Error("movie without principals should have missing cast")
	}
}

func TestIMDbSource_CastCategories(t *testing.T) {
	src := NewIMDbSource(SourceConfig{
		Dir:            fixtureDir(t),
		CastCategories: []string{"actor", "actress"},
	}, zerolog.Nop())

	items, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Keanu Reeves", "Carrie-Anne Moss", "Laurence Fishburne"}
	if got := items[1].Cast.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("cast = %q, want %q", got, want)
	}
}

func TestIMDbSource_FeedsReduce(t *testing.T) {
	src := NewIMDbSource(SourceConfig{Dir: fixtureDir(t), Threads: 1}, zerolog.Nop())
	items, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	scored, stats, err := recommend.Reduce(items, 0.5)
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	if stats.Total != 3 || len(scored) != stats.Retained {
		t.Errorf("stats = %+v, scored = %d", stats, len(scored))
	}
}

func TestIMDbSource_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeTSV(t, dir, FileTitleBasics, "tconst\ttitleType\tprimaryTitle\tgenres")

	src := NewIMDbSource(SourceConfig{Dir: dir}, zerolog.Nop())
	_, err := src.Load(context.Background())
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("Load() error = %v, want ErrMissingFile", err)
	}
	if !strings.Contains(err.Error(), "title.ratings.tsv") {
		t.Errorf("error %q should name the missing file", err)
	}
}

func TestIMDbSource_EmptyCorpus(t *testing.T) {
	dir := fixtureDir(t)
	writeTSV(t, dir, FileTitleRatings, "tconst\taverageRating\tnumVotes")

	src := NewIMDbSource(SourceConfig{Dir: dir}, zerolog.Nop())
	if _, err := src.Load(context.Background()); !errors.Is(err, recommend.ErrEmptyCorpus) {
		t.Errorf("Load() error = %v, want ErrEmptyCorpus", err)
	}
}
