// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func scenarioItems() []ScoredItem {
	return []ScoredItem{
		{RawItem: RawItem{ID: "tt1", Title: "A", Directors: Scalar("X"), Genres: List("action")}, Score: 9.0},
		{RawItem: RawItem{ID: "tt2", Title: "B", Directors: Scalar("X"), Genres: List("action")}, Score: 8.0},
		{RawItem: RawItem{ID: "tt3", Title: "C", Directors: Scalar("Y"), Genres: List("drama")}, Score: 8.5},
	}
}

func buildIndex(t *testing.T, items []ScoredItem) *Index {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	idx, err := engine.Build(context.Background(), items, "test")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func TestIndex_RecommendScenario(t *testing.T) {
	idx := buildIndex(t, scenarioItems())

	recs, err := idx.Recommend("A", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := Titles(recs); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Recommend(A, 2) = %v, want [B C]", got)
	}
	if recs[0].Similarity != 1 {
		t.Errorf("sim(A, B) = %v, want 1", recs[0].Similarity)
	}
	if recs[1].Similarity != 0 {
		t.Errorf("sim(A, C) = %v, want 0", recs[1].Similarity)
	}
	if recs[0].ID != "tt2" || recs[0].Score != 8.0 {
		t.Errorf("recs[0] = %+v, want tt2 with score 8", recs[0])
	}
}

func TestIndex_RecommendNeverReturnsSelf(t *testing.T) {
	items := []ScoredItem{
		{RawItem: RawItem{Title: "Q", Genres: List("drama")}},
		{RawItem: RawItem{Title: "R", Genres: List("drama")}},
		{RawItem: RawItem{Title: "S", Genres: List("drama")}},
		{RawItem: RawItem{Title: "T", Genres: List("comedy")}},
	}
	idx := buildIndex(t, items)

	for _, it := range items {
		for n := 1; n <= 6; n++ {
			recs, err := idx.Recommend(it.Title, n)
			if err != nil {
				t.Fatalf("Recommend(%s, %d) error = %v", it.Title, n, err)
			}
			want := n
			if want > len(items)-1 {
				want = len(items) - 1
			}
			if len(recs) != want {
				t.Errorf("Recommend(%s, %d) returned %d items, want %d", it.Title, n, len(recs), want)
			}
			for _, r := range recs {
				if r.Title == it.Title {
					t.Errorf("Recommend(%s, %d) contains the query", it.Title, n)
				}
			}
		}
	}
}

func TestIndex_TiesKeepCorpusOrder(t *testing.T) {
	items := []ScoredItem{
		{RawItem: RawItem{Title: "first", Genres: List("western")}},
		{RawItem: RawItem{Title: "query", Genres: List("western")}},
		{RawItem: RawItem{Title: "second", Genres: List("western")}},
		{RawItem: RawItem{Title: "other", Genres: List("musical")}},
		{RawItem: RawItem{Title: "third", Genres: List("western")}},
	}
	idx := buildIndex(t, items)

	recs, err := idx.Recommend("query", 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third", "other"}
	if got := Titles(recs); !reflect.DeepEqual(got, want) {
		t.Errorf("Recommend() = %v, want %v", got, want)
	}
}

func TestIndex_RankedBySimilarity(t *testing.T) {
	items := []ScoredItem{
		{RawItem: RawItem{Title: "query", Cast: List("Ann", "Bob"), Directors: Scalar("Dee"), Genres: List("noir")}},
		{RawItem: RawItem{Title: "genre only", Genres: List("noir")}},
		{RawItem: RawItem{Title: "director", Directors: Scalar("Dee"), Genres: List("noir")}},
		{RawItem: RawItem{Title: "nothing", Genres: List("musical")}},
		{RawItem: RawItem{Title: "cast", Cast: List("Ann")}},
	}
	idx := buildIndex(t, items)

	recs, err := idx.Recommend("query", 4)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Title != "director" {
		t.Errorf("top match = %q, want director (double-weighted token)", recs[0].Title)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Similarity > recs[i-1].Similarity {
			t.Errorf("results not in descending similarity: %v", recs)
		}
	}
	if recs[len(recs)-1].Title != "nothing" {
		t.Errorf("last = %q, want nothing", recs[len(recs)-1].Title)
	}
}

func TestIndex_EmptyProfilesAreDissimilar(t *testing.T) {
	items := []ScoredItem{
		{RawItem: RawItem{Title: "empty1"}},
		{RawItem: RawItem{Title: "empty2"}},
		{RawItem: RawItem{Title: "full", Genres: List("drama")}},
	}
	idx := buildIndex(t, items)

	if idx.Stats().EmptyProfiles != 2 {
		t.Errorf("EmptyProfiles = %d, want 2", idx.Stats().EmptyProfiles)
	}
	if got := idx.Matrix().At(0, 1); got != 0 {
		t.Errorf("sim(empty1, empty2) = %v, want 0", got)
	}
	if got := idx.Matrix().At(0, 0); got != 0 {
		t.Errorf("self similarity of empty profile = %v, want 0", got)
	}
}

func TestIndex_UnknownTitle(t *testing.T) {
	idx := buildIndex(t, scenarioItems())

	_, err := idx.Recommend("Missing Movie", 5)
	if !errors.Is(err, ErrUnknownTitle) {
		t.Fatalf("error = %v, want ErrUnknownTitle", err)
	}
	var ute *UnknownTitleError
	if !errors.As(err, &ute) || ute.Title != "Missing Movie" {
		t.Errorf("error = %#v, want UnknownTitleError for Missing Movie", err)
	}
	if !strings.Contains(err.Error(), "Missing Movie") {
		t.Errorf("message %q does not name the title", err.Error())
	}

	if _, err := idx.RecommendByID("tt999", 5); !errors.Is(err, ErrUnknownTitle) {
		t.Errorf("RecommendByID() error = %v, want ErrUnknownTitle", err)
	}
}

func TestIndex_InvalidTopN(t *testing.T) {
	idx := buildIndex(t, scenarioItems())
	for _, n := range []int{0, -1} {
		if _, err := idx.Recommend("A", n); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Recommend(A, %d) error = %v, want ErrInvalidParameter", n, err)
		}
	}
}

func TestIndex_DuplicateTitlesFirstWins(t *testing.T) {
	items := []ScoredItem{
		{RawItem: RawItem{ID: "tt1", Title: "Solaris", Directors: Scalar("Andrei Tarkovsky"), Genres: List("drama")}},
		{RawItem: RawItem{ID: "tt2", Title: "Stalker", Directors: Scalar("Andrei Tarkovsky"), Genres: List("drama")}},
		{RawItem: RawItem{ID: "tt3", Title: "Solaris", Directors: Scalar("Steven Soderbergh"), Genres: List("drama")}},
		{RawItem: RawItem{ID: "tt4", Title: "Traffic", Directors: Scalar("Steven Soderbergh"), Genres: List("crime")}},
	}
	idx := buildIndex(t, items)

	if pos, _ := idx.Position("Solaris"); pos != 0 {
		t.Errorf("Position(Solaris) = %d, want 0 (first occurrence)", pos)
	}
	if idx.Stats().DuplicateTitles != 1 {
		t.Errorf("DuplicateTitles = %d, want 1", idx.Stats().DuplicateTitles)
	}

	recs, err := idx.RecommendByID("tt3", 1)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].ID != "tt4" {
		t.Errorf("RecommendByID(tt3) = %v, want tt4 first", recs)
	}

	// the shadowed row is still a candidate for other queries
	recs, err = idx.Recommend("Traffic", 3)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].ID != "tt3" {
		t.Errorf("Recommend(Traffic) = %v, want tt3 first", recs)
	}
}

func TestNewIndex_Validation(t *testing.T) {
	vocab, _ := NewVocabulary([]string{"a"})
	m, _ := NewSimilarityMatrix(1, []float64{1})

	if _, err := NewIndex(nil, vocab, m, IndexOptions{}); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("NewIndex(nil) error = %v, want ErrEmptyCorpus", err)
	}
	items := scenarioItems()
	if _, err := NewIndex(items, vocab, m, IndexOptions{}); err == nil {
		t.Error("NewIndex() should reject a matrix of the wrong size")
	}
}
