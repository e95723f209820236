// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"sort"
	"time"
)

// Index is an immutable recommendation snapshot: the reduced corpus, its
// vocabulary, the similarity matrix and the title/ID lookups.
// It has no mutation API and is safe for any number of concurrent readers.
type Index struct {
	items      []ScoredItem
	vocabulary *Vocabulary
	matrix     *SimilarityMatrix
	titles     map[string]int
	ids        map[string]int
	stats      IndexStats
}

// IndexOptions carries build metadata recorded in IndexStats.
type IndexOptions struct {
	Version       int64
	Source        string
	BuildDuration time.Duration
	EmptyProfiles int
}

// NewIndex assembles an index over items and their similarity matrix.
// When a title occurs more than once the first row in corpus order owns the
// title lookup; every row stays reachable by ID.
//
//nolint:gocritic // options are small and copied into stats
func NewIndex(items []ScoredItem, vocab *Vocabulary, matrix *SimilarityMatrix, opts IndexOptions) (*Index, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCorpus
	}
	if matrix == nil || matrix.Size() != len(items) {
		return nil, fmt.Errorf("index: matrix size does not match %d items", len(items))
	}
	if vocab == nil {
		return nil, ErrEmptyVocabulary
	}

	idx := &Index{
		items:      items,
		vocabulary: vocab,
		matrix:     matrix,
		titles:     make(map[string]int, len(items)),
		ids:        make(map[string]int, len(items)),
	}

	duplicates := 0
	for i := range items {
		if _, exists := idx.titles[items[i].Title]; exists {
			duplicates++
		} else {
			idx.titles[items[i].Title] = i
		}
		if items[i].ID != "" {
			if _, exists := idx.ids[items[i].ID]; !exists {
				idx.ids[items[i].ID] = i
			}
		}
	}

	idx.stats = IndexStats{
		Version:         opts.Version,
		BuiltAt:         time.Now().UTC(),
		BuildDuration:   opts.BuildDuration,
		Items:           len(items),
		VocabularySize:  vocab.Len(),
		EmptyProfiles:   opts.EmptyProfiles,
		DuplicateTitles: duplicates,
		Source:          opts.Source,
	}
	return idx, nil
}

// Stats returns the build statistics.
func (x *Index) Stats() IndexStats {
	return x.stats
}

// Len returns the number of rows.
func (x *Index) Len() int {
	return len(x.items)
}

// Items returns the corpus rows in index order. Callers must not modify it.
func (x *Index) Items() []ScoredItem {
	return x.items
}

// Vocabulary returns the fitted vocabulary.
func (x *Index) Vocabulary() *Vocabulary {
	return x.vocabulary
}

// Matrix returns the similarity matrix.
func (x *Index) Matrix() *SimilarityMatrix {
	return x.matrix
}

// Position returns the row owning title.
func (x *Index) Position(title string) (int, bool) {
	pos, ok := x.titles[title]
	return pos, ok
}

// Contains reports whether title is indexed.
func (x *Index) Contains(title string) bool {
	_, ok := x.titles[title]
	return ok
}

// Recommend returns up to topN items most similar to title, most similar
// first. Ties keep corpus order and the query row is never returned.
func (x *Index) Recommend(title string, topN int) ([]Recommendation, error) {
	if topN < 1 {
		return nil, invalidParameter("topN must be positive, got %d", topN)
	}
	pos, ok := x.titles[title]
	if !ok {
		return nil, &UnknownTitleError{Title: title}
	}
	return x.neighbors(pos, topN), nil
}

// RecommendByID is Recommend keyed by item identifier, which reaches rows
// whose title is shadowed by an earlier duplicate.
func (x *Index) RecommendByID(id string, topN int) ([]Recommendation, error) {
	if topN < 1 {
		return nil, invalidParameter("topN must be positive, got %d", topN)
	}
	pos, ok := x.ids[id]
	if !ok {
		return nil, &UnknownIDError{ID: id}
	}
	return x.neighbors(pos, topN), nil
}

func (x *Index) neighbors(pos, topN int) []Recommendation {
	row := x.matrix.Row(pos)

	candidates := make([]int, 0, len(row)-1)
	for j := range row {
		if j != pos {
			candidates = append(candidates, j)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return row[candidates[a]] > row[candidates[b]]
	})

	if topN > len(candidates) {
		topN = len(candidates)
	}

	out := make([]Recommendation, topN)
	for k := 0; k < topN; k++ {
		j := candidates[k]
		out[k] = Recommendation{
			Position:   j,
			ID:         x.items[j].ID,
			Title:      x.items[j].Title,
			Score:      x.items[j].Score,
			Similarity: row[j],
		}
	}
	return out
}

// Titles extracts the titles of recs in order.
func Titles(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].Title
	}
	return out
}
