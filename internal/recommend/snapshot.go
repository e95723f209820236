// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"

	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// toSnapshot converts an index into its persisted form. Only the upper
// triangle of the symmetric matrix is stored.
func toSnapshot(idx *Index, checksum, profile string) *storage.IndexSnapshot {
	n := idx.Len()
	upper := make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		upper = append(upper, idx.matrix.Row(i)[i:]...)
	}

	records := make([]storage.ItemRecord, n)
	for i := range idx.items {
		it := &idx.items[i]
		records[i] = storage.ItemRecord{
			ID:            it.ID,
			Title:         it.Title,
			NumVotes:      it.NumVotes,
			AverageRating: it.AverageRating,
			Score:         it.Score,
			Cast:          it.Cast.Values(),
			CastKind:      int(it.Cast.Kind()),
			Directors:     it.Directors.Values(),
			DirectorsKind: int(it.Directors.Kind()),
			Genres:        it.Genres.Values(),
			GenresKind:    int(it.Genres.Kind()),
			Keywords:      it.Keywords.Values(),
			KeywordsKind:  int(it.Keywords.Kind()),
		}
	}

	return &storage.IndexSnapshot{
		DatasetChecksum:    checksum,
		ProfileFingerprint: profile,
		Source:             idx.stats.Source,
		BuiltAt:            idx.stats.BuiltAt,
		EmptyProfiles:      idx.stats.EmptyProfiles,
		Items:              records,
		Terms:              idx.vocabulary.Terms(),
		Upper:              upper,
	}
}

// fromSnapshot rebuilds an index from its persisted form without re-running
// the pipeline.
func fromSnapshot(snap *storage.IndexSnapshot, version int64) (*Index, error) {
	n := len(snap.Items)
	if want := n * (n + 1) / 2; len(snap.Upper) != want {
		return nil, fmt.Errorf("snapshot matrix: want %d upper entries, got %d", want, len(snap.Upper))
	}

	data := make([]float64, n*n)
	k := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			data[i*n+j] = snap.Upper[k]
			data[j*n+i] = snap.Upper[k]
			k++
		}
	}
	matrix, err := NewSimilarityMatrix(n, data)
	if err != nil {
		return nil, err
	}

	vocab, err := NewVocabulary(snap.Terms)
	if err != nil {
		return nil, fmt.Errorf("snapshot vocabulary: %w", err)
	}

	items := make([]ScoredItem, n)
	for i := range snap.Items {
		r := &snap.Items[i]
		items[i] = ScoredItem{
			RawItem: RawItem{
				ID:            r.ID,
				Title:         r.Title,
				NumVotes:      r.NumVotes,
				AverageRating: r.AverageRating,
				Cast:          restoreField(r.CastKind, r.Cast),
				Directors:     restoreField(r.DirectorsKind, r.Directors),
				Genres:        restoreField(r.GenresKind, r.Genres),
				Keywords:      restoreField(r.KeywordsKind, r.Keywords),
			},
			Score: r.Score,
		}
	}

	idx, err := NewIndex(items, vocab, matrix, IndexOptions{
		Version:       version,
		Source:        snap.Source,
		EmptyProfiles: snap.EmptyProfiles,
	})
	if err != nil {
		return nil, err
	}
	idx.stats.BuiltAt = snap.BuiltAt
	idx.stats.Restored = true
	return idx, nil
}

func restoreField(kind int, values []string) Field {
	switch FieldKind(kind) {
	case FieldScalar:
		if len(values) == 1 {
			return Scalar(values[0])
		}
		return List(values...)
	case FieldList:
		return List(values...)
	default:
		return Missing()
	}
}
