// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math"
	"sort"
)

// Reduce scores a raw corpus and keeps the high-confidence subset.
//
// C is the mean AverageRating over every item and m is the q-quantile of
// NumVotes over every item. Both are computed once; items with NumVotes < m
// are dropped and each survivor gets WeightedRating(v, R, C, m).
// The output keeps input order.
func Reduce(items []RawItem, q float64) ([]ScoredItem, CorpusStats, error) {
	if math.IsNaN(q) || q < 0 || q >= 1 {
		return nil, CorpusStats{}, invalidParameter("quantile must be in [0, 1), got %v", q)
	}
	if len(items) == 0 {
		return nil, CorpusStats{}, ErrEmptyCorpus
	}

	votes := make([]float64, len(items))
	var ratingSum float64
	for i := range items {
		votes[i] = float64(items[i].NumVotes)
		ratingSum += items[i].AverageRating
	}

	stats := CorpusStats{
		C:        ratingSum / float64(len(items)),
		M:        Quantile(votes, q),
		Quantile: q,
		Total:    len(items),
	}

	scored := make([]ScoredItem, 0, len(items))
	for i := range items {
		v := float64(items[i].NumVotes)
		if v < stats.M {
			continue
		}
		scored = append(scored, ScoredItem{
			RawItem: items[i],
			Score:   WeightedRating(v, items[i].AverageRating, stats.C, stats.M),
		})
	}
	stats.Retained = len(scored)

	return scored, stats, nil
}

// WeightedRating is the IMDb formula v/(v+m)·R + m/(v+m)·C.
// With no votes and a zero threshold the item falls back to the corpus mean.
func WeightedRating(v, r, c, m float64) float64 {
	if v+m == 0 {
		return c
	}
	return (v/(v+m))*r + (m/(m+v))*c
}

// Quantile returns the q-quantile of values using linear interpolation
// between closest ranks. values is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
