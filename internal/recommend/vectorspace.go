// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Vocabulary is the fitted set of non-stop-word terms, ordered lexicographically.
// It is read-only after FitVocabulary returns.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// FitVocabulary collects every distinct whitespace-separated token of the
// profiles' soup text, excluding stop words.
func FitVocabulary(profiles []Profile) (*Vocabulary, error) {
	seen := make(map[string]struct{})
	for i := range profiles {
		for _, tok := range tokenize(profiles[i].Soup()) {
			if IsStopWord(tok) {
				continue
			}
			seen[tok] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(seen))
	for tok := range seen {
		terms = append(terms, tok)
	}
	sort.Strings(terms)

	return NewVocabulary(terms)
}

// NewVocabulary rebuilds a vocabulary from a sorted term list, e.g. one
// restored from a snapshot.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		if i > 0 && terms[i-1] >= t {
			return nil, fmt.Errorf("vocabulary terms not strictly sorted at %d (%q)", i, t)
		}
		index[t] = i
	}
	return &Vocabulary{terms: terms, index: index}, nil
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the ordered term list. Callers must not modify it.
func (v *Vocabulary) Terms() []string {
	return v.terms
}

// TermID returns the column of a term.
func (v *Vocabulary) TermID(term string) (int, bool) {
	id, ok := v.index[term]
	return id, ok
}

// Encode converts a profile into a sparse count vector. Tokens outside the
// vocabulary (stop words included) are ignored.
func (v *Vocabulary) Encode(p Profile) CountVector {
	counts := make(map[int]int)
	for _, tok := range tokenize(p.Soup()) {
		if id, ok := v.index[tok]; ok {
			counts[id]++
		}
	}
	return newCountVector(counts)
}

// EncodeAll encodes every profile, in order.
func (v *Vocabulary) EncodeAll(profiles []Profile) []CountVector {
	out := make([]CountVector, len(profiles))
	for i := range profiles {
		out[i] = v.Encode(profiles[i])
	}
	return out
}

// tokenize lowercases and splits on whitespace. Profile tokens are already
// normalized so this only matters for hand-built soups.
func tokenize(soup string) []string {
	return strings.Fields(strings.ToLower(soup))
}

// CountVector is a sparse term-frequency vector with ascending term ids.
type CountVector struct {
	Terms  []int
	Counts []int
}

func newCountVector(counts map[int]int) CountVector {
	terms := make([]int, 0, len(counts))
	for id := range counts {
		terms = append(terms, id)
	}
	sort.Ints(terms)

	cv := CountVector{Terms: terms, Counts: make([]int, len(terms))}
	for i, id := range terms {
		cv.Counts[i] = counts[id]
	}
	return cv
}

// IsZero reports whether the vector has no non-zero entries.
func (c CountVector) IsZero() bool {
	return len(c.Terms) == 0
}

// SquaredNorm returns the exact integer sum of squared counts.
func (c CountVector) SquaredNorm() int {
	n := 0
	for _, x := range c.Counts {
		n += x * x
	}
	return n
}

// Dot returns the exact integer dot product of two vectors.
func (c CountVector) Dot(o CountVector) int {
	dot := 0
	i, j := 0, 0
	for i < len(c.Terms) && j < len(o.Terms) {
		switch {
		case c.Terms[i] == o.Terms[j]:
			dot += c.Counts[i] * o.Counts[j]
			i++
			j++
		case c.Terms[i] < o.Terms[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine returns dot(a,b)/(|a|·|b|), or 0 when either vector is zero.
func Cosine(a, b CountVector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return cosineFromInts(a.Dot(b), a.SquaredNorm(), b.SquaredNorm())
}

func cosineFromInts(dot, sqA, sqB int) float64 {
	if dot == 0 || sqA == 0 || sqB == 0 {
		return 0
	}
	// sqrt of the product keeps cosine(v, v) exactly 1
	return float64(dot) / math.Sqrt(float64(sqA)*float64(sqB))
}

// SimilarityMatrix is the dense, symmetric n×n cosine similarity matrix.
// It is immutable once built.
type SimilarityMatrix struct {
	n    int
	data []float64
}

// NewSimilarityMatrix wraps a row-major n×n slice, e.g. one restored from a snapshot.
func NewSimilarityMatrix(n int, data []float64) (*SimilarityMatrix, error) {
	if n < 0 || len(data) != n*n {
		return nil, fmt.Errorf("similarity matrix: want %d entries, got %d", n*n, len(data))
	}
	return &SimilarityMatrix{n: n, data: data}, nil
}

// Size returns the number of rows.
func (m *SimilarityMatrix) Size() int {
	return m.n
}

// At returns sim(i, j).
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns row i. Callers must not modify it.
func (m *SimilarityMatrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Data returns the row-major backing slice. Callers must not modify it.
func (m *SimilarityMatrix) Data() []float64 {
	return m.data
}

// BuildSimilarityMatrix computes exact pairwise cosine similarity.
//
// Each worker owns a set of rows i and accumulates integer dot products
// against rows j > i through an inverted index, then mirrors the value into
// (j, i). Integer accumulation keeps the result independent of worker count
// and scheduling. The diagonal is 1 for non-zero vectors and 0 otherwise.
func BuildSimilarityMatrix(ctx context.Context, vectors []CountVector, workers int) (*SimilarityMatrix, error) {
	n := len(vectors)
	if n == 0 {
		return nil, ErrEmptyCorpus
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	postings := buildPostings(vectors)
	norms := make([]int, n)
	for i := range vectors {
		norms[i] = vectors[i].SquaredNorm()
	}

	data := make([]float64, n*n)
	rows := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := make([]int, n)
			touched := make([]int, 0, 64)
			for i := range rows {
				touched = accumulateRow(i, vectors[i], postings, acc, touched[:0])
				if norms[i] > 0 {
					data[i*n+i] = 1
				}
				for _, j := range touched {
					sim := cosineFromInts(acc[j], norms[i], norms[j])
					data[i*n+j] = sim
					data[j*n+i] = sim
					acc[j] = 0
				}
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case rows <- i:
		}
	}
	close(rows)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("similarity matrix: %w", err)
	}
	return &SimilarityMatrix{n: n, data: data}, nil
}

// posting is one (row, count) entry of a term's inverted list.
type posting struct {
	row   int
	count int
}

// buildPostings inverts the vectors; lists are in ascending row order.
func buildPostings(vectors []CountVector) map[int][]posting {
	postings := make(map[int][]posting)
	for row := range vectors {
		v := vectors[row]
		for k, term := range v.Terms {
			postings[term] = append(postings[term], posting{row: row, count: v.Counts[k]})
		}
	}
	return postings
}

// accumulateRow adds the dot-product contributions of row i against every
// later row sharing a term, returning the rows it touched.
func accumulateRow(i int, v CountVector, postings map[int][]posting, acc, touched []int) []int {
	for k, term := range v.Terms {
		list := postings[term]
		start := sort.Search(len(list), func(p int) bool { return list[p].row > i })
		for _, p := range list[start:] {
			if acc[p.row] == 0 {
				touched = append(touched, p.row)
			}
			acc[p.row] += v.Counts[k] * p.count
		}
	}
	return touched
}
