// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stemmer reduces an inflected word to its stem.
type Stemmer interface {
	Stem(word string) string
}

// SnowballStemmer is the Snowball (Porter2) English stemmer.
type SnowballStemmer struct{}

// Stem implements Stemmer. Stop words are stemmed like any other word.
func (SnowballStemmer) Stem(word string) string {
	return english.Stem(word, true)
}

// Synthesizer turns scored items into profiles.
// It is stateless after construction and safe for concurrent use.
type Synthesizer struct {
	cfg     SynthesizerConfig
	stemmer Stemmer
}

// NewSynthesizer creates a synthesizer. A Snowball stemmer is attached when
// cfg.StemKeywords is set.
//
//nolint:gocritic // config passed by value is copied into the synthesizer
func NewSynthesizer(cfg SynthesizerConfig) *Synthesizer {
	s := &Synthesizer{cfg: cfg}
	if cfg.StemKeywords {
		s.stemmer = SnowballStemmer{}
	}
	return s
}

// WithStemmer replaces the keyword stemmer. A nil stemmer disables stemming.
func (s *Synthesizer) WithStemmer(st Stemmer) *Synthesizer {
	s.stemmer = st
	return s
}

// Profile builds the token sequence for one item:
// the leading cast members, the first credited director repeated
// DirectorRepeat times, the genres, then the keywords. Missing fields
// contribute nothing.
func (s *Synthesizer) Profile(item *ScoredItem) Profile {
	cast := s.castTokens(item.Cast)
	director := firstToken(item.Directors)
	genres := item.Genres.Normalize()
	keywords := s.keywordTokens(item.Keywords)

	size := len(cast) + len(genres) + len(keywords)
	if director != "" {
		size += s.cfg.DirectorRepeat
	}

	tokens := make([]string, 0, size)
	tokens = append(tokens, cast...)
	if director != "" {
		for i := 0; i < s.cfg.DirectorRepeat; i++ {
			tokens = append(tokens, director)
		}
	}
	tokens = append(tokens, genres...)
	tokens = append(tokens, keywords...)

	return Profile{Tokens: tokens}
}

// Profiles builds profiles for every item, in order.
func (s *Synthesizer) Profiles(items []ScoredItem) []Profile {
	out := make([]Profile, len(items))
	for i := range items {
		out[i] = s.Profile(&items[i])
	}
	return out
}

func (s *Synthesizer) castTokens(f Field) []string {
	values := f.Values()
	if len(values) > s.cfg.MaxCast {
		values = values[:s.cfg.MaxCast]
	}
	return List(values...).Normalize()
}

func (s *Synthesizer) keywordTokens(f Field) []string {
	if s.stemmer == nil || f.Kind() == FieldMissing {
		return f.Normalize()
	}
	values := f.Values()
	stemmed := make([]string, len(values))
	for i, v := range values {
		words := strings.Fields(strings.ToLower(v))
		for j, w := range words {
			words[j] = s.stemmer.Stem(w)
		}
		stemmed[i] = strings.Join(words, " ")
	}
	return List(stemmed...).Normalize()
}

// firstToken applies the first-credited-director policy: only the first
// value that normalizes to a non-empty token is used.
func firstToken(f Field) string {
	for _, v := range f.Values() {
		if tok := normalizeToken(v); tok != "" {
			return tok
		}
	}
	return ""
}
