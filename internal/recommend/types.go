// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"strings"
	"time"
	"unicode"
)

// FieldKind identifies which variant a Field holds.
type FieldKind int

const (
	// FieldMissing is an absent or null source value.
	FieldMissing FieldKind = iota

	// FieldScalar is a single token-producing value, e.g. one director name.
	FieldScalar

	// FieldList is an ordered sequence of values, e.g. a cast list.
	FieldList
)

// String returns the variant name for logging.
func (k FieldKind) String() string {
	switch k {
	case FieldScalar:
		return "scalar"
	case FieldList:
		return "list"
	default:
		return "missing"
	}
}

// Field is a raw categorical attribute as delivered by catalog ingestion.
// The zero value is a missing field.
type Field struct {
	kind   FieldKind
	values []string
}

// Missing returns an absent field.
func Missing() Field {
	return Field{kind: FieldMissing}
}

// Scalar returns a single-valued field.
func Scalar(s string) Field {
	return Field{kind: FieldScalar, values: []string{s}}
}

// List returns a multi-valued field. Source order is kept.
func List(values ...string) Field {
	if len(values) == 0 {
		return Field{kind: FieldList}
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return Field{kind: FieldList, values: cp}
}

// Kind returns the field variant.
func (f Field) Kind() FieldKind {
	return f.kind
}

// Values returns the raw values in source order. Missing fields return nil.
func (f Field) Values() []string {
	if f.kind == FieldMissing {
		return nil
	}
	return f.values
}

// Len returns the number of raw values.
func (f Field) Len() int {
	return len(f.Values())
}

// Normalize converts the field into tokens: lowercase, internal whitespace
// removed, empty results dropped. Missing fields yield an empty sequence.
func (f Field) Normalize() []string {
	switch f.kind {
	case FieldScalar:
		if tok := normalizeToken(f.values[0]); tok != "" {
			return []string{tok}
		}
		return []string{}
	case FieldList:
		out := make([]string, 0, len(f.values))
		for _, v := range f.values {
			if tok := normalizeToken(v); tok != "" {
				out = append(out, tok)
			}
		}
		return out
	default:
		return []string{}
	}
}

// normalizeToken lowercases s and strips every whitespace rune so
// multi-word names survive whitespace tokenization as one token.
func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RawItem is a catalog record before scoring. It is read-only to the pipeline.
type RawItem struct {
	// ID is the external identifier (IMDb tconst for IMDb catalogs).
	ID string `json:"id"`

	// Title is the display title used for lookups.
	Title string `json:"title"`

	// NumVotes is the vote count behind AverageRating.
	NumVotes int64 `json:"num_votes"`

	// AverageRating is the mean user rating.
	AverageRating float64 `json:"average_rating"`

	// Cast lists cast member names in credit order.
	Cast Field `json:"-"`

	// Directors lists credited directors in credit order.
	Directors Field `json:"-"`

	// Genres lists genre labels.
	Genres Field `json:"-"`

	// Keywords lists plot keywords, if the catalog has them.
	Keywords Field `json:"-"`
}

// ScoredItem is a RawItem that survived corpus reduction, with its weighted rating.
// Score is fixed for the lifetime of the corpus snapshot.
type ScoredItem struct {
	RawItem

	// Score is the IMDb weighted rating computed with corpus-wide C and m.
	Score float64 `json:"score"`
}

// CorpusStats holds the corpus-wide constants used by a single reduction.
type CorpusStats struct {
	// C is the mean average rating over the whole raw corpus.
	C float64 `json:"c"`

	// M is the vote-count threshold at the retention quantile.
	M float64 `json:"m"`

	// Quantile is the retention quantile that produced M.
	Quantile float64 `json:"quantile"`

	// Total is the raw corpus size.
	Total int `json:"total"`

	// Retained is the number of items with NumVotes >= M.
	Retained int `json:"retained"`
}

// Profile is the normalized token sequence representing one item.
type Profile struct {
	Tokens []string
}

// Soup returns the space-joined token text fed to the vectorizer.
func (p Profile) Soup() string {
	return strings.Join(p.Tokens, " ")
}

// Recommendation is a single ranked neighbor.
type Recommendation struct {
	// Position is the row of the item in the index.
	Position int `json:"-"`

	// ID is the item identifier.
	ID string `json:"id"`

	// Title is the item title.
	Title string `json:"title"`

	// Score is the item's weighted rating.
	Score float64 `json:"score"`

	// Similarity is the cosine similarity to the query item.
	Similarity float64 `json:"similarity"`
}

// IndexStats describes a built index.
type IndexStats struct {
	// Version increments with every index published by an Engine.
	Version int64 `json:"version"`

	// BuiltAt is when the index finished building.
	BuiltAt time.Time `json:"built_at"`

	// BuildDuration is how long the build took.
	BuildDuration time.Duration `json:"build_duration"`

	// Items is the number of rows.
	Items int `json:"items"`

	// VocabularySize is the number of distinct non-stop-word tokens.
	VocabularySize int `json:"vocabulary_size"`

	// EmptyProfiles counts rows whose count vector is all zero.
	EmptyProfiles int `json:"empty_profiles"`

	// DuplicateTitles counts rows whose title is shadowed by an earlier row.
	DuplicateTitles int `json:"duplicate_titles"`

	// Source describes where the corpus came from (dataset path or snapshot).
	Source string `json:"source,omitempty"`

	// Restored is true when the index was loaded from a snapshot instead of built.
	Restored bool `json:"restored,omitempty"`
}

// Response is the result of an engine query.
type Response struct {
	// Query is the title or ID that was looked up.
	Query string `json:"query"`

	// Items are the ranked neighbors, most similar first.
	Items []Recommendation `json:"items"`

	// Metadata describes how the response was produced.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains query metadata.
type ResponseMetadata struct {
	// IndexVersion is the version of the index that answered.
	IndexVersion int64 `json:"index_version"`

	// CacheHit is true if the items came from the result cache.
	CacheHit bool `json:"cache_hit"`

	// LatencyMS is the query latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`
}

// Status describes the engine's published index and build state.
type Status struct {
	// Ready is true once an index has been published.
	Ready bool `json:"ready"`

	// Building is true while a build is running.
	Building bool `json:"building"`

	// Index holds the published index statistics when Ready.
	Index *IndexStats `json:"index,omitempty"`

	// LastError is the message of the most recent failed build.
	LastError string `json:"last_error,omitempty"`

	// LastAttemptAt is when the most recent build finished or failed.
	LastAttemptAt time.Time `json:"last_attempt_at,omitempty"`
}

// Metrics contains engine counters.
type Metrics struct {
	RequestCount int64 `json:"request_count"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	ErrorCount   int64 `json:"error_count"`
	BuildCount   int64 `json:"build_count"`
	BuildErrors  int64 `json:"build_errors"`
}

// Dataset is a reduced corpus handed to the engine by a loader.
type Dataset struct {
	// Items are the scored rows in persisted order.
	Items []ScoredItem

	// Source names where the rows came from (e.g. a file path).
	Source string

	// Checksum fingerprints the source so snapshots can be matched to it.
	Checksum string
}
