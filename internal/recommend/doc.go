// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements content-based movie recommendations.
//
// # Pipeline
//
// An index is built offline in four strictly sequential stages:
//
//   - Scorer (Reduce): computes the IMDb weighted rating for every item from
//     corpus-wide constants C (mean rating) and m (vote-count quantile) and
//     drops items with fewer than m votes.
//   - Synthesizer: builds a Profile per item from the first three cast
//     members, the first credited director (emitted twice) and the genres
//     and keywords. Tokens are lowercased with internal whitespace removed so
//     "Tom Hanks" becomes the single token "tomhanks".
//   - Vector space: FitVocabulary collects the distinct non-stop-word tokens,
//     Encode turns each profile into a count vector and
//     BuildSimilarityMatrix computes exact pairwise cosine similarity.
//   - Index: maps titles to rows and ranks the other rows of a title's
//     similarity row, most similar first, ties in corpus order.
//
// # Snapshots
//
// Engine holds the published *Index behind an atomic pointer. Rebuilds
// produce a new Index and swap it in; queries already holding the old one
// finish against it. With a SnapshotStore attached, every build is persisted
// and a restart against an unchanged dataset restores the latest snapshot
// instead of rebuilding.
//
// # Usage
//
//	scored, stats, err := recommend.Reduce(raw, 0.90)
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	idx, err := engine.Build(ctx, scored, "imdb")
//	engine.Swap(idx)
//
//	resp, err := engine.Recommend(ctx, "The Dark Knight", 10)
//
// # Errors
//
// Failures wrap the sentinels ErrInvalidParameter, ErrEmptyCorpus,
// ErrEmptyVocabulary, ErrUnknownTitle and ErrIndexUnavailable; match them
// with errors.Is.
package recommend
