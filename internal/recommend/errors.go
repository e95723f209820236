// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the recommendation pipeline.
// Callers match them with errors.Is; messages are safe to show to end users.
var (
	// ErrInvalidParameter indicates a bad quantile, result size or configuration value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyCorpus indicates there are no items to score or index.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrEmptyVocabulary indicates every profile reduced to stop words or nothing.
	ErrEmptyVocabulary = errors.New("empty vocabulary")

	// ErrUnknownTitle indicates the queried title is not in the index.
	ErrUnknownTitle = errors.New("unknown title")

	// ErrIndexUnavailable indicates the index has not been built or its
	// underlying dataset could not be loaded.
	ErrIndexUnavailable = errors.New("index unavailable")
)

// UnknownTitleError reports a lookup miss and names the missing title.
type UnknownTitleError struct {
	Title string
}

func (e *UnknownTitleError) Error() string {
	return fmt.Sprintf("movie %q is not in the dataset", e.Title)
}

// Unwrap allows errors.Is(err, ErrUnknownTitle).
func (e *UnknownTitleError) Unwrap() error {
	return ErrUnknownTitle
}

// UnknownIDError reports a lookup miss by identifier.
type UnknownIDError struct {
	ID string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("movie id %q is not in the dataset", e.ID)
}

// Unwrap allows errors.Is(err, ErrUnknownTitle).
func (e *UnknownIDError) Unwrap() error {
	return ErrUnknownTitle
}

// unavailable wraps a collaborator failure so it surfaces as ErrIndexUnavailable
// while keeping the cause inspectable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrIndexUnavailable, err)
}

func invalidParameter(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
