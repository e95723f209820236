// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Query outcome labels for metrics.RecordRecommendQuery.
const (
	outcomeSuccess      = "success"
	outcomeUnknownTitle = "unknown_title"
	outcomeInvalid      = "invalid"
	outcomeUnavailable  = "unavailable"
	outcomeError        = "error"
)

// mapError converts an engine error into an HTTP status, an error body and
// a metrics outcome. Messages of recommend errors are safe for clients.
func mapError(err error) (int, *models.APIError, string) {
	var (
		unknownTitle *recommend.UnknownTitleError
		unknownID    *recommend.UnknownIDError
	)
	switch {
	case errors.As(err, &unknownTitle):
		return http.StatusNotFound, &models.APIError{
			Code:    ErrCodeUnknownTitle,
			Message: err.Error(),
			Details: map[string]interface{}{"title": unknownTitle.Title},
		}, outcomeUnknownTitle
	case errors.As(err, &unknownID):
		return http.StatusNotFound, &models.APIError{
			Code:    ErrCodeUnknownTitle,
			Message: err.Error(),
			Details: map[string]interface{}{"id": unknownID.ID},
		}, outcomeUnknownTitle
	case errors.Is(err, recommend.ErrUnknownTitle):
		return http.StatusNotFound, &models.APIError{Code: ErrCodeUnknownTitle, Message: err.Error()}, outcomeUnknownTitle
	case errors.Is(err, recommend.ErrInvalidParameter):
		return http.StatusBadRequest, &models.APIError{Code: ErrCodeValidation, Message: err.Error()}, outcomeInvalid
	case errors.Is(err, recommend.ErrBuildInProgress):
		return http.StatusConflict, &models.APIError{
			Code:    ErrCodeBuildInProgress,
			Message: "an index build is already running",
		}, outcomeError
	case errors.Is(err, recommend.ErrIndexUnavailable):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeIndexUnavailable,
			Message: "recommendation index is not available",
		}, outcomeUnavailable
	case errors.Is(err, recommend.ErrEmptyCorpus), errors.Is(err, recommend.ErrEmptyVocabulary):
		return http.StatusUnprocessableEntity, &models.APIError{
			Code:    ErrCodeBuildFailed,
			Message: err.Error(),
		}, outcomeError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &models.APIError{
			Code:    ErrCodeTimeout,
			Message: "request timed out",
		}, outcomeError
	default:
		return http.StatusInternalServerError, &models.APIError{
			Code:    ErrCodeInternal,
			Message: "internal server error",
		}, outcomeError
	}
}
