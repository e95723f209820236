// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelmatch/internal/models"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// RecommendationsRequest holds the query parameters of GET /recommendations.
// Limit 0 means the parameter was absent and the engine default applies.
type RecommendationsRequest struct {
	Title string `query:"title" validate:"required,max=500"`
	Limit int    `query:"limit" validate:"gte=0"`
}

// SimilarRequest holds the parameters of GET /movies/{id}/similar.
type SimilarRequest struct {
	ID    string `query:"id" validate:"required,max=64"`
	Limit int    `query:"limit" validate:"gte=0"`
}

func parseRecommendationsRequest(r *http.Request, maxLimit int) (*RecommendationsRequest, *models.APIError) {
	limit, apiErr := parseLimit(r, maxLimit)
	if apiErr != nil {
		return nil, apiErr
	}
	req := &RecommendationsRequest{
		Title: strings.TrimSpace(r.URL.Query().Get("title")),
		Limit: limit,
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

func parseSimilarRequest(r *http.Request, maxLimit int) (*SimilarRequest, *models.APIError) {
	limit, apiErr := parseLimit(r, maxLimit)
	if apiErr != nil {
		return nil, apiErr
	}
	req := &SimilarRequest{
		ID:    strings.TrimSpace(chi.URLParam(r, "id")),
		Limit: limit,
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// parseLimit reads the limit parameter. An absent parameter is 0; a present
// one must be an integer in [1, maxLimit].
func parseLimit(r *http.Request, maxLimit int) (int, *models.APIError) {
	raw, present := r.URL.Query()["limit"]
	if !present {
		return 0, nil
	}
	value := ""
	if len(raw) > 0 {
		value = strings.TrimSpace(raw[0])
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > maxLimit {
		return 0, &models.APIError{
			Code:    validation.CodeValidationError,
			Message: fmt.Sprintf("limit must be an integer between 1 and %d", maxLimit),
			Details: map[string]interface{}{
				"field": "limit",
				"value": value,
				"max":   maxLimit,
			},
		}
	}
	return n, nil
}
