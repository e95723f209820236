// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation wraps go-playground/validator v10 with a shared
// validator instance, readable error messages and conversion to the API
// error body.
//
// Field names in messages come from the field's query, koanf or json tag, so
// a rejected HTTP parameter is reported as "limit" and a rejected config key
// as "server.port":
//
//	type similarRequest struct {
//	    ID    string `query:"id" validate:"required,max=64"`
//	    Limit int    `query:"limit" validate:"gte=1,lte=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code, apiErr.Message, apiErr.Details
//	}
//
// Two custom tags are registered: "loglevel" accepts the level names known to
// the logging package and "bytesize" accepts DuckDB memory limits such as
// "2GB".
package validation
