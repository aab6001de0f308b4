// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/ctxutil"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Field-level errors raised by custom decoders (an unknown role, for instance)
are surfaced as-is so the client learns which field was rejected.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: *apperr.AppError on failure, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil || request.Body == http.NoBody {
		return validate.ErrInvalidJSON
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		var appErr *apperr.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64 parses a numeric URL parameter.

A value that is not a positive integer cannot address any record, so it is
reported as 404 rather than as a validation error.
*/
func Int64(request *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, apperr.NotFound(name)
	}
	return value, nil
}

// Actor returns the caller stored by the Authenticate middleware. Anonymous requests yield the zero Actor.
func Actor(request *http.Request) access.Actor {
	return ctxutil.Actor(request.Context())
}
