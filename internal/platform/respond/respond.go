// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes every HTTP body the API produces.

A resource is written as a bare JSON object, a collection as a
[pagination.Page] and a failure as an [ErrorEnvelope].
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/ctxutil"
	"github.com/taibuivan/reviewboard/pkg/pagination"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON encodes payload with status. Encoding errors are logged; the header is already sent.
func JSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", contentTypeJSON)
	writer.WriteHeader(status)

	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		slog.Default().Warn("response_encode_failed", slog.Int("status", status), slog.Any("error", err))
	}
}

func OK(writer http.ResponseWriter, resource any) {
	JSON(writer, http.StatusOK, resource)
}

func Created(writer http.ResponseWriter, resource any) {
	JSON(writer, http.StatusCreated, resource)
}

// Paginated writes {count, next, previous, results}.
func Paginated[T any](writer http.ResponseWriter, request *http.Request, params pagination.Params, total int, results []T) {
	JSON(writer, http.StatusOK, pagination.NewPage(request, params, total, results))
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes err as an [ErrorEnvelope].

An error without an [*apperr.AppError] in its chain becomes a 500 whose body
says nothing about the cause. Every 5xx is logged with the request ID.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.Logger(request.Context()).ErrorContext(request.Context(), "request_failed",
			slog.String("request_id", ctxutil.RequestID(request.Context())),
			slog.String("code", appErr.Code),
			slog.Any("cause", appErr.Cause),
		)
	}

	JSON(writer, appErr.HTTPStatus, ErrorEnvelope{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}
