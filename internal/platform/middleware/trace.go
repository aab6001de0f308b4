// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/reviewboard/internal/platform/constants"
	"github.com/taibuivan/reviewboard/internal/platform/ctxutil"
)

// maxRequestIDLength bounds client-supplied IDs before they reach the logs.
const maxRequestIDLength = 128

// RequestID propagates X-Request-ID, minting a UUIDv7 when the client sent none.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := strings.TrimSpace(request.Header.Get(constants.HeaderXRequestID))
			if id == "" || len(id) > maxRequestIDLength {
				id = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, id)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), id)))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (recorder *statusRecorder) WriteHeader(code int) {
	if !recorder.wroteHeader {
		recorder.status = code
		recorder.wroteHeader = true
	}
	recorder.ResponseWriter.WriteHeader(code)
}

// Unwrap lets [http.ResponseController] reach the underlying writer.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// recorderFor reuses an existing recorder so stacked middlewares share one status.
func recorderFor(writer http.ResponseWriter) *statusRecorder {
	if recorder, ok := writer.(*statusRecorder); ok {
		return recorder
	}
	return &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
}

/*
StructuredLogger stores a request-scoped logger in the context and emits one
http_request_finished line per request.

The level follows the status: 5xx at Error, 4xx at Warn, the rest at Info.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.RequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			recorder := recorderFor(writer)
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)

			// Authenticate runs later in the chain; the pointer lets it report the caller back.
			var userID string
			ctx = withUserSink(ctx, &userID)

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attributes := []slog.Attr{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if userID != "" {
				attributes = append(attributes, slog.String("user_id", userID))
			}

			requestLogger.LogAttrs(ctx, level, "http_request_finished", attributes...)
		})
	}
}

type userSinkKey struct{}

func withUserSink(ctx context.Context, userID *string) context.Context {
	return context.WithValue(ctx, userSinkKey{}, userID)
}

// reportUser hands the authenticated user ID back to [StructuredLogger].
func reportUser(ctx context.Context, userID string) {
	if sink, ok := ctx.Value(userSinkKey{}).(*string); ok {
		*sink = userID
	}
}

// RealIP prefers X-Real-IP, then the first X-Forwarded-For hop, then RemoteAddr.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
