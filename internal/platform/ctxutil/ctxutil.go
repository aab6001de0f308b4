// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context]: the
correlation ID, the request-scoped logger and the resolved [access.Actor].

The middleware chain writes them once. Handlers and [respond] only read.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/reviewboard/internal/platform/access"
)

// contextKey is unexported so no other package can collide with these entries.
type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	actorKey
)

// # Request Tracing

// WithRequestID stores the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the stored correlation ID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Logging

// WithLogger stores a logger already enriched with request attributes.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the request logger, falling back to [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithActor stores the caller resolved from a verified token.
func WithActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the stored caller. Anonymous requests yield the zero Actor.
func Actor(ctx context.Context) access.Actor {
	actor, _ := ctx.Value(actorKey).(access.Actor)
	return actor
}
