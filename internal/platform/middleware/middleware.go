// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the http.Handler decorators mounted by the API server.

Order matters. [RequestID] runs first so [StructuredLogger] can tag every line
with it. [Authenticate] runs last so a rejected token is still logged and
counted. [Authorize] is mounted per route.
*/
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"slices"

	"github.com/go-chi/cors"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/constants"
	"github.com/taibuivan/reviewboard/internal/platform/ctxutil"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
)

const stackBufferSize = 4 << 10

// PanicRecovery turns a panic into a logged 500 with the standard error envelope.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := make([]byte, stackBufferSize)
				stack = stack[:runtime.Stack(stack, false)]

				requestLogger := ctxutil.Logger(request.Context())
				if requestLogger == slog.Default() {
					requestLogger = logger
				}
				requestLogger.ErrorContext(request.Context(), "panic_recovered",
					slog.Any("panic", recovered),
					slog.String("stack", string(stack)),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// CORS answers preflights for allowedOrigins. A "*" entry opens every origin
// and turns credentials off, as browsers refuse the combination.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := slices.Contains(allowedOrigins, "*")

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constants.HeaderXRequestID},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
