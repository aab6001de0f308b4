// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/reviewboard/internal/platform/metrics"
)

// Metrics records latency and count per route pattern. Using the pattern
// rather than the raw path keeps label cardinality bounded.
func Metrics(registry *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			start := time.Now()
			recorder := recorderFor(writer)

			next.ServeHTTP(recorder, request)

			route := routePattern(request)
			status := strconv.Itoa(recorder.status)
			registry.RequestLatency.WithLabelValues(request.Method, route, status).Observe(time.Since(start).Seconds())
			registry.RequestsTotal.WithLabelValues(request.Method, route, status).Inc()
		})
	}
}

func routePattern(request *http.Request) string {
	if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
		if pattern := routeContext.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
