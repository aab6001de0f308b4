// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/platform/metrics"
)

/*
TestRegistry_Handler verifies collectors are exposed in text format.
*/
func TestRegistry_Handler(t *testing.T) {
	registry := metrics.New()
	registry.ReviewsCreated.Inc()
	registry.ConfirmationCodes.WithLabelValues("issued").Add(2)

	body := scrape(t, registry)
	assert.Contains(t, body, "reviewboard_reviews_created_total 1")
	assert.Contains(t, body, `reviewboard_confirmation_codes_total{outcome="issued"} 2`)
}

/*
TestRegistry_Isolated verifies two registries do not share state.
*/
func TestRegistry_Isolated(t *testing.T) {
	first, second := metrics.New(), metrics.New()
	first.ReviewsCreated.Inc()

	assert.Contains(t, scrape(t, first), "reviewboard_reviews_created_total 1")
	assert.Contains(t, scrape(t, second), "reviewboard_reviews_created_total 0")
}

func scrape(t *testing.T, registry *metrics.Registry) string {
	t.Helper()

	recorder := httptest.NewRecorder()
	registry.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	return string(body)
}
