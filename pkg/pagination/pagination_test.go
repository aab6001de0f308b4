// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/pkg/pagination"
)

/*
TestFromRequest_Clamping verifies that malformed or excessive values are clamped.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", 1, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=5", 3, 5},
		{"negative_page", "?page=-2", 1, pagination.DefaultLimit},
		{"garbage", "?page=abc&limit=xyz", 1, pagination.DefaultLimit},
		{"limit_over_max", "?limit=1000", 1, pagination.MaxLimit},
		{"page_over_max", "?page=9223372036854775807&limit=100", pagination.MaxPage, pagination.MaxLimit},
		{"page_beyond_int64", "?page=99999999999999999999", 1, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/v1/titles"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.GreaterOrEqual(t, params.Offset(), 0)
			assert.LessOrEqual(t, params.Offset(), pagination.MaxOffset)
		})
	}
}

/*
TestParams_Offset verifies the offset never overflows for hand-built params.
*/
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		want   int
	}{
		{"first_page", pagination.Params{Page: 1, Limit: 20}, 0},
		{"third_page", pagination.Params{Page: 3, Limit: 20}, 40},
		{"zero_limit", pagination.Params{Page: 5, Limit: 0}, 0},
		{"huge_page", pagination.Params{Page: math.MaxInt, Limit: 100}, pagination.MaxOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Offset())
		})
	}
}

/*
TestNewPage_Links verifies next/previous link generation at both ends of a collection.
*/
func TestNewPage_Links(t *testing.T) {
	t.Run("single_page", func(t *testing.T) {
		request := httptest.NewRequest("GET", "http://example.com/api/v1/genres", nil)
		page := pagination.NewPage(request, pagination.Params{Page: 1, Limit: 20}, 2, []string{"a", "b"})

		assert.Equal(t, 2, page.Count)
		assert.Nil(t, page.Next)
		assert.Nil(t, page.Previous)
	})

	t.Run("middle_page_keeps_filters", func(t *testing.T) {
		request := httptest.NewRequest("GET", "http://example.com/api/v1/titles?page=2&limit=1&year=1997", nil)
		page := pagination.NewPage(request, pagination.Params{Page: 2, Limit: 1}, 3, []int{2})

		require.NotNil(t, page.Next)
		require.NotNil(t, page.Previous)
		assert.Equal(t, "http://example.com/api/v1/titles?limit=1&page=3&year=1997", *page.Next)
		assert.Equal(t, "http://example.com/api/v1/titles?limit=1&year=1997", *page.Previous)
	})

	t.Run("empty_results_render_as_array", func(t *testing.T) {
		request := httptest.NewRequest("GET", "http://example.com/api/v1/titles", nil)
		page := pagination.NewPage[int](request, pagination.Params{Page: 1, Limit: 20}, 0, nil)

		assert.NotNil(t, page.Results)
		assert.Empty(t, page.Results)
	})
}
