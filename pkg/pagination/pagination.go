// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// ("page" and "limit") and how the resulting page is rendered:
//
//	{"count": 42, "next": "https://host/api/v1/titles?page=3", "previous": "https://host/api/v1/titles?page=1", "results": [...]}
package pagination

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxOffset keeps OFFSET within what the database accepts for any page and limit.
	MaxOffset = math.MaxInt32
	// MaxPage is the last page reachable at [MaxLimit] without exceeding [MaxOffset].
	MaxPage = MaxOffset/MaxLimit + 1

	pageParam  = "page"
	limitParam = "limit"
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit],
// capped at [MaxOffset].
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > MaxOffset/p.Limit {
		return MaxOffset
	}
	return (p.Page - 1) * p.Limit
}

// Page is the list response body.
//
// Next and Previous are absolute URLs, or null at either end of the collection.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds a [Page] for the given slice of results.
//
// Links are derived from the incoming request so that every other query
// parameter (filters, search, limit) is preserved.
func NewPage[T any](request *http.Request, params Params, total int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}

	page := Page[T]{Count: total, Results: results}

	if params.Offset()+len(results) < total {
		next := pageURL(request, params.Page+1)
		page.Next = &next
	}

	if params.Page > 1 {
		previous := pageURL(request, params.Page-1)
		page.Previous = &previous
	}

	return page
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative values fall back to [DefaultPage] and [DefaultLimit].
// Excessive values are clamped to [MaxPage] and [MaxLimit].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, pageParam, DefaultPage)
	limit := parseIntParam(r, limitParam, DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if page > MaxPage {
		page = MaxPage
	}

	if limit < 1 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// pageURL rewrites the request URL to point at another page.
// The first page drops the parameter entirely.
func pageURL(r *http.Request, page int) string {
	target := url.URL{
		Scheme: requestScheme(r),
		Host:   r.Host,
		Path:   r.URL.Path,
	}

	query := r.URL.Query()
	if page <= DefaultPage {
		query.Del(pageParam)
	} else {
		query.Set(pageParam, strconv.Itoa(page))
	}
	target.RawQuery = query.Encode()

	return target.String()
}

// requestScheme honours TLS termination at a reverse proxy.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
