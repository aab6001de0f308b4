// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query holds helpers for turning URL query parameters into SQL arguments.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns an ILIKE pattern matching value anywhere, with LIKE
// wildcards in value escaped so they match literally.
func Contains(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// Int parses an optional integer parameter bound for a 32-bit integer column.
//
// It returns (nil, true) when the key is absent or blank and (nil, false) when
// the value is present but not an integer in the int32 range.
func Int(values url.Values, key string) (*int, bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, true
	}

	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	value := int(parsed)
	return &value, true
}

// String returns the trimmed value of an optional parameter.
func String(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}
