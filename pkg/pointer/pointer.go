// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds and reads the optional fields of PATCH inputs.
package pointer

// To returns a pointer to a copy of value.
func To[T any](value T) *T {
	return &value
}

// Val dereferences p, yielding the zero value for nil.
func Val[T any](p *T) (value T) {
	if p != nil {
		value = *p
	}
	return value
}
