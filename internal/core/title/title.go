// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the reviewable works of the catalog (films, books, ...).

A title belongs to exactly one category and any number of genres. Both are
written by slug and read back nested as {name, slug}. The rating is never
stored: it is the mean review score, computed on every read.
*/
package title

import (
	"math"

	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
)

// # Domain Entities

// Title is the read representation of a catalog title.
type Title struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      *float64        `json:"rating"`
	Description string          `json:"description"`
	Genre       []taxonomy.Term `json:"genre"`
	Category    taxonomy.Term   `json:"category"`

	// Write-side references resolved from slugs.
	CategoryID int64   `json:"-"`
	GenreIDs   []int64 `json:"-"`
}

/*
Input is the create/patch payload.

Nil fields are left untouched on patch. An explicit empty genre list clears
the genres of the title.
*/
type Input struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// Filter holds the supported list query parameters.
type Filter struct {
	Name     string // icontains
	Year     *int
	Genre    string // genre slug
	Category string // category slug
}

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"

	MaxNameLength = 256
	// MaxYear is the largest value the integer year column holds.
	MaxYear = math.MaxInt32
)
