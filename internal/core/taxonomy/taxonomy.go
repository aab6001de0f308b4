// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy manages the flat classification vocabularies of the catalog:
categories (one per title) and genres (many per title).

Both share the same shape and behaviour and differ only by table, ordering and
the access-policy resource they are guarded by, captured in [Kind].
*/
package taxonomy

import (
	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/database/schema"
)

// Term is a category or genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Input is the create/patch payload. Nil fields are left untouched on patch.
type Input struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// Filter holds the parameters for a paginated term search.
type Filter struct {
	Search string // icontains on name
}

// Kind binds the shared taxonomy logic to one concrete vocabulary.
type Kind struct {
	// Label names the vocabulary in log events and error messages.
	Label    string
	Resource access.Resource
	Table    schema.TaxonomyTable
	// OrderBy is the column lists are sorted on.
	OrderBy string
}

var (
	Category = Kind{
		Label:    "category",
		Resource: access.ResourceCategory,
		Table:    schema.CatalogCategory,
		OrderBy:  schema.CatalogCategory.ID,
	}

	Genre = Kind{
		Label:    "genre",
		Resource: access.ResourceGenre,
		Table:    schema.CatalogGenre,
		OrderBy:  schema.CatalogGenre.Name,
	}
)

const (
	FieldName = "name"
	FieldSlug = "slug"

	// MaxNameLength mirrors the name column.
	MaxNameLength = 256
)
