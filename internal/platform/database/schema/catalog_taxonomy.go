// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TaxonomyTable describes the shared shape of 'catalog.category' and 'catalog.genre'
type TaxonomyTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	NameKey string
	SlugKey string
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = TaxonomyTable{
	Table:   "catalog.category",
	ID:      "id",
	Name:    "name",
	Slug:    "slug",
	NameKey: "category_name_key",
	SlugKey: "category_slug_key",
}

// CatalogGenre is the schema definition for catalog.genre
var CatalogGenre = TaxonomyTable{
	Table:   "catalog.genre",
	ID:      "id",
	Name:    "name",
	Slug:    "slug",
	NameKey: "genre_name_key",
	SlugKey: "genre_slug_key",
}

func (t TaxonomyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
