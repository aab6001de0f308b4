// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogTitleTable represents the 'catalog.title' table
type CatalogTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
}

// CatalogTitle is the schema definition for catalog.title
var CatalogTitle = CatalogTitleTable{
	Table:       "catalog.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "category_id",
}

func (t CatalogTitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Year, t.Description, t.CategoryID}
}

// CatalogTitleGenreTable represents the 'catalog.title_genre' junction table
type CatalogTitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// CatalogTitleGenre is the schema definition for catalog.title_genre
var CatalogTitleGenre = CatalogTitleGenreTable{
	Table:   "catalog.title_genre",
	TitleID: "title_id",
	GenreID: "genre_id",
}
