// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import "context"

// # Repository Interfaces

/*
Repository defines the persistence contract for titles.

Reads return the full read shape: nested category, genres ordered by name and
the computed rating.
*/
type Repository interface {
	// List returns the page of titles matching filter and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	// FindByID returns apperr.NotFound when the title does not exist.
	FindByID(context context.Context, id int64) (*Title, error)

	// Create inserts the title with its genre links and fills ID.
	Create(context context.Context, title *Title) error

	// Update rewrites the scalar fields, category and genre links.
	Update(context context.Context, title *Title) error

	// Delete removes the title. Reviews and comments cascade.
	Delete(context context.Context, id int64) error
}
