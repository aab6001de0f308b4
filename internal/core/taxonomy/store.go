// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import "context"

// Repository persists the terms of a single [Kind].
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error)
	FindBySlug(context context.Context, slug string) (*Term, error)
	// FindBySlugs returns the terms matching slugs, in no particular order.
	FindBySlugs(context context.Context, slugs []string) ([]*Term, error)
	SlugExists(context context.Context, slug string) (bool, error)
	Create(context context.Context, term *Term) error
	// Update rewrites the term currently addressed by slug.
	Update(context context.Context, slug string, term *Term) error
	Delete(context context.Context, slug string) error
}
