// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// Repository defines the persistence contract for reviews. Every lookup is
// scoped to a title so a review is never reachable through another title.
type Repository interface {
	// List returns the reviews of a title ordered by pub_date, then id.
	List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	// FindByID returns apperr.NotFound unless the review belongs to titleID.
	FindByID(context context.Context, titleID, id int64) (*Review, error)

	// Exists reports whether authorID already reviewed titleID.
	Exists(context context.Context, titleID int64, authorID string) (bool, error)

	// Create inserts the review, filling ID and PubDate. It returns
	// [ErrDuplicate] when the (author, title) constraint rejects the row.
	Create(context context.Context, review *Review) error

	// Update rewrites text and score.
	Update(context context.Context, review *Review) error

	// Delete removes the review. Its comments cascade.
	Delete(context context.Context, id int64) error
}
