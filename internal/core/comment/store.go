// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository defines the persistence contract for comments, scoped to a review.
type Repository interface {
	// List returns the comments of a review ordered by pub_date, then id.
	List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	// FindByID returns apperr.NotFound unless the comment belongs to reviewID.
	FindByID(context context.Context, reviewID, id int64) (*Comment, error)

	// Create inserts the comment, filling ID and PubDate.
	Create(context context.Context, comment *Comment) error

	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, id int64) error
}
