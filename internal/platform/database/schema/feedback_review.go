// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// FeedbackReviewTable represents the 'feedback.review' table
type FeedbackReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string

	// AuthorTitleKey enforces one review per author and title.
	AuthorTitleKey string
}

// FeedbackReview is the schema definition for feedback.review
var FeedbackReview = FeedbackReviewTable{
	Table:    "feedback.review",
	ID:       "id",
	TitleID:  "title_id",
	AuthorID: "author_id",
	Text:     "text",
	Score:    "score",
	PubDate:  "pub_date",

	AuthorTitleKey: "review_author_title_key",
}

func (t FeedbackReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Text, t.Score, t.PubDate}
}
