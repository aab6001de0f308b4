// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// FeedbackCommentTable represents the 'feedback.comment' table
type FeedbackCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// FeedbackComment is the schema definition for feedback.comment
var FeedbackComment = FeedbackCommentTable{
	Table:    "feedback.comment",
	ID:       "id",
	ReviewID: "review_id",
	AuthorID: "author_id",
	Text:     "text",
	PubDate:  "pub_date",
}

func (t FeedbackCommentTable) Columns() []string {
	return []string{t.ID, t.ReviewID, t.AuthorID, t.Text, t.PubDate}
}
