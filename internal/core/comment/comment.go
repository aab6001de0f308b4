// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages the replies posted under a review.
package comment

import "time"

const FieldText = "text"

// Comment is the read shape. Author carries the username.
type Comment struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`

	ReviewID int64  `json:"-"`
	AuthorID string `json:"-"`
}

// Input is the create and patch payload.
type Input struct {
	Text *string `json:"text"`
}
