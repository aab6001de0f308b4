// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages the scored reviews users write about titles.

Each author may review a title once. Reviews are public to read; the author, a
moderator or an admin may edit or remove them. Their scores feed the rating
shown on the title.
*/
package review

import (
	"errors"
	"time"
)

// Score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 10
)

const (
	FieldText  = "text"
	FieldScore = "score"
)

const messageDuplicate = "For each title the user can create only one review"

// ErrDuplicate is returned by [Repository.Create] when the author already reviewed the title.
var ErrDuplicate = errors.New("review: author already reviewed title")

// Review is the read shape. Author and Title carry the username and the title name.
type Review struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`

	TitleID  int64  `json:"-"`
	AuthorID string `json:"-"`
}

// Input is the create and patch payload.
type Input struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}
