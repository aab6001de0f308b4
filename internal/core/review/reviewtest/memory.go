// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package reviewtest provides an in-memory review repository for tests.
package reviewtest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
)

// Memory is a goroutine-safe [review.Repository] enforcing one review per author and title.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	reviews []*review.Review
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (memory *Memory) List(_ context.Context, titleID int64, limit, offset int) ([]*review.Review, int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	matched := []*review.Review{}
	for _, stored := range memory.reviews {
		if stored.TitleID == titleID {
			copied := *stored
			matched = append(matched, &copied)
		}
	}

	total := len(matched)
	if offset >= total {
		return []*review.Review{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (memory *Memory) FindByID(_ context.Context, titleID, id int64) (*review.Review, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, stored := range memory.reviews {
		if stored.ID == id && stored.TitleID == titleID {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("review")
}

func (memory *Memory) Exists(_ context.Context, titleID int64, authorID string) (bool, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	return memory.exists(titleID, authorID), nil
}

func (memory *Memory) Create(_ context.Context, created *review.Review) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if memory.exists(created.TitleID, created.AuthorID) {
		return review.ErrDuplicate
	}

	memory.nextID++
	created.ID = memory.nextID
	created.PubDate = memory.now()

	copied := *created
	memory.reviews = append(memory.reviews, &copied)
	return nil
}

func (memory *Memory) Update(_ context.Context, updated *review.Review) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, stored := range memory.reviews {
		if stored.ID == updated.ID {
			stored.Text = updated.Text
			stored.Score = updated.Score
			return nil
		}
	}
	return apperr.NotFound("review")
}

func (memory *Memory) Delete(_ context.Context, id int64) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for index, stored := range memory.reviews {
		if stored.ID == id {
			memory.reviews = slices.Delete(memory.reviews, index, index+1)
			return nil
		}
	}
	return apperr.NotFound("review")
}

// Scores returns the scores stored for titleID, for rating assertions.
func (memory *Memory) Scores(titleID int64) []int {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	scores := []int{}
	for _, stored := range memory.reviews {
		if stored.TitleID == titleID {
			scores = append(scores, stored.Score)
		}
	}
	return scores
}

func (memory *Memory) exists(titleID int64, authorID string) bool {
	return slices.ContainsFunc(memory.reviews, func(stored *review.Review) bool {
		return stored.TitleID == titleID && stored.AuthorID == authorID
	})
}
