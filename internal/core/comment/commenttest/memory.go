// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package commenttest provides an in-memory comment repository for tests.
package commenttest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/reviewboard/internal/core/comment"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
)

// Memory is a goroutine-safe [comment.Repository].
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	comments []*comment.Comment
}

func NewMemory() *Memory {
	return &Memory{}
}

func (memory *Memory) List(_ context.Context, reviewID int64, limit, offset int) ([]*comment.Comment, int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	matched := []*comment.Comment{}
	for _, stored := range memory.comments {
		if stored.ReviewID == reviewID {
			copied := *stored
			matched = append(matched, &copied)
		}
	}

	total := len(matched)
	if offset >= total {
		return []*comment.Comment{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (memory *Memory) FindByID(_ context.Context, reviewID, id int64) (*comment.Comment, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, stored := range memory.comments {
		if stored.ID == id && stored.ReviewID == reviewID {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("comment")
}

func (memory *Memory) Create(_ context.Context, created *comment.Comment) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.nextID++
	created.ID = memory.nextID
	created.PubDate = time.Now()

	copied := *created
	memory.comments = append(memory.comments, &copied)
	return nil
}

func (memory *Memory) Update(_ context.Context, updated *comment.Comment) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, stored := range memory.comments {
		if stored.ID == updated.ID {
			stored.Text = updated.Text
			return nil
		}
	}
	return apperr.NotFound("comment")
}

func (memory *Memory) Delete(_ context.Context, id int64) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for index, stored := range memory.comments {
		if stored.ID == id {
			memory.comments = slices.Delete(memory.comments, index, index+1)
			return nil
		}
	}
	return apperr.NotFound("comment")
}
