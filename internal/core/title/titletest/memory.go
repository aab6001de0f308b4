// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package titletest provides an in-memory title repository for tests.
package titletest

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
)

// Memory is a goroutine-safe [title.Repository]. Ratings are set explicitly.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	titles  []*title.Title
	ratings map[int64]float64
}

func NewMemory() *Memory {
	return &Memory{ratings: map[int64]float64{}}
}

// SetRating fixes the rating reported for id.
func (memory *Memory) SetRating(id int64, rating float64) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.ratings[id] = rating
}

func (memory *Memory) List(_ context.Context, filter title.Filter, limit, offset int) ([]*title.Title, int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	matched := []*title.Title{}
	for _, stored := range memory.titles {
		if matches(stored, filter) {
			matched = append(matched, memory.read(stored))
		}
	}

	total := len(matched)
	if offset >= total {
		return []*title.Title{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (memory *Memory) FindByID(_ context.Context, id int64) (*title.Title, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if stored := memory.find(id); stored != nil {
		return memory.read(stored), nil
	}
	return nil, apperr.NotFound("title")
}

func (memory *Memory) Create(_ context.Context, created *title.Title) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.nextID++
	created.ID = memory.nextID
	memory.titles = append(memory.titles, clone(created))
	return nil
}

func (memory *Memory) Update(_ context.Context, updated *title.Title) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for index, stored := range memory.titles {
		if stored.ID == updated.ID {
			memory.titles[index] = clone(updated)
			return nil
		}
	}
	return apperr.NotFound("title")
}

func (memory *Memory) Delete(_ context.Context, id int64) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for index, stored := range memory.titles {
		if stored.ID == id {
			memory.titles = slices.Delete(memory.titles, index, index+1)
			delete(memory.ratings, id)
			return nil
		}
	}
	return apperr.NotFound("title")
}

func (memory *Memory) find(id int64) *title.Title {
	for _, stored := range memory.titles {
		if stored.ID == id {
			return stored
		}
	}
	return nil
}

// read returns the read shape: genres sorted by name and the rating attached.
func (memory *Memory) read(stored *title.Title) *title.Title {
	copied := clone(stored)
	slices.SortFunc(copied.Genre, func(a, b taxonomy.Term) int { return strings.Compare(a.Name, b.Name) })
	if rating, ok := memory.ratings[stored.ID]; ok {
		copied.Rating = &rating
	}
	return copied
}

func matches(stored *title.Title, filter title.Filter) bool {
	if filter.Name != "" && !strings.Contains(strings.ToLower(stored.Name), strings.ToLower(filter.Name)) {
		return false
	}
	if filter.Year != nil && stored.Year != *filter.Year {
		return false
	}
	if filter.Category != "" && stored.Category.Slug != filter.Category {
		return false
	}
	if filter.Genre != "" && !slices.ContainsFunc(stored.Genre, func(term taxonomy.Term) bool { return term.Slug == filter.Genre }) {
		return false
	}
	return true
}

func clone(source *title.Title) *title.Title {
	copied := *source
	copied.Rating = nil
	copied.Genre = slices.Clone(source.Genre)
	copied.GenreIDs = slices.Clone(source.GenreIDs)
	return &copied
}
