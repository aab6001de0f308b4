// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package taxonomytest provides an in-memory taxonomy repository for tests.
package taxonomytest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
)

// Memory is a goroutine-safe [taxonomy.Repository] ordered by insertion.
type Memory struct {
	mu     sync.Mutex
	kind   taxonomy.Kind
	nextID int64
	terms  []*taxonomy.Term
}

// NewMemory returns a store seeded with terms.
func NewMemory(kind taxonomy.Kind, seed ...taxonomy.Term) *Memory {
	memory := &Memory{kind: kind}
	for _, term := range seed {
		copied := term
		_ = memory.Create(context.Background(), &copied)
	}
	return memory
}

func (memory *Memory) List(_ context.Context, filter taxonomy.Filter, limit, offset int) ([]*taxonomy.Term, int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	matched := []*taxonomy.Term{}
	for _, term := range memory.terms {
		if filter.Search == "" || strings.Contains(strings.ToLower(term.Name), strings.ToLower(filter.Search)) {
			copied := *term
			matched = append(matched, &copied)
		}
	}

	if memory.kind.OrderBy == memory.kind.Table.Name {
		slices.SortStableFunc(matched, func(a, b *taxonomy.Term) int { return strings.Compare(a.Name, b.Name) })
	}

	total := len(matched)
	if offset >= total {
		return []*taxonomy.Term{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (memory *Memory) FindBySlug(_ context.Context, slug string) (*taxonomy.Term, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if term := memory.find(slug); term != nil {
		copied := *term
		return &copied, nil
	}
	return nil, apperr.NotFound(memory.kind.Label)
}

func (memory *Memory) FindBySlugs(_ context.Context, slugs []string) ([]*taxonomy.Term, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	found := []*taxonomy.Term{}
	for _, term := range memory.terms {
		if slices.Contains(slugs, term.Slug) {
			copied := *term
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (memory *Memory) SlugExists(_ context.Context, slug string) (bool, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	return memory.find(slug) != nil, nil
}

func (memory *Memory) Create(_ context.Context, term *taxonomy.Term) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if err := memory.checkUnique(term, 0); err != nil {
		return err
	}

	memory.nextID++
	term.ID = memory.nextID
	copied := *term
	memory.terms = append(memory.terms, &copied)
	return nil
}

func (memory *Memory) Update(_ context.Context, slug string, term *taxonomy.Term) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	existing := memory.find(slug)
	if existing == nil {
		return apperr.NotFound(memory.kind.Label)
	}
	if err := memory.checkUnique(term, existing.ID); err != nil {
		return err
	}

	existing.Name, existing.Slug = term.Name, term.Slug
	term.ID = existing.ID
	return nil
}

func (memory *Memory) Delete(_ context.Context, slug string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for index, term := range memory.terms {
		if term.Slug == slug {
			memory.terms = slices.Delete(memory.terms, index, index+1)
			return nil
		}
	}
	return apperr.NotFound(memory.kind.Label)
}

func (memory *Memory) find(slug string) *taxonomy.Term {
	for _, term := range memory.terms {
		if term.Slug == slug {
			return term
		}
	}
	return nil
}

func (memory *Memory) checkUnique(candidate *taxonomy.Term, selfID int64) error {
	for _, term := range memory.terms {
		if term.ID == selfID {
			continue
		}
		if term.Name == candidate.Name {
			return apperr.FieldInvalid(taxonomy.FieldName, fmt.Sprintf("%s with this name already exists.", memory.kind.Label))
		}
		if term.Slug == candidate.Slug {
			return apperr.FieldInvalid(taxonomy.FieldSlug, fmt.Sprintf("%s with this slug already exists.", memory.kind.Label))
		}
	}
	return nil
}
