// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
	"github.com/taibuivan/reviewboard/pkg/pointer"
	"github.com/taibuivan/reviewboard/pkg/slug"
)

// Service implements the use cases of one taxonomy [Kind].
type Service struct {
	repo   Repository
	kind   Kind
	ids    *uniqueid.Generator
	logger *slog.Logger
}

// NewService wires a taxonomy service.
func NewService(repo Repository, kind Kind, ids *uniqueid.Generator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		kind:   kind,
		ids:    ids,
		logger: logger.With(slog.String("taxonomy", kind.Label)),
	}
}

// Kind reports which vocabulary the service manages.
func (service *Service) Kind() Kind {
	return service.kind
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, slug string) (*Term, error) {
	return service.repo.FindBySlug(context, slug)
}

// Resolve maps slugs to terms, failing on the first unknown slug with a field
// error keyed by field.
func (service *Service) Resolve(context context.Context, field string, slugs []string) ([]*Term, error) {
	terms, err := service.repo.FindBySlugs(context, slugs)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]*Term, len(terms))
	for _, term := range terms {
		bySlug[term.Slug] = term
	}

	resolved := make([]*Term, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, value := range slugs {
		term, ok := bySlug[value]
		if !ok {
			return nil, apperr.FieldInvalid(field, "Object with slug="+value+" does not exist.")
		}
		if seen[value] {
			continue
		}
		seen[value] = true
		resolved = append(resolved, term)
	}
	return resolved, nil
}

/*
Create validates input, derives a unique slug and stores the term.

The slug comes from the explicit slug when given, otherwise from the name, and
is extended with random digits on collision.
*/
func (service *Service) Create(context context.Context, input Input) (*Term, error) {
	name := strings.TrimSpace(pointer.Val(input.Name))
	explicit := strings.TrimSpace(pointer.Val(input.Slug))

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	validator.MaxLen(FieldSlug, explicit, uniqueid.MaxSlugLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	generated, err := service.ids.Slug(context, explicit, name, service.repo.SlugExists)
	if err != nil {
		return nil, service.slugError(err)
	}

	term := &Term{Name: name, Slug: generated}
	if err := service.repo.Create(context, term); err != nil {
		return nil, err
	}

	service.logger.Info("taxonomy_term_created", slog.String("slug", term.Slug))
	return term, nil
}

/*
Update applies a partial update to the term addressed by current.

An explicit new slug is normalised but never suffixed: a collision with another
term is a validation error.
*/
func (service *Service) Update(context context.Context, current string, input Input) (*Term, error) {
	term, err := service.repo.FindBySlug(context, current)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
		term.Name = name
	}

	if input.Slug != nil {
		normalized := slug.From(*input.Slug)
		validator.Required(FieldSlug, normalized).MaxLen(FieldSlug, normalized, uniqueid.MaxSlugLength)
		term.Slug = normalized
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, current, term); err != nil {
		return nil, err
	}

	service.logger.Info("taxonomy_term_updated", slog.String("slug", term.Slug), slog.String("previous_slug", current))
	return term, nil
}

func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repo.Delete(context, slug); err != nil {
		return err
	}

	service.logger.Warn("taxonomy_term_deleted", slog.String("slug", slug))
	return nil
}

// slugError reports exhausted slug generation as a field error; other errors pass through.
func (service *Service) slugError(err error) error {
	if errors.Is(err, uniqueid.ErrExhaustedRetries) {
		return apperr.FieldInvalid(FieldSlug, "Could not generate a unique slug, please provide one.")
	}
	return err
}
