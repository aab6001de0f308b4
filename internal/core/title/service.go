// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
	"github.com/taibuivan/reviewboard/pkg/slice"
)

// TermResolver maps slugs to taxonomy terms. [*taxonomy.Service] satisfies it.
type TermResolver interface {
	Resolve(context context.Context, field string, slugs []string) ([]*taxonomy.Term, error)
}

// Service implements the title use cases.
type Service struct {
	repo       Repository
	categories TermResolver
	genres     TermResolver
	logger     *slog.Logger
}

func NewService(repo Repository, categories, genres TermResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		logger:     logger,
	}
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.FindByID(context, id)
}

/*
Create validates the payload, resolves the category and genre slugs and
stores the title.

Returns:
  - *Title: the stored title in its read shape
  - error: validation, unknown slug or storage failure
*/
func (service *Service) Create(context context.Context, input Input) (*Title, error) {
	title := &Title{}

	validator := &validate.Validator{}
	validator.Custom(FieldName, input.Name == nil, "This field is required")
	validator.Custom(FieldYear, input.Year == nil, "This field is required")
	validator.Custom(FieldCategory, input.Category == nil, "This field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Genre == nil {
		input.Genre = []string{}
	}

	if err := service.apply(context, title, input); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, title); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.Info("title_created",
		slog.Int64("title_id", title.ID),
		slog.String("name", title.Name),
	)

	return service.repo.FindByID(context, title.ID)
}

// Update applies a partial update and returns the refreshed read shape.
func (service *Service) Update(context context.Context, id int64, input Input) (*Title, error) {
	title, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Genre links are rewritten on every update, so keep the current set when omitted.
	if input.Genre == nil {
		input.Genre = append([]string{}, slice.Map(title.Genre, func(term taxonomy.Term) string { return term.Slug })...)
	}

	if err := service.apply(context, title, input); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, title); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	service.logger.Info("title_updated", slog.Int64("title_id", title.ID))
	return service.repo.FindByID(context, title.ID)
}

func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("title_deleted", slog.Int64("title_id", id))
	return nil
}

// apply validates the non-nil fields of input and copies them onto title,
// resolving slugs to term references.
func (service *Service) apply(context context.Context, title *Title, input Input) error {
	validator := &validate.Validator{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
		title.Name = name
	}

	if input.Year != nil {
		validator.Range(FieldYear, *input.Year, 0, MaxYear)
		title.Year = *input.Year
	}

	if input.Description != nil {
		title.Description = strings.TrimSpace(*input.Description)
	}

	if input.Category != nil {
		validator.Required(FieldCategory, *input.Category)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if input.Category != nil {
		categories, err := service.categories.Resolve(context, FieldCategory, []string{*input.Category})
		if err != nil {
			return err
		}
		title.Category = *categories[0]
		title.CategoryID = categories[0].ID
	}

	if input.Genre != nil {
		genres, err := service.genres.Resolve(context, FieldGenre, input.Genre)
		if err != nil {
			return err
		}

		title.Genre = make([]taxonomy.Term, 0, len(genres))
		title.GenreIDs = make([]int64, 0, len(genres))
		for _, genre := range genres {
			title.Genre = append(title.Genre, *genre)
			title.GenreIDs = append(title.GenreIDs, genre.ID)
		}
	}

	return nil
}
