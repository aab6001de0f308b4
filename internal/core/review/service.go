// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/metrics"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
	"github.com/taibuivan/reviewboard/pkg/pointer"
)

// TitleLookup confirms a title exists. [*title.Service] satisfies it.
type TitleLookup interface {
	Get(context context.Context, id int64) (*title.Title, error)
}

// Service implements the review use cases.
type Service struct {
	repo    Repository
	titles  TitleLookup
	metrics *metrics.Registry
	logger  *slog.Logger
}

func NewService(repo Repository, titles TitleLookup, registry *metrics.Registry, logger *slog.Logger) *Service {
	return &Service{repo: repo, titles: titles, metrics: registry, logger: logger}
}

// List returns the reviews of a title. An unknown title is a 404, not an empty page.
func (service *Service) List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	if _, err := service.titles.Get(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, titleID, limit, offset)
}

func (service *Service) Get(context context.Context, titleID, id int64) (*Review, error) {
	return service.repo.FindByID(context, titleID, id)
}

/*
Create posts the actor's review of a title.

Returns:
  - *Review: the stored review in its read shape
  - error: 404 for an unknown title, 400 for invalid fields or a second review
    by the same author
*/
func (service *Service) Create(context context.Context, actor access.Actor, titleID int64, input Input) (*Review, error) {
	if err := access.Decide(actor, access.ResourceReview, access.ActionCreate).Err(); err != nil {
		return nil, err
	}

	reviewed, err := service.titles.Get(context, titleID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, pointer.Val(input.Text))
	if input.Score == nil {
		validator.Custom(FieldScore, true, "This field is required")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.repo.Exists(context, titleID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}
	if exists {
		return nil, apperr.ValidationError(messageDuplicate)
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Title:    reviewed.Name,
	}
	if err := apply(review, input); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, review); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.ValidationError(messageDuplicate)
		}
		return nil, err
	}

	service.metrics.ReviewsCreated.Inc()
	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("author", actor.Username),
		slog.Int("score", review.Score),
	)
	return service.repo.FindByID(context, titleID, review.ID)
}

// Update patches text and score. Only the author, moderators and admins may do so.
func (service *Service) Update(context context.Context, actor access.Actor, titleID, id int64, input Input) (*Review, error) {
	review, err := service.repo.FindByID(context, titleID, id)
	if err != nil {
		return nil, err
	}

	if err := access.DecideObject(actor, access.ResourceReview, access.ActionUpdate, review.AuthorID).Err(); err != nil {
		return nil, err
	}

	if err := apply(review, input); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.Int64("review_id", id), slog.String("by", actor.Username))
	return service.repo.FindByID(context, titleID, id)
}

func (service *Service) Delete(context context.Context, actor access.Actor, titleID, id int64) error {
	review, err := service.repo.FindByID(context, titleID, id)
	if err != nil {
		return err
	}

	if err := access.DecideObject(actor, access.ResourceReview, access.ActionDelete, review.AuthorID).Err(); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("review_deleted",
		slog.Int64("review_id", id),
		slog.String("author", review.Author),
		slog.String("by", actor.Username),
	)
	return nil
}

// apply validates the provided fields and copies them onto review.
func apply(review *Review, input Input) error {
	validator := &validate.Validator{}

	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
		review.Text = *input.Text
	}
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, MinScore, MaxScore)
		review.Score = *input.Score
	}

	return validator.Err()
}
