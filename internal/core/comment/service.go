// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
	"github.com/taibuivan/reviewboard/pkg/pointer"
)

// ReviewLookup resolves a review within its title. [*review.Service] satisfies it.
type ReviewLookup interface {
	Get(context context.Context, titleID, id int64) (*review.Review, error)
}

// Service implements the comment use cases. Every operation first confirms
// that the review belongs to the title in the path.
type Service struct {
	repo    Repository
	reviews ReviewLookup
	logger  *slog.Logger
}

func NewService(repo Repository, reviews ReviewLookup, logger *slog.Logger) *Service {
	return &Service{repo: repo, reviews: reviews, logger: logger}
}

func (service *Service) List(context context.Context, titleID, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, reviewID, limit, offset)
}

func (service *Service) Get(context context.Context, titleID, reviewID, id int64) (*Comment, error) {
	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, reviewID, id)
}

func (service *Service) Create(context context.Context, actor access.Actor, titleID, reviewID int64, input Input) (*Comment, error) {
	if err := access.Decide(actor, access.ResourceComment, access.ActionCreate).Err(); err != nil {
		return nil, err
	}

	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, err
	}

	text := pointer.Val(input.Text)
	if err := (&validate.Validator{}).Required(FieldText, text).Err(); err != nil {
		return nil, err
	}

	comment := &Comment{ReviewID: reviewID, AuthorID: actor.UserID, Author: actor.Username, Text: text}
	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.String("author", actor.Username),
	)
	return service.repo.FindByID(context, reviewID, comment.ID)
}

func (service *Service) Update(context context.Context, actor access.Actor, titleID, reviewID, id int64, input Input) (*Comment, error) {
	comment, err := service.Get(context, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}

	if err := access.DecideObject(actor, access.ResourceComment, access.ActionUpdate, comment.AuthorID).Err(); err != nil {
		return nil, err
	}

	if input.Text != nil {
		if err := (&validate.Validator{}).Required(FieldText, *input.Text).Err(); err != nil {
			return nil, err
		}
		comment.Text = *input.Text
	}

	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", id), slog.String("by", actor.Username))
	return service.repo.FindByID(context, reviewID, id)
}

func (service *Service) Delete(context context.Context, actor access.Actor, titleID, reviewID, id int64) error {
	comment, err := service.Get(context, titleID, reviewID, id)
	if err != nil {
		return err
	}

	if err := access.DecideObject(actor, access.ResourceComment, access.ActionDelete, comment.AuthorID).Err(); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("comment_deleted",
		slog.Int64("comment_id", id),
		slog.String("author", comment.Author),
		slog.String("by", actor.Username),
	)
	return nil
}
