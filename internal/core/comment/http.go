// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/reviewboard/internal/platform/request"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/pkg/pagination"
)

const ParamCommentID = "commentID"

// Handler exposes the comments of one review.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the comment collection. Mount it below a path binding both
// {titleID} and {reviewID}.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.Authorize(access.ResourceComment, access.ActionList)).Get("/", handler.list)
	router.With(middleware.Authorize(access.ResourceComment, access.ActionCreate)).Post("/", handler.create)

	router.With(middleware.Authorize(access.ResourceComment, access.ActionRetrieve)).Get("/{commentID}", handler.get)
	router.With(middleware.Authorize(access.ResourceComment, access.ActionUpdate)).Patch("/{commentID}", handler.update)
	router.With(middleware.Authorize(access.ResourceComment, access.ActionDelete)).Delete("/{commentID}", handler.delete)

	return router
}

// path holds the identifiers every comment route carries.
type path struct {
	titleID, reviewID, commentID int64
}

func parsePath(request *http.Request, withComment bool) (path, error) {
	var parsed path
	var err error

	if parsed.titleID, err = requestutil.Int64(request, title.ParamTitleID); err != nil {
		return path{}, err
	}
	if parsed.reviewID, err = requestutil.Int64(request, review.ParamReviewID); err != nil {
		return path{}, err
	}
	if withComment {
		if parsed.commentID, err = requestutil.Int64(request, ParamCommentID); err != nil {
			return path{}, err
		}
	}
	return parsed, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	at, err := parsePath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.List(request.Context(), at.titleID, at.reviewID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, comments)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	at, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Get(request.Context(), at.titleID, at.reviewID, at.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	at, err := parsePath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Actor(request), at.titleID, at.reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	at, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), requestutil.Actor(request), at.titleID, at.reviewID, at.commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	at, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), at.titleID, at.reviewID, at.commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
