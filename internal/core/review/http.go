// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/reviewboard/internal/platform/request"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/pkg/pagination"
)

// ParamReviewID is the URL parameter addressing a review.
const ParamReviewID = "reviewID"

// Handler exposes the reviews of one title.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns the review collection. It must be mounted below a path that
binds {titleID}, such as /titles/{titleID}/reviews.

Owner checks on PATCH and DELETE run in the service once the review is loaded.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.Authorize(access.ResourceReview, access.ActionList)).Get("/", handler.list)
	router.With(middleware.Authorize(access.ResourceReview, access.ActionCreate)).Post("/", handler.create)

	router.With(middleware.Authorize(access.ResourceReview, access.ActionRetrieve)).Get("/{reviewID}", handler.get)
	router.With(middleware.Authorize(access.ResourceReview, access.ActionUpdate)).Patch("/{reviewID}", handler.update)
	router.With(middleware.Authorize(access.ResourceReview, access.ActionDelete)).Delete("/{reviewID}", handler.delete)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64(request, title.ParamTitleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.List(request.Context(), titleID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, reviews)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Get(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64(request, title.ParamTitleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Create(request.Context(), requestutil.Actor(request), titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Update(request.Context(), requestutil.Actor(request), titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// ids reads the title and review identifiers from the path.
func ids(request *http.Request) (int64, int64, error) {
	titleID, err := requestutil.Int64(request, title.ParamTitleID)
	if err != nil {
		return 0, 0, err
	}
	reviewID, err := requestutil.Int64(request, ParamReviewID)
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
