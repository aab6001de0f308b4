// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/reviewboard/internal/platform/request"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/pkg/pagination"
	"github.com/taibuivan/reviewboard/pkg/query"
)

// ParamTitleID is the URL parameter addressing a title, shared with nested feedback routes.
const ParamTitleID = "titleID"

// Handler exposes titles over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the title collection. Reviews are mounted separately under /{titleID}/reviews.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.Authorize(access.ResourceTitle, access.ActionList)).Get("/", handler.list)
	router.With(middleware.Authorize(access.ResourceTitle, access.ActionCreate)).Post("/", handler.create)

	router.With(middleware.Authorize(access.ResourceTitle, access.ActionRetrieve)).Get("/{titleID}", handler.get)
	router.With(middleware.Authorize(access.ResourceTitle, access.ActionUpdate)).Patch("/{titleID}", handler.update)
	router.With(middleware.Authorize(access.ResourceTitle, access.ActionDelete)).Delete("/{titleID}", handler.delete)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	year, ok := query.Int(values, FieldYear)
	if !ok {
		respond.Error(writer, request, apperr.FieldInvalid(FieldYear, "Enter a whole number."))
		return
	}

	filter := Filter{
		Name:     query.String(values, FieldName),
		Year:     year,
		Genre:    query.String(values, FieldGenre),
		Category: query.String(values, FieldCategory),
	}

	titles, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, request, params, total, titles)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, ParamTitleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, ParamTitleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, ParamTitleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
