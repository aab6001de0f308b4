// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/reviewboard/internal/platform/request"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/pkg/pagination"
	"github.com/taibuivan/reviewboard/pkg/query"
)

// Handler exposes one taxonomy over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the term collection. Terms are addressed by slug.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	resource := handler.service.Kind().Resource

	router.With(middleware.Authorize(resource, access.ActionList)).Get("/", handler.list)
	router.With(middleware.Authorize(resource, access.ActionCreate)).Post("/", handler.create)

	router.With(middleware.Authorize(resource, access.ActionRetrieve)).Get("/{slug}", handler.get)
	router.With(middleware.Authorize(resource, access.ActionUpdate)).Patch("/{slug}", handler.update)
	router.With(middleware.Authorize(resource, access.ActionDelete)).Delete("/{slug}", handler.delete)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Search: query.String(request.URL.Query(), "search")}

	terms, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, request, params, total, terms)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	term, err := handler.service.Get(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, term)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, term)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Update(request.Context(), requestutil.Param(request, "slug"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, term)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
