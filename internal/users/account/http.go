// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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

// ParamUsername addresses a user in the admin collection.
const ParamUsername = "username"

// Handler implements the HTTP layer for user management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

/*
Routes returns a [chi.Router] for the user collection.

# Endpoints
  - GET    /me          : The caller's profile.
  - PATCH  /me          : Partial update of the caller's profile.
  - GET    /            : Admin search by username.
  - POST   /            : Admin create.
  - GET    /{username}  : Admin retrieve.
  - PATCH  /{username}  : Admin partial update.
  - DELETE /{username}  : Admin delete.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Static segment wins over {username}, which also can never be "me".
	router.With(middleware.Authorize(access.ResourceProfile, access.ActionRetrieve)).Get("/me", handler.getMe)
	router.With(middleware.Authorize(access.ResourceProfile, access.ActionUpdate)).Patch("/me", handler.updateMe)

	router.With(middleware.Authorize(access.ResourceUser, access.ActionList)).Get("/", handler.list)
	router.With(middleware.Authorize(access.ResourceUser, access.ActionCreate)).Post("/", handler.create)

	router.With(middleware.Authorize(access.ResourceUser, access.ActionRetrieve)).Get("/{username}", handler.get)
	router.With(middleware.Authorize(access.ResourceUser, access.ActionUpdate)).Patch("/{username}", handler.update)
	router.With(middleware.Authorize(access.ResourceUser, access.ActionDelete)).Delete("/{username}", handler.delete)

	return router
}

// # Own Profile

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Me(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateMe(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Admin Collection

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Search: query.String(request.URL.Query(), "search")}

	users, total, err := handler.accountService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, request, params, total, users)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Param(request, ParamUsername))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, ParamUsername), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	err := handler.accountService.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, ParamUsername))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
