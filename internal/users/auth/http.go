// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/reviewboard/internal/platform/request"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the sign-in endpoints. All of them are public.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /email         : Mails a confirmation code, creating the account if needed.
//   - POST /token         : Exchanges email and code for {token, refresh}.
//   - POST /token/refresh : Exchanges a refresh token for a new access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/email", handler.requestCode)
	router.Post("/token", handler.issueToken)
	router.Post("/token/refresh", handler.refresh)

	return router
}

// # Handlers

func (handler *Handler) requestCode(writer http.ResponseWriter, request *http.Request) {
	var payload CodeRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.RequestCode(request.Context(), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	var payload TokenRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.IssueToken(request.Context(), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var payload RefreshRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}
