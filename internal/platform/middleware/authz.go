// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/ctxutil"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
)

// TokenVerifier checks an access token. [*sec.TokenService] satisfies it.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.AuthClaims, error)
}

/*
Authenticate resolves the bearer token into an [access.Actor].

A request without an Authorization header continues as anonymous. A header
that is present but malformed, expired or signed with another key is answered
with 401 so clients notice stale credentials.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			actor := access.FromClaims(claims)
			reportUser(request.Context(), actor.UserID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithActor(request.Context(), actor)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Mount after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !ctxutil.Actor(request.Context()).Authenticated() {
			respond.Error(writer, request, access.DenyUnauthenticated.Err())
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// Authorize applies the action-level rule for (resource, action). Ownership
// rules need the loaded record and run in the services via [access.DecideObject].
func Authorize(resource access.Resource, action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision := access.Decide(ctxutil.Actor(request.Context()), resource, action)
			if decision != access.Allow {
				ctxutil.Logger(request.Context()).Debug("access_denied",
					slog.String("resource", string(resource)),
					slog.String("action", string(action)),
					slog.String("decision", decision.String()),
				)
				respond.Error(writer, request, decision.Err())
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
