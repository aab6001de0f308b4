// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/api"
	"github.com/taibuivan/reviewboard/internal/core/comment"
	"github.com/taibuivan/reviewboard/internal/core/comment/commenttest"
	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/core/review/reviewtest"
	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/core/taxonomy/taxonomytest"
	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/core/title/titletest"
	"github.com/taibuivan/reviewboard/internal/platform/config"
	"github.com/taibuivan/reviewboard/internal/platform/metrics"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/sec/sectest"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/users/account"
	"github.com/taibuivan/reviewboard/internal/users/auth"
	"github.com/taibuivan/reviewboard/internal/users/auth/authtest"
)

type fixture struct {
	handler http.Handler
	outbox  *authtest.Outbox
	admin   string
}

func newFixture(t *testing.T, health api.HealthDependencies) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := metrics.New()
	tokens := sectest.NewTokenService(t)
	ids := uniqueid.New()

	users := authtest.NewUsers(auth.User{ID: "u-admin", Username: "root", Email: "root@example.com", Role: sec.RoleAdmin})
	outbox := &authtest.Outbox{}
	authService := auth.NewService(users, authtest.NewCodes(), tokens, outbox, ids, registry, auth.Config{}, logger)

	categories := taxonomy.NewService(taxonomytest.NewMemory(taxonomy.Category), taxonomy.Category, ids, logger)
	genres := taxonomy.NewService(taxonomytest.NewMemory(taxonomy.Genre), taxonomy.Genre, ids, logger)
	titles := title.NewService(titletest.NewMemory(), categories, genres, logger)
	reviews := review.NewService(reviewtest.NewMemory(), titles, registry, logger)
	comments := comment.NewService(commenttest.NewMemory(), reviews, logger)

	liveness, readiness := api.NewHealthHandlers(health, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, logger, tokens, registry, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Users:      account.NewHandler(account.NewService(users, ids, logger)),
		Categories: taxonomy.NewHandler(categories),
		Genres:     taxonomy.NewHandler(genres),
		Titles:     title.NewHandler(titles),
		Reviews:    review.NewHandler(reviews),
		Comments:   comment.NewHandler(comments),
	})

	return fixture{
		handler: server.Handler(),
		outbox:  outbox,
		admin:   sectest.Bearer(t, tokens, sec.Subject{UserID: "u-admin", Username: "root", Role: sec.RoleAdmin}),
	}
}

func (f fixture) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", bearer)
	}

	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, request)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &value), recorder.Body.String())
	return value
}

/*
TestServer_MethodsAndPaths verifies JSON 404 and 405 responses across mounted routers.
*/
func TestServer_MethodsAndPaths(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{})

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{"put_collection", http.MethodPut, "/api/v1/categories", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"put_title", http.MethodPut, "/api/v1/titles/1", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"put_review", http.MethodPut, "/api/v1/titles/1/reviews/1", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"put_profile", http.MethodPut, "/api/v1/users/me", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"unknown_root", http.MethodGet, "/api/v1/nothing", http.StatusNotFound, "NOT_FOUND"},
		{"unknown_nested", http.MethodGet, "/api/v1/titles/1/extras", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := f.do(t, tt.method, tt.path, f.admin, "")

			require.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.code, decode[respond.ErrorEnvelope](t, recorder).Code)
		})
	}
}

/*
TestServer_TrailingSlash verifies both path spellings reach the same handler.
*/
func TestServer_TrailingSlash(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/genres", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/genres/", "", "").Code)
}

/*
TestServer_Health verifies liveness, readiness and the metrics endpoint.
*/
func TestServer_Health(t *testing.T) {
	healthy := newFixture(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return nil },
	})
	assert.Equal(t, http.StatusOK, healthy.do(t, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, healthy.do(t, http.MethodGet, "/ready", "", "").Code)

	degraded := newFixture(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	})
	recorder := degraded.do(t, http.MethodGet, "/ready", "", "")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "degraded", decode[map[string]any](t, recorder)["status"])

	recorder = healthy.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `reviewboard_http_requests_total{method="GET",route="/ready",status="200"} 1`)
}

/*
TestServer_Journey signs a user in and walks catalog, review and comment endpoints.
*/
func TestServer_Journey(t *testing.T) {
	f := newFixture(t, api.HealthDependencies{})

	// Sign in.
	recorder := f.do(t, http.MethodPost, "/api/v1/auth/email", "", `{"email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice", decode[auth.Identity](t, recorder).Username)

	recorder = f.do(t, http.MethodPost, "/api/v1/auth/token", "",
		`{"email":"alice@example.com","confirmation_code":"`+f.outbox.LastCode()+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	user := "Bearer " + decode[auth.TokenPair](t, recorder).Token

	// Catalog is admin-managed.
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/api/v1/categories", user, `{"name":"Film"}`).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/categories/", f.admin, `{"name":"Film"}`).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/genres", f.admin, `{"name":"Comedy"}`).Code)

	recorder = f.do(t, http.MethodPost, "/api/v1/titles", f.admin,
		`{"name":"Home Alone","year":1990,"category":"film","genre":["comedy"]}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	created := decode[map[string]any](t, recorder)
	assert.Equal(t, map[string]any{"name": "Film", "slug": "film"}, created["category"])
	assert.Nil(t, created["rating"])

	// Reviews and comments are nested under the title.
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/api/v1/titles/1/reviews", "", `{"text":"x","score":5}`).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/v1/titles/2/reviews", user, `{"text":"x","score":5}`).Code)

	recorder = f.do(t, http.MethodPost, "/api/v1/titles/1/reviews/", user, `{"text":"Classic","score":9}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "Home Alone", decode[map[string]any](t, recorder)["title"])

	recorder = f.do(t, http.MethodPost, "/api/v1/titles/1/reviews/1/comments", f.admin, `{"text":"Agreed"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "root", decode[map[string]any](t, recorder)["author"])

	recorder = f.do(t, http.MethodGet, "/api/v1/titles/1/reviews/1/comments", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, recorder)["count"])

	// Profile.
	recorder = f.do(t, http.MethodPatch, "/api/v1/users/me", user, `{"role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = f.do(t, http.MethodGet, "/api/v1/users/me", user, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user", decode[map[string]any](t, recorder)["role"])
}
