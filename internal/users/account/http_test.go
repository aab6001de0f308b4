// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/platform/middleware"
	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/sec/sectest"
	"github.com/taibuivan/reviewboard/internal/users/account"
	"github.com/taibuivan/reviewboard/pkg/pagination"
)

type fixture struct {
	router http.Handler
	admin  string
	user   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	service, _ := newService(t)
	tokens := sectest.NewTokenService(t)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/users", account.NewHandler(service).Routes())

	return fixture{
		router: router,
		admin:  sectest.Bearer(t, tokens, sec.Subject{UserID: root.ID, Username: root.Username, Role: sec.RoleAdmin}),
		user:   sectest.Bearer(t, tokens, sec.Subject{UserID: alice.ID, Username: alice.Username, Role: sec.RoleUser}),
	}
}

func (f fixture) do(method, path, bearer, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", bearer)
	}

	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Permissions verifies the admin collection and the profile capabilities.
*/
func TestHandler_Permissions(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		body   string
		status int
	}{
		{"anonymous_list", http.MethodGet, "/users", "", "", http.StatusUnauthorized},
		{"user_list", http.MethodGet, "/users", f.user, "", http.StatusForbidden},
		{"admin_list", http.MethodGet, "/users", f.admin, "", http.StatusOK},
		{"user_get_other", http.MethodGet, "/users/mod", f.user, "", http.StatusForbidden},
		{"admin_get", http.MethodGet, "/users/mod", f.admin, "", http.StatusOK},
		{"admin_get_missing", http.MethodGet, "/users/ghost", f.admin, "", http.StatusNotFound},
		{"anonymous_me", http.MethodGet, "/users/me", "", "", http.StatusUnauthorized},
		{"user_me", http.MethodGet, "/users/me", f.user, "", http.StatusOK},
		{"admin_create", http.MethodPost, "/users", f.admin, `{"username":"bob","email":"bob@example.com"}`, http.StatusCreated},
		{"admin_create_bad_role", http.MethodPost, "/users", f.admin, `{"username":"eve","email":"eve@example.com","role":"root"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := f.do(tt.method, tt.path, tt.bearer, tt.body)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

/*
TestHandler_Me verifies the profile shape and the role guard over HTTP.
*/
func TestHandler_Me(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/users/me", f.user, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t,
		`{"username":"alice","email":"alice@example.com","first_name":"","last_name":"","bio":"","role":"user"}`,
		recorder.Body.String(),
	)

	recorder = f.do(http.MethodPatch, "/users/me", f.user, `{"bio":"x","role":"admin"}`)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	require.Len(t, envelope.Details, 1)
	assert.Equal(t, "role", envelope.Details[0].Field)
	assert.Equal(t, "Only admin can change role", envelope.Details[0].Message)

	recorder = f.do(http.MethodPatch, "/users/me", f.user, `{"first_name":"Alice"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"first_name":"Alice"`)
}

/*
TestHandler_Search verifies username search ordering.
*/
func TestHandler_Search(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/users?search=O", f.admin, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var page pagination.Page[map[string]any]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&page))
	require.Equal(t, 2, page.Count)
	assert.Equal(t, "mod", page.Results[0]["username"])
	assert.Equal(t, "root", page.Results[1]["username"])
}
