// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/platform/respond"
	"github.com/taibuivan/reviewboard/internal/users/auth"
)

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_SignInFlow drives email, token and refresh end to end over HTTP.
*/
func TestHandler_SignInFlow(t *testing.T) {
	h := newHarness(t)
	router := auth.NewHandler(h.service).Routes()

	recorder := post(t, router, "/email", `{"email":"alice@example.com","username":"alice_w"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"email":"alice@example.com","username":"alice_w"}`, recorder.Body.String())

	recorder = post(t, router, "/token", `{"email":"alice@example.com","confirmation_code":"`+h.outbox.LastCode()+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.Token)
	require.NotEmpty(t, pair.Refresh)

	recorder = post(t, router, "/token/refresh", `{"refresh":"`+pair.Refresh+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var refreshed map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &refreshed))
	assert.Contains(t, refreshed, "token")
	assert.NotContains(t, refreshed, "refresh")
}

/*
TestHandler_Errors verifies malformed bodies and rejected codes map to field-keyed 400s.
*/
func TestHandler_Errors(t *testing.T) {
	h := newHarness(t)
	router := auth.NewHandler(h.service).Routes()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		field  string
	}{
		{"malformed_json", "/email", `{"email":`, http.StatusBadRequest, ""},
		{"bad_email", "/email", `{"email":"nope"}`, http.StatusBadRequest, auth.FieldEmail},
		{"unknown_code", "/token", `{"email":"ghost@example.com","confirmation_code":"abc"}`, http.StatusBadRequest, auth.FieldConfirmationCode},
		{"garbage_refresh", "/token/refresh", `{"refresh":"not-a-jwt"}`, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := post(t, router, tt.path, tt.body)
			require.Equal(t, tt.status, recorder.Code)

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			if tt.field != "" {
				require.NotEmpty(t, envelope.Details)
				assert.Equal(t, tt.field, envelope.Details[0].Field)
			}
		})
	}
}
