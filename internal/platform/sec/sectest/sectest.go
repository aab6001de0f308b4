// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sectest provides token fixtures for HTTP tests.
package sectest

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/taibuivan/reviewboard/internal/platform/sec"
)

// Issuer is the "iss" claim used by test token services.
const Issuer = "reviewboard.test"

// NewTokenService creates a [sec.TokenService] backed by a freshly generated RSA key.
func NewTokenService(t testing.TB) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("sectest: generate rsa key: %v", err)
	}

	return sec.NewTokenServiceFromKey(key, Issuer)
}

// Bearer returns an Authorization header value for the given subject.
func Bearer(t testing.TB, tokens *sec.TokenService, subject sec.Subject) string {
	t.Helper()

	token, err := tokens.GenerateAccessToken(subject, time.Hour)
	if err != nil {
		t.Fatalf("sectest: sign access token: %v", err)
	}

	return "Bearer " + token
}
