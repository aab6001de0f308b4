// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/sec/sectest"
)

/*
TestRole_UnmarshalJSON verifies that unknown roles are rejected at decode time.
*/
func TestRole_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    sec.Role
		wantErr bool
	}{
		{"user", `{"role":"user"}`, sec.RoleUser, false},
		{"moderator", `{"role":"moderator"}`, sec.RoleModerator, false},
		{"admin", `{"role":"admin"}`, sec.RoleAdmin, false},
		{"unknown", `{"role":"superadmin"}`, "", true},
		{"wrong_case", `{"role":"Admin"}`, "", true},
		{"not_a_string", `{"role":3}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Role sec.Role `json:"role"`
			}

			err := json.Unmarshal([]byte(tt.payload), &body)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, body.Role)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, sec.FieldRole, ae.Details[0].Field)
		})
	}
}

/*
TestRole_AtLeast verifies the role hierarchy.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleModerator.AtLeast(sec.RoleModerator))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleModerator))
	assert.False(t, sec.Role("ghost").Valid())
}

/*
TestTokenService_RoundTrip verifies claims survive signing and that token types are not interchangeable.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	tokens := sectest.NewTokenService(t)
	subject := sec.Subject{UserID: "u-1", Username: "alice", Role: sec.RoleModerator, Superuser: true}

	access, err := tokens.GenerateAccessToken(subject, time.Minute)
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.True(t, claims.Superuser)

	_, err = tokens.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, sec.ErrWrongTokenType)

	refresh, err := tokens.GenerateRefreshToken(subject, time.Minute)
	require.NoError(t, err)

	_, err = tokens.VerifyToken(refresh)
	assert.ErrorIs(t, err, sec.ErrWrongTokenType)
}

/*
TestTokenService_Rejects verifies expired tokens and foreign signatures are refused.
*/
func TestTokenService_Rejects(t *testing.T) {
	tokens := sectest.NewTokenService(t)
	other := sectest.NewTokenService(t)
	subject := sec.Subject{UserID: "u-1", Username: "alice", Role: sec.RoleUser}

	expired, err := tokens.GenerateAccessToken(subject, -time.Minute)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(expired)
	assert.Error(t, err)

	foreign, err := other.GenerateAccessToken(subject, time.Minute)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(foreign)
	assert.Error(t, err)
}

/*
TestSecureToken verifies token generation and hashing.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
	assert.Len(t, sec.HashToken(first), 64)
}

func writeKeyPair(t *testing.T, dir, name string) (privatePath, publicPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	privatePath = filepath.Join(dir, name+".pem")
	publicPath = filepath.Join(dir, name+".pub.pem")

	require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0o600))
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}), 0o600))
	return privatePath, publicPath
}

/*
TestNewTokenService_Files verifies PEM loading and the key pair check.
*/
func TestNewTokenService_Files(t *testing.T) {
	dir := t.TempDir()
	privateA, publicA := writeKeyPair(t, dir, "a")
	_, publicB := writeKeyPair(t, dir, "b")

	tokens, err := sec.NewTokenService(privateA, publicA, "reviewboard.test")
	require.NoError(t, err)

	token, err := tokens.GenerateAccessToken(sec.Subject{UserID: "u-1", Role: sec.RoleUser}, time.Minute)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(token)
	assert.NoError(t, err)

	_, err = sec.NewTokenService(privateA, publicB, "reviewboard.test")
	assert.ErrorContains(t, err, "does not match")

	_, err = sec.NewTokenService(filepath.Join(dir, "missing.pem"), publicA, "reviewboard.test")
	assert.Error(t, err)
}

/*
TestTokenService_RequiresSubject verifies tokens are never minted for an empty user ID.
*/
func TestTokenService_RequiresSubject(t *testing.T) {
	tokens := sectest.NewTokenService(t)

	_, err := tokens.GenerateAccessToken(sec.Subject{Username: "ghost"}, time.Minute)
	assert.Error(t, err)
}
