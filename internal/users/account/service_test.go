// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/users/account"
	"github.com/taibuivan/reviewboard/internal/users/auth"
	"github.com/taibuivan/reviewboard/internal/users/auth/authtest"
	"github.com/taibuivan/reviewboard/pkg/pointer"
)

var (
	alice = auth.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	mod   = auth.User{ID: "u-2", Username: "mod", Email: "mod@example.com", Role: sec.RoleModerator}
	root  = auth.User{ID: "u-3", Username: "root", Email: "root@example.com", Role: sec.RoleAdmin}

	asAlice = access.Actor{UserID: alice.ID, Username: alice.Username, Role: alice.Role}
	asMod   = access.Actor{UserID: mod.ID, Username: mod.Username, Role: mod.Role}
	asRoot  = access.Actor{UserID: root.ID, Username: root.Username, Role: root.Role}
	asSuper = access.Actor{UserID: "u-9", Username: "super", Role: sec.RoleUser, Superuser: true}
)

func newService(t *testing.T) (*account.Service, *authtest.Users) {
	t.Helper()
	users := authtest.NewUsers(alice, mod, root)
	ids := uniqueid.New(uniqueid.WithDigits(func() int { return 3 }))
	return account.NewService(users, ids, slog.New(slog.NewTextHandler(io.Discard, nil))), users
}

/*
TestService_RoleRule verifies only admins and superusers may send a role.
*/
func TestService_RoleRule(t *testing.T) {
	tests := []struct {
		name    string
		actor   access.Actor
		allowed bool
	}{
		{"user", asAlice, false},
		{"moderator", asMod, false},
		{"admin", asRoot, true},
		{"superuser", asSuper, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t)
			input := account.Input{Role: pointer.To(sec.RoleModerator), Bio: pointer.To("hello")}

			_, err := service.Update(context.Background(), tt.actor, "alice", input)

			if tt.allowed {
				require.NoError(t, err)
				return
			}
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
			assert.Equal(t, []apperr.FieldError{{Field: "role", Message: "Only admin can change role"}}, ae.Details)
		})
	}
}

/*
TestService_UpdateMe verifies self-service edits and the role guard on the profile.
*/
func TestService_UpdateMe(t *testing.T) {
	service, users := newService(t)
	ctx := context.Background()

	updated, err := service.UpdateMe(ctx, asAlice, account.Input{FirstName: pointer.To("Alice"), Bio: pointer.To("Critic")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "Critic", updated.Bio)
	assert.Equal(t, sec.RoleUser, updated.Role)

	_, err = service.UpdateMe(ctx, asAlice, account.Input{Role: pointer.To(sec.RoleAdmin), Bio: pointer.To("sneaky")})
	assert.True(t, apperr.HasStatus(err, http.StatusForbidden))

	stored, err := users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Critic", stored.Bio)
	assert.Equal(t, sec.RoleUser, stored.Role)

	promoted, err := service.UpdateMe(ctx, asRoot, account.Input{Role: pointer.To(sec.RoleModerator)})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, promoted.Role)
}

/*
TestService_Create covers defaults and field validation.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name  string
		input account.Input
		field string
	}{
		{"valid", account.Input{Username: pointer.To("bob"), Email: pointer.To("bob@example.com")}, ""},
		{"missing_username", account.Input{Email: pointer.To("bob@example.com")}, auth.FieldUsername},
		{"missing_email", account.Input{Username: pointer.To("bob")}, auth.FieldEmail},
		{"reserved_username", account.Input{Username: pointer.To("me"), Email: pointer.To("me@example.com")}, auth.FieldUsername},
		{"duplicate_username", account.Input{Username: pointer.To("alice"), Email: pointer.To("new@example.com")}, auth.FieldUsername},
		{"duplicate_email", account.Input{Username: pointer.To("bob"), Email: pointer.To("alice@example.com")}, auth.FieldEmail},
		{"bad_email", account.Input{Username: pointer.To("bob"), Email: pointer.To("bob")}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t)

			user, err := service.Create(context.Background(), asRoot, tt.input)

			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, sec.RoleUser, user.Role)
				assert.NotEmpty(t, user.ID)
				return
			}
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

/*
TestService_Delete verifies removal by username.
*/
func TestService_Delete(t *testing.T) {
	service, users := newService(t)
	ctx := context.Background()

	require.NoError(t, service.Delete(ctx, asRoot, "alice"))
	assert.Equal(t, 2, users.Len())

	assert.True(t, apperr.HasStatus(service.Delete(ctx, asRoot, "alice"), http.StatusNotFound))
}

/*
TestService_Me verifies a token for a deleted account is treated as unauthenticated.
*/
func TestService_Me(t *testing.T) {
	service, users := newService(t)
	ctx := context.Background()

	me, err := service.Me(ctx, asAlice)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	require.NoError(t, users.Delete(ctx, alice.ID))
	_, err = service.Me(ctx, asAlice)
	assert.True(t, apperr.HasStatus(err, http.StatusUnauthorized))
}

/*
TestService_EnsureAdmin verifies creation and promotion of the bootstrap admin.
*/
func TestService_EnsureAdmin(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	created, isNew, err := service.EnsureAdmin(ctx, "alice@corp.example", "")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "alice3", created.Username)
	assert.Equal(t, sec.RoleAdmin, created.Role)
	assert.True(t, created.IsSuperuser)

	promoted, isNew, err := service.EnsureAdmin(ctx, "mod@example.com", "ignored")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "mod", promoted.Username)
	assert.Equal(t, sec.RoleAdmin, promoted.Role)
	assert.True(t, promoted.IsSuperuser)
}
