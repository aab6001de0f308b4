// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/core/comment"
	"github.com/taibuivan/reviewboard/internal/core/comment/commenttest"
	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/pkg/pointer"
)

var (
	alice     = access.Actor{UserID: "u-1", Username: "alice", Role: sec.RoleUser}
	bob       = access.Actor{UserID: "u-2", Username: "bob", Role: sec.RoleUser}
	moderator = access.Actor{UserID: "u-3", Username: "mod", Role: sec.RoleModerator}
)

// reviews places review 10 under title 1 and review 20 under title 2.
type reviews struct{}

func (reviews) Get(_ context.Context, titleID, id int64) (*review.Review, error) {
	if (titleID == 1 && id == 10) || (titleID == 2 && id == 20) {
		return &review.Review{ID: id, TitleID: titleID}, nil
	}
	return nil, apperr.NotFound("review")
}

func newService(t *testing.T) *comment.Service {
	t.Helper()
	return comment.NewService(commenttest.NewMemory(), reviews{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_Create verifies the read shape, validation and parent scoping.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		titleID  int64
		reviewID int64
		text     *string
		status   int
	}{
		{"valid", alice, 1, 10, pointer.To("Agreed"), 0},
		{"anonymous", access.Actor{}, 1, 10, pointer.To("hi"), http.StatusUnauthorized},
		{"missing_text", alice, 1, 10, nil, http.StatusBadRequest},
		{"blank_text", alice, 1, 10, pointer.To(" "), http.StatusBadRequest},
		{"review_under_other_title", alice, 2, 10, pointer.To("hi"), http.StatusNotFound},
		{"unknown_review", alice, 1, 99, pointer.To("hi"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(t)

			created, err := service.Create(context.Background(), tt.actor, tt.titleID, tt.reviewID, comment.Input{Text: tt.text})

			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "alice", created.Author)
				assert.Equal(t, "Agreed", created.Text)
				assert.False(t, created.PubDate.IsZero())
				return
			}
			assert.True(t, apperr.HasStatus(err, tt.status), "got %v", err)
		})
	}
}

/*
TestService_Permissions verifies the owner and moderator matrix for edits and deletes.
*/
func TestService_Permissions(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, alice, 1, 10, comment.Input{Text: pointer.To("first")})
	require.NoError(t, err)

	_, err = service.Update(ctx, bob, 1, 10, created.ID, comment.Input{Text: pointer.To("nope")})
	assert.True(t, apperr.HasStatus(err, http.StatusForbidden))

	updated, err := service.Update(ctx, alice, 1, 10, created.ID, comment.Input{Text: pointer.To("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	updated, err = service.Update(ctx, moderator, 1, 10, created.ID, comment.Input{Text: pointer.To("moderated")})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Text)
	assert.Equal(t, "alice", updated.Author)

	assert.True(t, apperr.HasStatus(service.Delete(ctx, bob, 1, 10, created.ID), http.StatusForbidden))
	assert.True(t, apperr.HasStatus(service.Delete(ctx, alice, 2, 20, created.ID), http.StatusNotFound))
	require.NoError(t, service.Delete(ctx, alice, 1, 10, created.ID))

	_, err = service.Get(ctx, 1, 10, created.ID)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
}

/*
TestService_List verifies comments are listed per review.
*/
func TestService_List(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := service.Create(ctx, alice, 1, 10, comment.Input{Text: pointer.To(text)})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, bob, 2, 20, comment.Input{Text: pointer.To("elsewhere")})
	require.NoError(t, err)

	comments, total, err := service.List(ctx, 1, 10, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, comments, 2)
	assert.Equal(t, "one", comments[0].Text)

	_, _, err = service.List(ctx, 2, 10, 20, 0)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
}
