// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/core/taxonomy/taxonomytest"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/pkg/pointer"
)

func newService(t *testing.T, kind taxonomy.Kind, seed ...taxonomy.Term) *taxonomy.Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ids := uniqueid.New(uniqueid.WithDigits(func() int { return 5 }))
	return taxonomy.NewService(taxonomytest.NewMemory(kind, seed...), kind, ids, logger)
}

/*
TestService_Create covers slug derivation and validation on creation.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name     string
		input    taxonomy.Input
		wantSlug string
		field    string
	}{
		{"slug_from_name", taxonomy.Input{Name: pointer.To("Science Fiction")}, "science-fiction", ""},
		{"explicit_slug_normalized", taxonomy.Input{Name: pointer.To("Horror"), Slug: pointer.To("Scary Stuff")}, "scary-stuff", ""},
		{"slug_collision_suffixed", taxonomy.Input{Name: pointer.To("Drama!")}, "drama5", ""},
		{"missing_name", taxonomy.Input{Slug: pointer.To("x")}, "", taxonomy.FieldName},
		{"duplicate_name", taxonomy.Input{Name: pointer.To("Drama")}, "", taxonomy.FieldName},
		{"unsluggable", taxonomy.Input{Name: pointer.To("???")}, "", taxonomy.FieldSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(t, taxonomy.Genre, taxonomy.Term{Name: "Drama", Slug: "drama"})

			term, err := service.Create(context.Background(), tt.input)

			if tt.field != "" {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
				assert.Equal(t, tt.field, ae.Details[0].Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, term.Slug)
		})
	}
}

/*
TestService_Create_Exhausted verifies a saturated slug space reports a slug field error.
*/
func TestService_Create_Exhausted(t *testing.T) {
	seed := []taxonomy.Term{{Name: "Drama", Slug: "drama"}}
	candidate := "drama"
	for index := 1; index < uniqueid.DefaultMaxAttempts; index++ {
		candidate += "5"
		seed = append(seed, taxonomy.Term{Name: candidate, Slug: candidate})
	}
	service := newService(t, taxonomy.Genre, seed...)

	_, err := service.Create(context.Background(), taxonomy.Input{Name: pointer.To("New Drama"), Slug: pointer.To("drama")})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, taxonomy.FieldSlug, ae.Details[0].Field)
}

/*
TestService_Update covers partial updates addressed by slug.
*/
func TestService_Update(t *testing.T) {
	service := newService(t, taxonomy.Category,
		taxonomy.Term{Name: "Films", Slug: "films"},
		taxonomy.Term{Name: "Books", Slug: "books"},
	)
	ctx := context.Background()

	term, err := service.Update(ctx, "films", taxonomy.Input{Name: pointer.To("Movies")})
	require.NoError(t, err)
	assert.Equal(t, "Movies", term.Name)
	assert.Equal(t, "films", term.Slug)

	term, err = service.Update(ctx, "films", taxonomy.Input{Slug: pointer.To("Movies")})
	require.NoError(t, err)
	assert.Equal(t, "movies", term.Slug)

	_, err = service.Get(ctx, "films")
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))

	_, err = service.Update(ctx, "movies", taxonomy.Input{Slug: pointer.To("books")})
	assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))

	_, err = service.Update(ctx, "ghost", taxonomy.Input{Name: pointer.To("x")})
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
}

/*
TestService_Resolve verifies slug lookup and the unknown-slug message.
*/
func TestService_Resolve(t *testing.T) {
	service := newService(t, taxonomy.Genre,
		taxonomy.Term{Name: "Drama", Slug: "drama"},
		taxonomy.Term{Name: "Comedy", Slug: "comedy"},
	)

	terms, err := service.Resolve(context.Background(), "genre", []string{"comedy", "drama", "comedy"})
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "comedy", terms[0].Slug)

	_, err = service.Resolve(context.Background(), "genre", []string{"drama", "western"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "genre", ae.Details[0].Field)
	assert.Equal(t, "Object with slug=western does not exist.", ae.Details[0].Message)
}
