// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uniqueid_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
)

// taken builds an ExistsFunc backed by a fixed set and counts calls.
func taken(calls *int, values ...string) uniqueid.ExistsFunc {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return func(_ context.Context, candidate string) (bool, error) {
		*calls++
		return set[candidate], nil
	}
}

func sequence(digits ...int) func() int {
	index := 0
	return func() int {
		digit := digits[index%len(digits)]
		index++
		return digit
	}
}

/*
TestUsername verifies derivation from the email local part and digit suffixing.
*/
func TestUsername(t *testing.T) {
	generator := uniqueid.New(uniqueid.WithDigits(sequence(7, 3)))

	tests := []struct {
		name  string
		email string
		taken []string
		want  string
	}{
		{"free", "alice@example.com", nil, "alice"},
		{"one_collision", "alice@example.com", []string{"alice"}, "alice7"},
		{"two_collisions", "bob@example.com", []string{"bob", "bob7"}, "bob73"},
		{"strips_illegal_chars", "o'neil!@example.com", nil, "oneil"},
		{"reserved_me", "me@example.com", nil, "me7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			generator := uniqueid.New(uniqueid.WithDigits(sequence(7, 3)))

			got, err := generator.Username(context.Background(), tt.email, taken(&calls, tt.taken...))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := generator.Username(context.Background(), "@example.com", taken(new(int)))
	require.Error(t, err)
	assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
}

type tenantKey struct{}

/*
TestUsername_ForwardsContext ensures the caller's context reaches every
existence check, including the reserved-name wrapper.
*/
func TestUsername_ForwardsContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), tenantKey{}, "reviews")
	generator := uniqueid.New(uniqueid.WithDigits(sequence(4)))

	var seen []string
	exists := func(ctx context.Context, candidate string) (bool, error) {
		value, _ := ctx.Value(tenantKey{}).(string)
		seen = append(seen, value)
		return candidate == "carol", nil
	}

	got, err := generator.Username(ctx, "carol@example.com", exists)

	require.NoError(t, err)
	assert.Equal(t, "carol4", got)
	assert.Equal(t, []string{"reviews", "reviews"}, seen)
}

/*
TestSlug verifies the explicit slug wins over the name and is normalized.
*/
func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		source   string
		taken    []string
		want     string
	}{
		{"from_name", "", "Science Fiction", nil, "science-fiction"},
		{"explicit_wins", "Sci Fi", "Science Fiction", nil, "sci-fi"},
		{"accents_removed", "", "Café Noir", nil, "cafe-noir"},
		{"collision", "", "Drama", []string{"drama"}, "drama0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := uniqueid.New(uniqueid.WithDigits(sequence(0)))

			got, err := generator.Slug(context.Background(), tt.explicit, tt.source, taken(new(int), tt.taken...))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestSlug_Empty verifies an unsluggable input is a field error on slug.
*/
func TestSlug_Empty(t *testing.T) {
	_, err := uniqueid.New().Slug(context.Background(), "", "!!!", taken(new(int)))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "slug", ae.Details[0].Field)
}

/*
TestSlug_Length verifies long names leave room for the digit suffix.
*/
func TestSlug_Length(t *testing.T) {
	got, err := uniqueid.New().Slug(context.Background(), "", strings.Repeat("a", 80), taken(new(int)))

	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), uniqueid.MaxSlugLength-uniqueid.DefaultMaxAttempts+1)
}

/*
TestUnique_Exhausted verifies the loop stops after the configured number of checks.
*/
func TestUnique_Exhausted(t *testing.T) {
	calls := 0
	always := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := uniqueid.New().Unique(context.Background(), "drama", always)

	require.Error(t, err)
	assert.ErrorIs(t, err, uniqueid.ErrExhaustedRetries)
	assert.Equal(t, uniqueid.DefaultMaxAttempts, calls)

	var exhausted *uniqueid.ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "drama", exhausted.Base)
	assert.Equal(t, uniqueid.DefaultMaxAttempts, exhausted.Attempts)
}

/*
TestUnique_PropagatesErrors verifies storage failures are returned unchanged.
*/
func TestUnique_PropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	failing := func(context.Context, string) (bool, error) { return false, boom }

	_, err := uniqueid.New(uniqueid.WithMaxAttempts(3)).Unique(context.Background(), "x", failing)

	assert.Same(t, boom, err)
}

/*
TestUnique_DigitRange verifies every appended character is a decimal digit 0-9.
*/
func TestUnique_DigitRange(t *testing.T) {
	calls := 0
	collideFive := func(_ context.Context, candidate string) (bool, error) {
		calls++
		return calls <= 5, nil
	}

	got, err := uniqueid.New(uniqueid.WithDigits(sequence(9, 10, -4, 23))).Unique(context.Background(), "base", collideFive)

	require.NoError(t, err)
	suffix := strings.TrimPrefix(got, "base")
	assert.Len(t, suffix, 5)
	for _, r := range suffix {
		assert.True(t, r >= '0' && r <= '9', "unexpected rune %q", r)
	}
}
