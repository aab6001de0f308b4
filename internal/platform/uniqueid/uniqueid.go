// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uniqueid derives human-readable unique identifiers (usernames, slugs)
from user input.

A candidate is checked against storage and, on collision, extended by one
random decimal digit at a time. The loop is bounded: after [DefaultMaxAttempts]
existence checks it gives up with an [*ExhaustedRetriesError].
*/
package uniqueid

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/pkg/slug"
)

const (
	// DefaultMaxAttempts is the number of existence checks before giving up.
	DefaultMaxAttempts = 10

	// MaxUsernameLength mirrors the users.account.username column.
	MaxUsernameLength = 150
	// MaxSlugLength mirrors the catalog slug columns.
	MaxSlugLength = 50

	// ReservedUsername would shadow the /users/me route.
	ReservedUsername = "me"
)

// ErrExhaustedRetries is matched by every [*ExhaustedRetriesError].
var ErrExhaustedRetries = errors.New("uniqueid: exhausted retries")

// ExhaustedRetriesError reports that no free identifier was found for Base.
type ExhaustedRetriesError struct {
	Base     string
	Attempts int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("uniqueid: no free identifier for %q after %d attempts", e.Base, e.Attempts)
}

// Is makes errors.Is(err, ErrExhaustedRetries) succeed.
func (e *ExhaustedRetriesError) Is(target error) bool {
	return target == ErrExhaustedRetries
}

// ExistsFunc reports whether candidate is already taken.
type ExistsFunc func(context context.Context, candidate string) (bool, error)

// Generator holds the retry bound and the digit source.
type Generator struct {
	maxAttempts int
	digit       func() int
}

// Option customizes a [Generator].
type Option func(*Generator)

// WithMaxAttempts overrides [DefaultMaxAttempts].
func WithMaxAttempts(attempts int) Option {
	return func(generator *Generator) {
		if attempts > 0 {
			generator.maxAttempts = attempts
		}
	}
}

// WithDigits injects the digit source. Values outside 0..9 are folded into range.
func WithDigits(digit func() int) Option {
	return func(generator *Generator) { generator.digit = digit }
}

// New returns a [Generator] drawing digits from math/rand/v2.
func New(options ...Option) *Generator {
	generator := &Generator{
		maxAttempts: DefaultMaxAttempts,
		digit:       func() int { return rand.IntN(10) },
	}
	for _, option := range options {
		option(generator)
	}
	return generator
}

/*
Unique returns base, or base extended with random digits, such that exists
reports false.

Returns:
  - string: the first free candidate
  - error: the error from exists unchanged, or *ExhaustedRetriesError
*/
func (generator *Generator) Unique(context context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base

	for attempt := 1; attempt <= generator.maxAttempts; attempt++ {
		taken, err := exists(context, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if attempt < generator.maxAttempts {
			candidate += strconv.Itoa(generator.nextDigit())
		}
	}

	return "", &ExhaustedRetriesError{Base: base, Attempts: generator.maxAttempts}
}

// Username derives a free username from the local part of email.
func (generator *Generator) Username(ctx context.Context, email string, exists ExistsFunc) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	base := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_.@+-", r) {
			return r
		}
		return -1
	}, local)

	if base == "" {
		return "", apperr.FieldInvalid("email", "Cannot derive a username from this email")
	}

	base = truncate(base, MaxUsernameLength-generator.maxAttempts+1)

	return generator.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		if candidate == ReservedUsername {
			return true, nil
		}
		return exists(ctx, candidate)
	})
}

// Slug derives a free slug from explicit when given, otherwise from name.
func (generator *Generator) Slug(context context.Context, explicit, name string, exists ExistsFunc) (string, error) {
	source := name
	if explicit != "" {
		source = explicit
	}

	base := strings.Trim(truncate(slug.From(source), MaxSlugLength-generator.maxAttempts+1), "-")
	if base == "" {
		return "", apperr.FieldInvalid("slug", "Cannot derive a slug from this value")
	}

	return generator.Unique(context, base, exists)
}

func (generator *Generator) nextDigit() int {
	digit := generator.digit() % 10
	if digit < 0 {
		digit = -digit
	}
	return digit
}

// truncate cuts value to at most limit runes.
func truncate(value string, limit int) string {
	if limit < 1 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}
