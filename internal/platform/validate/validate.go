// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field-keyed failures into one VALIDATION_ERROR.

Rules chain on a [Validator]. Only the first failing rule of a field is
reported, so {"username": ""} yields "This field is required" and not a
length complaint as well. Details keep the order in which fields failed.
*/
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
)

// usernameRegex accepts letters, digits and the characters . @ + - _
var usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator is single-use and not safe for concurrent use.
type Validator struct {
	errs   []apperr.FieldError
	failed map[string]bool
}

// Required fails when value is blank after trimming.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(field, value < min || value > max, fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email accepts a bare RFC 5322 address. Display-name forms are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err != nil || address.Address != value, "Must be a valid email address")
}

// Username allows letters, digits and . @ + - _
func (v *Validator) Username(field, value string) *Validator {
	return v.check(field, !usernameRegex.MatchString(value), "Letters, digits and @/./+/-/_ only")
}

// Custom records message for field when failed is true.
//
//	v.Custom("score", score < 1 || score > 10, "Must be between 1 and 10")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// Err returns the accumulated VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if !failed || v.failed[field] {
		return v
	}
	if v.failed == nil {
		v.failed = make(map[string]bool)
	}
	v.failed[field] = true
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	return v
}
