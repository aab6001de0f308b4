// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the single error type that crosses the service boundary.

Services return an [*AppError] for every outcome the client should see; any
other error reaching [respond.Error] is treated as a 500. The JSON form is
{"error", "code", "details"}, where details carries field-keyed messages such
as {"field": "confirmation_code", "message": "Invalid data"}.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried in the "code" member of an error body.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError pairs a client-safe message with the HTTP status it maps to.
// Cause is logged server-side and never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one field-keyed failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string, details []FieldError) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// # 4xx

// NotFound reports "<resource> not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found", nil)
}

func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// Forbidden may name the field that caused the refusal, such as a role change.
func Forbidden(message string, details ...FieldError) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message, details)
}

func ValidationError(message string, details ...FieldError) *AppError {
	return newError(http.StatusBadRequest, CodeValidation, message, details)
}

// FieldInvalid is a 400 with exactly one field-keyed message.
func FieldInvalid(field, message string) *AppError {
	return ValidationError("Validation failed", FieldError{Field: field, Message: message})
}

func MethodNotAllowed(method string) *AppError {
	return newError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, fmt.Sprintf("Method %q not allowed", method), nil)
}

func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds), nil)
}

// # 5xx

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appErr := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
	appErr.Cause = cause
	return appErr
}

// ServiceUnavailable marks a saturated or unreachable dependency, such as a full mail queue.
func ServiceUnavailable(message string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeServiceUnavailable, message, nil)
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsAppError(err error) bool {
	return As(err) != nil
}

// HasStatus reports whether err carries an [*AppError] with status.
func HasStatus(err error, status int) bool {
	appErr := As(err)
	return appErr != nil && appErr.HTTPStatus == status
}
