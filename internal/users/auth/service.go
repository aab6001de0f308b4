// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/constants"
	"github.com/taibuivan/reviewboard/internal/platform/mailer"
	"github.com/taibuivan/reviewboard/internal/platform/metrics"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
	"github.com/taibuivan/reviewboard/pkg/pointer"
	"github.com/taibuivan/reviewboard/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs and verifies JWTs. [*sec.TokenService] satisfies it.
type TokenProvider interface {
	GenerateAccessToken(subject sec.Subject, timeToLive time.Duration) (string, error)
	GenerateRefreshToken(subject sec.Subject, timeToLive time.Duration) (string, error)
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)
}

// Outbox accepts mail for asynchronous delivery. [*mailer.Dispatcher] satisfies it.
type Outbox interface {
	Enqueue(message mailer.Message) error
}

// Config holds the lifetimes the service issues credentials with.
type Config struct {
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	ConfirmationCodeTTL time.Duration

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (config Config) withDefaults() Config {
	if config.AccessTokenTTL <= 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL <= 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if config.ConfirmationCodeTTL <= 0 {
		config.ConfirmationCodeTTL = DefaultConfirmationCodeTTL
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return config
}

// Service implements the sign-in use cases.
type Service struct {
	users   UserRepository
	codes   CodeRepository
	tokens  TokenProvider
	outbox  Outbox
	ids     *uniqueid.Generator
	metrics *metrics.Registry
	config  Config
	logger  *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	codes CodeRepository,
	tokens TokenProvider,
	outbox Outbox,
	ids *uniqueid.Generator,
	registry *metrics.Registry,
	config Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:   users,
		codes:   codes,
		tokens:  tokens,
		outbox:  outbox,
		ids:     ids,
		metrics: registry,
		config:  config.withDefaults(),
		logger:  logger,
	}
}

// # Confirmation Code Request

// CodeRequest is the body of POST /auth/email.
type CodeRequest struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
}

/*
RequestCode finds or creates the account for an email and mails it a fresh
confirmation code, replacing any outstanding one.

Repeated requests for the same email never create a second account: a
concurrent insert that loses the race on the email constraint re-reads the
winner.

Returns:
  - *Identity: the {email, username} of the account
  - error: validation, 503 when the mail queue is full, or storage failures
*/
func (service *Service) RequestCode(context context.Context, request CodeRequest) (*Identity, error) {
	email := strings.TrimSpace(request.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).MaxLen(FieldEmail, email, MaxEmailLength)
	if email != "" {
		validator.Email(FieldEmail, email)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(context, email)
	if apperr.HasStatus(err, http.StatusNotFound) {
		user, err = service.register(context, email, request.Username)
	}
	if err != nil {
		return nil, err
	}

	code, err := sec.GenerateSecureToken(constants.ConfirmationCodeBytes)
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_code_failed: %w", err)
	}

	issuedAt := service.config.Clock()
	record := ConfirmationCode{
		Hash:      sec.HashToken(code),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(service.config.ConfirmationCodeTTL),
	}
	if err := service.codes.Issue(context, user.ID, record); err != nil {
		return nil, fmt.Errorf("auth_service_issue_code_failed: %w", err)
	}

	if err := service.outbox.Enqueue(mailer.Message{
		To:      user.Email,
		Subject: messageCodeSubject,
		Body:    fmt.Sprintf(messageCodeBody, code),
	}); err != nil {
		return nil, err
	}

	service.metrics.ConfirmationCodes.WithLabelValues("issued").Inc()
	service.logger.Info("confirmation_code_issued",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", record.ExpiresAt),
	)

	return &Identity{Email: user.Email, Username: user.Username}, nil
}

// register creates the account for a first-time email.
func (service *Service) register(context context.Context, email string, requested *string) (*User, error) {
	username, err := service.chooseUsername(context, email, requested)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Role:     sec.RoleUser,
	}

	err = service.users.Create(context, user)
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with a concurrent request for the same email.
		return service.users.FindByEmail(context, email)
	}
	if err != nil {
		// A racing insert may also trip the username constraint first.
		if existing, findErr := service.users.FindByEmail(context, email); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (service *Service) chooseUsername(context context.Context, email string, requested *string) (string, error) {
	username := strings.TrimSpace(pointer.Val(requested))
	if username == "" {
		generated, err := service.ids.Username(context, email, service.users.UsernameExists)
		if errors.Is(err, uniqueid.ErrExhaustedRetries) {
			return "", apperr.FieldInvalid(FieldUsername, "Could not generate a unique username, please provide one.")
		}
		return generated, err
	}

	if err := ValidateUsername(username); err != nil {
		return "", err
	}

	taken, err := service.users.UsernameExists(context, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.FieldInvalid(FieldUsername, messageUsernameTaken)
	}
	return username, nil
}

// ValidateUsername applies the username rules shared with account management.
func ValidateUsername(username string) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).MaxLen(FieldUsername, username, MaxUsernameLength)
	if username != "" {
		validator.Username(FieldUsername, username)
	}
	validator.Custom(FieldUsername, username == uniqueid.ReservedUsername, messageReservedName)
	return validator.Err()
}

// # Code Exchange

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
IssueToken exchanges a confirmation code for a token pair.

An unknown email, a wrong code, an expired code and a reused code all yield the
same confirmation_code error and change nothing.
*/
func (service *Service) IssueToken(context context.Context, request TokenRequest) (*TokenPair, error) {
	email := strings.TrimSpace(request.Email)
	code := strings.TrimSpace(request.ConfirmationCode)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Required(FieldConfirmationCode, code)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(context, email)
	if apperr.HasStatus(err, http.StatusNotFound) {
		return nil, service.rejectCode()
	}
	if err != nil {
		return nil, err
	}

	now := service.config.Clock()
	consumed, err := service.codes.Consume(context, user.ID, sec.HashToken(code), now)
	if err != nil {
		return nil, fmt.Errorf("auth_service_consume_code_failed: %w", err)
	}
	if !consumed {
		return nil, service.rejectCode()
	}

	if err := service.users.TouchLastLogin(context, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	pair, err := service.signPair(user)
	if err != nil {
		return nil, err
	}

	service.metrics.ConfirmationCodes.WithLabelValues("accepted").Inc()
	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return pair, nil
}

func (service *Service) rejectCode() error {
	service.metrics.ConfirmationCodes.WithLabelValues("rejected").Inc()
	return apperr.FieldInvalid(FieldConfirmationCode, messageInvalidCode)
}

// # Token Refresh

// RefreshRequest is the body of POST /auth/token/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

/*
Refresh mints a new access token from a refresh token.

The account is re-read so role changes and deletions take effect on the next
refresh.
*/
func (service *Service) Refresh(context context.Context, request RefreshRequest) (*TokenPair, error) {
	if strings.TrimSpace(request.Refresh) == "" {
		return nil, apperr.FieldInvalid(FieldRefresh, "This field is required")
	}

	claims, err := service.tokens.VerifyRefreshToken(request.Refresh)
	if err != nil {
		return nil, apperr.Unauthorized("Token is invalid or expired")
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if apperr.HasStatus(err, http.StatusNotFound) {
		return nil, apperr.Unauthorized("Token is invalid or expired")
	}
	if err != nil {
		return nil, err
	}

	token, err := service.tokens.GenerateAccessToken(user.Subject(), service.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_access_failed: %w", err)
	}
	return &TokenPair{Token: token}, nil
}

func (service *Service) signPair(user *User) (*TokenPair, error) {
	subject := user.Subject()

	access, err := service.tokens.GenerateAccessToken(subject, service.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_access_failed: %w", err)
	}

	refresh, err := service.tokens.GenerateRefreshToken(subject, service.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_refresh_failed: %w", err)
	}

	return &TokenPair{Token: access, Refresh: refresh}, nil
}
