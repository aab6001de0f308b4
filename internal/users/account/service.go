// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/reviewboard/internal/platform/access"
	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/platform/validate"
	"github.com/taibuivan/reviewboard/internal/users/auth"
	"github.com/taibuivan/reviewboard/pkg/pointer"
	"github.com/taibuivan/reviewboard/pkg/uuid"
)

// # Service Layer

// Service orchestrates account management on top of the user repository.
type Service struct {
	users  auth.UserRepository
	ids    *uniqueid.Generator
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(users auth.UserRepository, ids *uniqueid.Generator, logger *slog.Logger) *Service {
	return &Service{users: users, ids: ids, logger: logger}
}

// # Admin Collection

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	users, total, err := service.users.List(context, auth.UserFilter{Search: strings.TrimSpace(filter.Search)}, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.users.FindByUsername(context, username)
}

/*
Create registers an account on behalf of an admin.

Username and email are required. The role defaults to user.

Returns:
  - *auth.User: the stored account
  - error: field errors for invalid or duplicate values
*/
func (service *Service) Create(context context.Context, actor access.Actor, input Input) (*auth.User, error) {
	if err := guardRole(actor, input); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, pointer.Val(input.Username))
	validator.Required(auth.FieldEmail, pointer.Val(input.Email))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{ID: uuid.New(), Role: sec.RoleUser}
	if err := apply(user, input); err != nil {
		return nil, err
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("by", actor.Username),
	)
	return service.users.FindByID(context, user.ID)
}

// Update patches the account addressed by username.
func (service *Service) Update(context context.Context, actor access.Actor, username string, input Input) (*auth.User, error) {
	if err := guardRole(actor, input); err != nil {
		return nil, err
	}

	user, err := service.users.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.save(context, actor, user, input)
}

func (service *Service) Delete(context context.Context, actor access.Actor, username string) error {
	user, err := service.users.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.users.Delete(context, user.ID); err != nil {
		return err
	}

	service.logger.Warn("user_deleted",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("by", actor.Username),
	)
	return nil
}

// # Own Profile

// Me returns the caller's account.
func (service *Service) Me(context context.Context, actor access.Actor) (*auth.User, error) {
	user, err := service.users.FindByID(context, actor.UserID)
	if apperr.HasStatus(err, http.StatusNotFound) {
		// The token outlived the account.
		return nil, apperr.Unauthorized("User not found")
	}
	return user, err
}

// UpdateMe patches the caller's account under the same role rule as the admin endpoint.
func (service *Service) UpdateMe(context context.Context, actor access.Actor, input Input) (*auth.User, error) {
	if err := guardRole(actor, input); err != nil {
		return nil, err
	}

	user, err := service.Me(context, actor)
	if err != nil {
		return nil, err
	}
	return service.save(context, actor, user, input)
}

// # Bootstrap

/*
EnsureAdmin creates a superuser admin for email, or promotes the existing
account. An empty username is derived from the email.

Returns:
  - *auth.User: the admin account
  - bool: true when the account was created
*/
func (service *Service) EnsureAdmin(context context.Context, email, username string) (*auth.User, bool, error) {
	email = strings.TrimSpace(email)

	existing, err := service.users.FindByEmail(context, email)
	switch {
	case err == nil:
		existing.Role = sec.RoleAdmin
		existing.IsSuperuser = true
		if err := service.users.Update(context, existing); err != nil {
			return nil, false, err
		}
		service.logger.Warn("user_promoted", slog.String("user_id", existing.ID))
		return existing, false, nil
	case !apperr.HasStatus(err, http.StatusNotFound):
		return nil, false, err
	}

	if username == "" {
		username, err = service.ids.Username(context, email, service.users.UsernameExists)
		if errors.Is(err, uniqueid.ErrExhaustedRetries) {
			return nil, false, apperr.FieldInvalid(auth.FieldUsername, "Could not generate a unique username, please provide one.")
		}
		if err != nil {
			return nil, false, err
		}
	}

	user := &auth.User{ID: uuid.New(), Role: sec.RoleAdmin, IsSuperuser: true}
	if err := apply(user, Input{Username: &username, Email: &email}); err != nil {
		return nil, false, err
	}
	if err := service.users.Create(context, user); err != nil {
		return nil, false, err
	}

	service.logger.Warn("admin_created", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, true, nil
}

// # Helpers

func (service *Service) save(context context.Context, actor access.Actor, user *auth.User, input Input) (*auth.User, error) {
	if err := apply(user, input); err != nil {
		return nil, err
	}

	if err := service.users.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_updated",
		slog.String("user_id", user.ID),
		slog.String("by", actor.Username),
	)
	return service.users.FindByID(context, user.ID)
}

// guardRole enforces that only admins send a role.
func guardRole(actor access.Actor, input Input) error {
	if input.Role != nil && !actor.IsAdmin() {
		return apperr.Forbidden(messageRoleChange, apperr.FieldError{Field: FieldRole, Message: messageRoleChange})
	}
	return nil
}

// apply validates the provided fields and copies them onto user.
func apply(user *auth.User, input Input) error {
	validator := &validate.Validator{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if err := auth.ValidateUsername(username); err != nil {
			for _, detail := range apperr.As(err).Details {
				validator.Custom(detail.Field, true, detail.Message)
			}
		}
		user.Username = username
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		validator.Required(auth.FieldEmail, email).MaxLen(auth.FieldEmail, email, auth.MaxEmailLength)
		if email != "" {
			validator.Email(auth.FieldEmail, email)
		}
		user.Email = email
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, auth.MaxNameLength)
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, auth.MaxNameLength)
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	return validator.Err()
}
