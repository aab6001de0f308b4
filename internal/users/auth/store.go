// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateEmail is the cause attached to the validation error returned by
// [UserRepository.Create] when the email is already registered.
var ErrDuplicateEmail = errors.New("auth: email already registered")

// UserFilter holds the parameters of the admin user search.
type UserFilter struct {
	Search string // icontains on username
}

// # Repository Interfaces

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {
	// List returns a page of users ordered by username and the total count.
	List(context context.Context, filter UserFilter, limit, offset int) ([]*User, int, error)

	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)

	// UsernameExists is the collision probe of username generation.
	UsernameExists(context context.Context, username string) (bool, error)

	/*
		Create inserts a user.

		Returns:
		  - error: a username field error when the username is taken, or an
		    email field error wrapping [ErrDuplicateEmail]
	*/
	Create(context context.Context, user *User) error

	// Update rewrites the profile fields, role and superuser flag.
	Update(context context.Context, user *User) error

	Delete(context context.Context, id string) error

	// TouchLastLogin records a successful sign-in.
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

/*
CodeRepository stores at most one pending confirmation code per user.
*/
type CodeRepository interface {
	// Issue stores code for userID, replacing any outstanding one.
	Issue(context context.Context, userID string, code ConfirmationCode) error

	// Consume atomically checks hash against the pending code and deletes it on
	// a match. It reports false for a missing, wrong or expired code.
	Consume(context context.Context, userID, hash string, now time.Time) (bool, error)
}
