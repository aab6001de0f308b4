// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user identity and the confirmation-code sign-in flow.

It defines the User entity shared by the account package, the storage
contracts for users (PostgreSQL) and pending confirmation codes (Redis), and
the service that exchanges an emailed code for a signed token pair.

# Flow

	Anonymous --POST /auth/email--> CodeRequested --POST /auth/token--> Authenticated

A code is single use: it is stored hashed with an expiry and consumed
atomically on the first successful exchange.
*/
package auth

import (
	"time"

	"github.com/taibuivan/reviewboard/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID          string     `json:"-"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Bio         string     `json:"bio"`
	Role        sec.Role   `json:"role"`
	IsSuperuser bool       `json:"-"`
	LastLogin   *time.Time `json:"-"`
	DateJoined  time.Time  `json:"-"`
}

// Subject returns the token subject for the user.
func (user *User) Subject() sec.Subject {
	return sec.Subject{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.IsSuperuser,
	}
}

// IsAdmin reports whether the account holds the admin role or the superuser flag.
func (user *User) IsAdmin() bool {
	return user.IsSuperuser || user.Role == sec.RoleAdmin
}

// ConfirmationCode is the stored form of an emailed code. Only the digest is kept.
type ConfirmationCode struct {
	Hash      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the response of a confirmation-code request.
type Identity struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenPair is the response of a successful code exchange.
type TokenPair struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh,omitempty"`
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldConfirmationCode = "confirmation_code"
	FieldRefresh          = "refresh"
)
