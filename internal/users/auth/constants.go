// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
)

// # Authentication Constraints

const (
	// MaxEmailLength mirrors the users.account.email column.
	MaxEmailLength = 254
	// MaxNameLength bounds first_name and last_name.
	MaxNameLength = 150
	// MaxUsernameLength mirrors the users.account.username column.
	MaxUsernameLength = uniqueid.MaxUsernameLength

	// DefaultAccessTokenTTL applies when the service is built without a configured TTL.
	DefaultAccessTokenTTL = 15 * time.Minute
	// DefaultRefreshTokenTTL is the lifetime of a refresh token.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	// DefaultConfirmationCodeTTL is how long an emailed code stays redeemable.
	DefaultConfirmationCodeTTL = 24 * time.Hour
)

// # Client Messages

const (
	messageInvalidCode   = "Invalid data"
	messageUsernameTaken = "A user with that username already exists."
	messageEmailTaken    = "user with this email already exists."
	messageReservedName  = "Username \"me\" is reserved."
	messageCodeSubject   = "Confirmation code"
	messageCodeBody      = "Your confirmation code %s"
)
