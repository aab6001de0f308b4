// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across layers: server
// timing, rate limits, token issuer and the keys used in logs and Redis.
package constants

import "time"

const (
	AppName    = "reviewboard-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout also becomes the Postgres statement_timeout.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds the wait for in-flight requests on SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the steady rate allowed per client IP.
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	RateLimitCleanupInterval = time.Minute
	// RateLimitClientTTL is the idle time after which a client bucket is dropped.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the "iss" claim of every token this service signs.
	AuthIssuer = "reviewboard.api"

	// ConfirmationCodeBytes is the entropy of an emailed confirmation code.
	ConfirmationCodeBytes = 16

	// RedisPrefixConfirmationCode keys the pending code of a user by ID.
	RedisPrefixConfirmationCode = "auth:confirmation_code:"
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Log and Probe Fields

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// MailWorkerStopTimeout bounds how long shutdown waits for queued mail.
const MailWorkerStopTimeout = 10 * time.Second
