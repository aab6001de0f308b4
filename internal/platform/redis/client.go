// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the API to the Redis instance holding pending
confirmation codes.

Codes are short-lived and consumed at most once, so every record carries a TTL
and nothing here is expected to survive a flush. The client is shared by the
code repository and the readiness probe.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second

	defaultPoolSize = 10
	minIdleConns    = 2
)

// Option adjusts the parsed [redis.Options] before the client is built.
type Option func(*redis.Options)

// WithPoolSize overrides the connection pool size.
func WithPoolSize(size int) Option {
	return func(options *redis.Options) {
		if size > 0 {
			options.PoolSize = size
		}
	}
}

/*
NewClient parses redisURL, applies the timeouts and pings the server.

A failed ping closes the client and returns the error, so a misconfigured URL
stops startup instead of surfacing on the first sign-in.
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger, opts ...Option) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = defaultPoolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping checks the server within a short deadline. Used by /ready.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingContext, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingContext).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
