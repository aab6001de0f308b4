// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package redistest starts a throwaway Redis for integration tests.
package redistest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	redisstore "github.com/taibuivan/reviewboard/internal/platform/redis"
)

// Start runs redis:7-alpine and returns a connected client.
func Start(t testing.TB) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("redistest: start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("redistest: terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redistest: endpoint: %v", err)
	}

	client, err := redisstore.NewClient(ctx, fmt.Sprintf("redis://%s/0", endpoint),
		slog.New(slog.NewTextHandler(io.Discard, nil)), redisstore.WithPoolSize(4))
	if err != nil {
		t.Fatalf("redistest: connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client
}
