// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package pgtest starts a throwaway PostgreSQL with the schema applied.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/reviewboard/internal/platform/migration"
	pgstore "github.com/taibuivan/reviewboard/internal/platform/postgres"
)

const image = "postgres:16-alpine"

// Start runs a container for the calling test and returns a migrated pool.
// Both are torn down through t.Cleanup.
func Start(t testing.TB) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("reviewboard"),
		postgres.WithUsername("reviewboard"),
		postgres.WithPassword("reviewboard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("pgtest: start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("pgtest: terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("pgtest: connection string: %v", err)
	}

	if err := migration.RunUp(dsn, "", logger); err != nil {
		t.Fatalf("pgtest: migrate: %v", err)
	}

	pool, err := pgstore.NewPool(ctx, dsn, logger, pgstore.WithMaxConns(8))
	if err != nil {
		t.Fatalf("pgtest: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}
