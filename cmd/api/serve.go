// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/reviewboard/internal/api"
	"github.com/taibuivan/reviewboard/internal/core/comment"
	"github.com/taibuivan/reviewboard/internal/core/review"
	"github.com/taibuivan/reviewboard/internal/core/taxonomy"
	"github.com/taibuivan/reviewboard/internal/core/title"
	"github.com/taibuivan/reviewboard/internal/platform/config"
	"github.com/taibuivan/reviewboard/internal/platform/constants"
	"github.com/taibuivan/reviewboard/internal/platform/mailer"
	"github.com/taibuivan/reviewboard/internal/platform/metrics"
	"github.com/taibuivan/reviewboard/internal/platform/migration"
	pgstore "github.com/taibuivan/reviewboard/internal/platform/postgres"
	redisstore "github.com/taibuivan/reviewboard/internal/platform/redis"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/users/account"
	"github.com/taibuivan/reviewboard/internal/users/auth"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

Startup sequence:
  1. logger and configuration
  2. PostgreSQL pool and Redis client
  3. database migrations (unless --skip-migrations)
  4. token service, mail dispatcher and domain wiring
  5. HTTP server, stopped gracefully on SIGINT or SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := bootstrap()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
}

func serve(parent context.Context, cfg *config.Config, log *slog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("service_initializing",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Misconfiguration should fail fast instead of hanging on a dead host.
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// # Storage

	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	if !skipMigrations {
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// # Shared Services

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return fmt.Errorf("initialize token service: %w", err)
	}

	registry := metrics.New()
	ids := uniqueid.New()

	dispatcher := mailer.NewDispatcher(newMailer(cfg, log), cfg.MailWorkers, cfg.MailQueueSize, registry, log)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.MailWorkerStopTimeout)
		defer cancel()
		if err := dispatcher.Stop(stopCtx); err != nil {
			log.Warn("mail_dispatcher_stop_incomplete", slog.Any("error", err))
		}
	}()

	// # Domain Wiring

	users := auth.NewUserRepository(pool)
	authService := auth.NewService(
		users,
		auth.NewCodeRepository(rdb),
		tokens,
		dispatcher,
		ids,
		registry,
		auth.Config{
			AccessTokenTTL:      cfg.AccessTokenTTL,
			RefreshTokenTTL:     cfg.RefreshTokenTTL,
			ConfirmationCodeTTL: cfg.ConfirmationCodeTTL,
		},
		log,
	)

	categories := taxonomy.NewService(taxonomy.NewPostgresRepository(pool, taxonomy.Category), taxonomy.Category, ids, log)
	genres := taxonomy.NewService(taxonomy.NewPostgresRepository(pool, taxonomy.Genre), taxonomy.Genre, ids, log)
	titles := title.NewService(title.NewPostgresRepository(pool), categories, genres, log)
	reviews := review.NewService(review.NewPostgresRepository(pool), titles, registry, log)
	comments := comment.NewService(comment.NewPostgresRepository(pool), reviews, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	server := api.NewServer(ctx, cfg, log, tokens, registry, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Users:      account.NewHandler(account.NewService(users, ids, log)),
		Categories: taxonomy.NewHandler(categories),
		Genres:     taxonomy.NewHandler(genres),
		Titles:     title.NewHandler(titles),
		Reviews:    review.NewHandler(reviews),
		Comments:   comment.NewHandler(comments),
	})

	// # Serve

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server_stopped_cleanly")
	return nil
}

// newMailer falls back to logging the message when no SMTP host is configured.
func newMailer(cfg *config.Config, log *slog.Logger) mailer.Mailer {
	if cfg.SMTPHost == "" {
		log.Warn("smtp_not_configured", slog.String("mailer", "log"))
		return mailer.NewLogMailer(log)
	}

	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}
