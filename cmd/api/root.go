// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/reviewboard/internal/platform/config"
	"github.com/taibuivan/reviewboard/internal/platform/constants"
)

var rootCmd = &cobra.Command{
	Use:     "api",
	Short:   "reviewboard API server and admin tooling",
	Long:    `Serve the reviewboard REST API, manage its schema and bootstrap administrators.`,
	Version: constants.AppVersion,

	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap builds the JSON logger and loads configuration.
//
// The logger is created before configuration so that config errors are
// structured too. Debug mode swaps in a debug-level handler.
func bootstrap() (*slog.Logger, *config.Config, error) {
	log := newLogger(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup_failure", slog.String("stage", "load configuration"), slog.Any("error", err))
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	slog.SetDefault(log)
	return log, cfg, nil
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String(constants.FieldApp, constants.AppName),
		slog.String(constants.FieldVersion, constants.AppVersion),
	)
}
