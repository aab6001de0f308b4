// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/reviewboard/internal/platform/constants"
	pgstore "github.com/taibuivan/reviewboard/internal/platform/postgres"
	"github.com/taibuivan/reviewboard/internal/platform/sec"
	"github.com/taibuivan/reviewboard/internal/platform/uniqueid"
	"github.com/taibuivan/reviewboard/internal/users/account"
	"github.com/taibuivan/reviewboard/internal/users/auth"
)

var (
	adminEmail    string
	adminUsername string
	adminToken    bool
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote an administrator account",
	Long: `Create an account with the admin role and the superuser flag, or promote
the existing account registered under --email. With --token a token pair is
printed so the administrator can call the API without the email flow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" {
			return errors.New("--email is required")
		}

		log, cfg, err := bootstrap()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		service := account.NewService(auth.NewUserRepository(pool), uniqueid.New(), log)
		user, created, err := service.EnsureAdmin(ctx, adminEmail, adminUsername)
		if err != nil {
			return err
		}

		log.Info("admin_ensured",
			slog.String("username", user.Username),
			slog.Bool("created", created),
		)

		output := map[string]any{"username": user.Username, "email": user.Email, "created": created}

		if adminToken {
			tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
			if err != nil {
				return fmt.Errorf("initialize token service: %w", err)
			}

			access, err := tokens.GenerateAccessToken(user.Subject(), cfg.AccessTokenTTL)
			if err != nil {
				return err
			}
			refresh, err := tokens.GenerateRefreshToken(user.Subject(), cfg.RefreshTokenTTL)
			if err != nil {
				return err
			}
			output["token"] = access
			output["refresh"] = refresh
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "administrator email (required)")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "username, derived from the email when empty")
	createAdminCmd.Flags().BoolVar(&adminToken, "token", false, "print an access and refresh token pair")
}
