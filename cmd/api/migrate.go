// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"github.com/spf13/cobra"

	"github.com/taibuivan/reviewboard/internal/platform/migration"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back the SQL migrations embedded in the binary, or the
directory named by MIGRATION_PATH when it is set.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := bootstrap()
		if err != nil {
			return err
		}
		return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := bootstrap()
		if err != nil {
			return err
		}
		return migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, migrateSteps, log)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := bootstrap()
		if err != nil {
			return err
		}

		status, err := migration.Current(cfg.DatabaseURL, cfg.MigrationPath, log)
		if err != nil {
			return err
		}

		switch {
		case status.Empty:
			cmd.Println("no migrations applied")
		case status.Dirty:
			cmd.Printf("version %d (dirty)\n", status.Version)
		default:
			cmd.Printf("version %d\n", status.Version)
		}
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
