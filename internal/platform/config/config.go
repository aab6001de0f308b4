// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads the server settings from the environment with
caarlos0/env. A .env file in the working directory is loaded first when it
exists; variables already set in the process win over it.

Required: DATABASE_URL, REDIS_URL, JWT_PRIVATE_KEY_PATH, JWT_PUBLIC_KEY_PATH.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the reviewboard API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Token lifetimes
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"      envDefault:"15m"`
	RefreshTokenTTL     time.Duration `env:"REFRESH_TOKEN_TTL"     envDefault:"720h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"24h"`

	// Outbound mail. An empty SMTPHost switches to the logging mailer.
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT"       envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	MailFrom      string `env:"MAIL_FROM"       envDefault:"noreply@reviewboard.local"`
	MailWorkers   int    `env:"MAIL_WORKERS"    envDefault:"2"`
	MailQueueSize int    `env:"MAIL_QUEUE_SIZE" envDefault:"256"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// # Loading

// Load applies an optional .env file and then calls [Parse].
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}
	return Parse()
}

// Parse maps the process environment onto a [Config] and checks value ranges.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []error

	if c.MailWorkers < 1 {
		problems = append(problems, fmt.Errorf("MAIL_WORKERS must be at least 1, got %d", c.MailWorkers))
	}
	if c.MailQueueSize < 1 {
		problems = append(problems, fmt.Errorf("MAIL_QUEUE_SIZE must be at least 1, got %d", c.MailQueueSize))
	}

	for name, ttl := range map[string]time.Duration{
		"ACCESS_TOKEN_TTL":      c.AccessTokenTTL,
		"REFRESH_TOKEN_TTL":     c.RefreshTokenTTL,
		"CONFIRMATION_CODE_TTL": c.ConfirmationCodeTTL,
	} {
		if ttl <= 0 {
			problems = append(problems, fmt.Errorf("%s must be positive, got %s", name, ttl))
		}
	}

	if c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535) {
		problems = append(problems, fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort))
	}

	return errors.Join(problems...)
}

// CORSOrigins opens every origin in development when none are configured.
func (c *Config) CORSOrigins() []string {
	if len(c.AllowedOrigins) == 0 && c.IsDevelopment() {
		return []string{"*"}
	}
	return c.AllowedOrigins
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
