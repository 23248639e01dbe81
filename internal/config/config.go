// Package config loads server settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string        `env:"SHEET_HTTP_ADDR" envDefault:":8080"`
	DatabaseURL  string        `env:"SHEET_DATABASE_URL"`
	JWTSecret    string        `env:"SHEET_JWT_SECRET"`
	TokenTTL     time.Duration `env:"SHEET_TOKEN_TTL" envDefault:"12h"`
	LogFormat    string        `env:"SHEET_LOG_FORMAT" envDefault:"json"`
	LogLevel     string        `env:"SHEET_LOG_LEVEL" envDefault:"info"`
	OutboxSize   int           `env:"SHEET_OUTBOX_SIZE" envDefault:"64"`
	WriteTimeout time.Duration `env:"SHEET_WRITE_TIMEOUT" envDefault:"3s"`
	PingInterval time.Duration `env:"SHEET_PING_INTERVAL" envDefault:"25s"`
}

// Load reads files (default ".env") into the process environment without
// overriding variables already set, then parses Config. Missing files are
// skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads Config from the environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// InMemory reports whether no database is configured.
func (c Config) InMemory() bool { return c.DatabaseURL == "" }

// Validate checks the settings serve needs.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("SHEET_JWT_SECRET is required"))
	}
	if c.OutboxSize < 1 {
		errs = append(errs, fmt.Errorf("SHEET_OUTBOX_SIZE must be positive, got %d", c.OutboxSize))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("SHEET_WRITE_TIMEOUT must be positive"))
	}
	if c.PingInterval <= 0 {
		errs = append(errs, errors.New("SHEET_PING_INTERVAL must be positive"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("SHEET_LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
