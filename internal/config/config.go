// Package config loads application configuration from environment
// variables, with optional .env file support for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOOKSTORE_"

// Config is the root configuration object. Every field maps to an
// environment variable with the BOOKSTORE_ prefix, e.g.
// BOOKSTORE_SERVER_ADDR -> ServerAddr.
type Config struct {
	ServerAddr   string `koanf:"server_addr"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout int    `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"gt=0"`

	// DatabaseDriver selects the storage backend: "sqlite" (embedded,
	// file at DatabasePath) or "postgres" (server at DatabaseDSN).
	DatabaseDriver string `koanf:"database_driver" validate:"required,oneof=sqlite postgres"`
	DatabasePath   string `koanf:"database_path" validate:"required_if=DatabaseDriver sqlite"`
	DatabaseDSN    string `koanf:"database_dsn" validate:"required_if=DatabaseDriver postgres"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Load reads BOOKSTORE_-prefixed environment variables, applies defaults,
// and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		ServerAddr:     ":8080",
		ReadTimeout:    5,
		WriteTimeout:   10,
		IdleTimeout:    60,
		DatabaseDriver: "sqlite",
		DatabasePath:   "books.db",
		LogLevel:       "info",
		LogFormat:      "console",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
