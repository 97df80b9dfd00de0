// SPDX-License-Identifier: Apache-2.0

// Package config loads labsync configuration from environment variables and
// an optional JSON file, merged in that order of precedence via a small
// builder. CLI-level options (host id, model selection, dry-run, ...) are
// parsed by the cobra commands and are not part of this package.
package config

import (
	"time"
)

// Config is the top-level configuration container for labsync.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type Config struct {
	// App holds application-level settings, most importantly the secret the
	// peer-token cipher derives its key from.
	App App `envPrefix:"APP_"`

	// Storage holds the object-store connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network settings for the peer-facing HTTP API
	// (serve command only).
	Server Server `envPrefix:"SERVER_"`

	// Sync holds HTTP-client tuning for outbound peer calls.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds settings for the optional scheduled sync worker.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file that
	// is merged on top of the environment. Populated via the LABSYNC_CONFIG
	// environment variable or the --config CLI flag.
	JSONFilePath string `env:"LABSYNC_CONFIG"`
}

// App holds application-level configuration.
type App struct {
	// SecretKey is the secret from which the peer-token encryption key is
	// derived. Must be kept confidential and stable: rotating it
	// invalidates every stored peer token.
	// Env: APP_SECRET_KEY
	SecretKey string `env:"SECRET_KEY" json:"secret_key"`

	// LogLevel is the zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" json:"log_level"`
}

// Storage holds the object-store settings.
type Storage struct {
	DB DB `envPrefix:"DB_" json:"db"`
}

// DB selects and configures the SQL driver backing the object store.
type DB struct {
	// Driver is "sqlite3" (default) or "pgx".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER" json:"driver"`

	// DSN is the driver-specific connection string: a file path (or
	// ":memory:") for sqlite3, a postgres URI for pgx.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN" json:"dsn"`
}

// Server holds peer-facing HTTP API settings.
type Server struct {
	// HTTPAddress is the listen address, e.g. ":8600".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"http_address"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout"`
}

// Sync holds outbound HTTP-client tuning. The connect probe uses
// ConnectTimeout; every other peer call inherits RequestTimeout.
type Sync struct {
	// Env: SYNC_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" json:"connect_timeout"`

	// Env: SYNC_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`

	// PageLimit is the default per-model object cap for pulls when the CLI
	// does not override it. Zero means no cap.
	// Env: SYNC_PAGE_LIMIT
	PageLimit int `env:"PAGE_LIMIT" json:"page_limit"`
}

// Workers configures the scheduled sync worker started by the serve
// command.
type Workers struct {
	// Env: WORKERS_ENABLED
	Enabled bool `env:"ENABLED" json:"enabled"`

	// RemoteHostID and UserID scope the scheduled runs.
	// Env: WORKERS_REMOTE_HOST_ID / WORKERS_USER_ID
	RemoteHostID int64 `env:"REMOTE_HOST_ID" json:"remote_host_id"`
	UserID       int64 `env:"USER_ID" json:"user_id"`

	// Interval between runs. Zero falls back to 15 minutes.
	// Env: WORKERS_INTERVAL
	Interval time.Duration `env:"INTERVAL" json:"interval"`

	// Push also pushes local changes after each scheduled pull.
	// Env: WORKERS_PUSH
	Push bool `env:"PUSH" json:"push"`
}

// applyDefaults fills in zero values the rest of the application assumes
// are set.
func (cfg *Config) applyDefaults() {
	if cfg.Storage.DB.Driver == "" {
		cfg.Storage.DB.Driver = "sqlite3"
	}
	if cfg.Sync.ConnectTimeout <= 0 {
		cfg.Sync.ConnectTimeout = 10 * time.Second
	}
	if cfg.Sync.RequestTimeout <= 0 {
		cfg.Sync.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
}
