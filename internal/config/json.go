// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration so JSON config files can use human-readable
// values like "30s" or "5m".
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a duration string ("30s") or a number of
// nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
}

// jsonConfig mirrors [Config] with [Duration] in place of time.Duration so
// that config files stay human-readable.
type jsonConfig struct {
	App struct {
		SecretKey string `json:"secret_key"`
		LogLevel  string `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Sync struct {
		ConnectTimeout Duration `json:"connect_timeout"`
		RequestTimeout Duration `json:"request_timeout"`
		PageLimit      int      `json:"page_limit"`
	} `json:"sync,omitempty"`

	Workers struct {
		Enabled      bool     `json:"enabled"`
		RemoteHostID int64    `json:"remote_host_id"`
		UserID       int64    `json:"user_id"`
		Interval     Duration `json:"interval"`
		Push         bool     `json:"push"`
	} `json:"workers,omitempty"`
}

// parseJSON reads the JSON config file at jsonFilePath and converts it into
// a [Config] suitable for merging.
func parseJSON(jsonFilePath string) (*Config, error) {
	payload, err := os.ReadFile(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json config file: %w", err)
	}

	var jc jsonConfig
	if err = json.Unmarshal(payload, &jc); err != nil {
		return nil, fmt.Errorf("error decoding json config: %w", err)
	}

	cfg := &Config{}
	cfg.App.SecretKey = jc.App.SecretKey
	cfg.App.LogLevel = jc.App.LogLevel
	cfg.Storage.DB.Driver = jc.Storage.DB.Driver
	cfg.Storage.DB.DSN = jc.Storage.DB.DSN
	cfg.Server.HTTPAddress = jc.Server.HTTPAddress
	cfg.Server.ShutdownTimeout = jc.Server.ShutdownTimeout.Duration
	cfg.Sync.ConnectTimeout = jc.Sync.ConnectTimeout.Duration
	cfg.Sync.RequestTimeout = jc.Sync.RequestTimeout.Duration
	cfg.Sync.PageLimit = jc.Sync.PageLimit
	cfg.Workers.Enabled = jc.Workers.Enabled
	cfg.Workers.RemoteHostID = jc.Workers.RemoteHostID
	cfg.Workers.UserID = jc.Workers.UserID
	cfg.Workers.Interval = jc.Workers.Interval.Duration
	cfg.Workers.Push = jc.Workers.Push

	return cfg, nil
}
