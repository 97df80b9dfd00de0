package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_EnvOnly(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "env-secret")
	t.Setenv("STORAGE_DB_DSN", "labsync.db")
	t.Setenv("SYNC_REQUEST_TIMEOUT", "45s")

	cfg, err := GetConfig("")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.App.SecretKey)
	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, "labsync.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 45*time.Second, cfg.Sync.RequestTimeout)
	// untouched values fall back to defaults
	assert.Equal(t, 10*time.Second, cfg.Sync.ConnectTimeout)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestGetConfig_JSONFillsGaps(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "env-secret")
	t.Setenv("STORAGE_DB_DSN", "")

	path := filepath.Join(t.TempDir(), "labsync.json")
	payload := `{
		"app": {"secret_key": "json-secret", "log_level": "debug"},
		"storage": {"db": {"driver": "pgx", "dsn": "postgres://localhost/lims"}},
		"sync": {"request_timeout": "1m"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	cfg, err := GetConfig(path)
	require.NoError(t, err)

	// env wins where set, JSON fills the rest
	assert.Equal(t, "env-secret", cfg.App.SecretKey)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "pgx", cfg.Storage.DB.Driver)
	assert.Equal(t, "postgres://localhost/lims", cfg.Storage.DB.DSN)
	assert.Equal(t, time.Minute, cfg.Sync.RequestTimeout)
}

func TestGetConfig_MissingSecret(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "")
	t.Setenv("STORAGE_DB_DSN", "labsync.db")

	_, err := GetConfig("")
	assert.ErrorIs(t, err, ErrMissingSecretKey)
}

func TestGetConfig_UnknownDriver(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "s")
	t.Setenv("STORAGE_DB_DSN", "labsync.db")
	t.Setenv("STORAGE_DB_DRIVER", "oracle")

	_, err := GetConfig("")
	assert.ErrorIs(t, err, ErrUnknownDBDriver)
}

func TestGetConfig_WorkerValidation(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "s")
	t.Setenv("STORAGE_DB_DSN", "labsync.db")
	t.Setenv("WORKERS_ENABLED", "true")

	_, err := GetConfig("")
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

func TestGetConfig_BadJSONPath(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "s")
	t.Setenv("STORAGE_DB_DSN", "labsync.db")

	_, err := GetConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
