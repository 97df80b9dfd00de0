// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [Config] satisfies the invariants
// the rest of the application assumes at startup.
func (cfg *Config) validate() error {
	if cfg.App.SecretKey == "" {
		return ErrMissingSecretKey
	}

	if cfg.Storage.DB.Driver != "sqlite3" && cfg.Storage.DB.Driver != "pgx" {
		return ErrUnknownDBDriver
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrMissingDSN
	}

	if cfg.Workers.Enabled && (cfg.Workers.RemoteHostID == 0 || cfg.Workers.UserID == 0) {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
