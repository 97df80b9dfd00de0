// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	ErrMissingSecretKey     = errors.New("config: APP_SECRET_KEY is required")
	ErrUnknownDBDriver      = errors.New(`config: storage driver must be "sqlite3" or "pgx"`)
	ErrMissingDSN           = errors.New("config: storage DSN is required")
	ErrInvalidWorkerConfigs = errors.New("config: enabled worker requires remote host id and user id")
)
