// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/migrations"
)

// DB wraps the sql.DB handle together with the driver name, which decides
// placeholder style and insert-id retrieval in the repositories.
type DB struct {
	*sql.DB
	driver string
	logger *logger.Logger
}

// Open connects to the object store described by cfg, pings it, and brings
// the schema up to date: goose migrations for pgx, the embedded bootstrap
// schema for sqlite3.
func Open(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		log.Err(err).Str("driver", cfg.Driver).Msg("error opening database")
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Driver == "sqlite3" {
		// sqlite serializes writers; more connections just contend.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Msg("error connecting database (ping)")
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: conn, driver: cfg.Driver, logger: log}
	if err = db.migrate(); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("connected to object store")
	return db, nil
}

func (db *DB) migrate() error {
	if db.driver == "pgx" {
		return migrations.Migrate(db.DB)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("bootstrap sqlite schema: %w", err)
	}
	return nil
}

// Builder returns a squirrel statement builder with the placeholder format
// the active driver expects.
func (db *DB) Builder() sq.StatementBuilderType {
	if db.driver == "pgx" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// runner is the subset of *sql.DB / *sql.Tx the repositories execute
// against; binding a repository to a *sql.Tx is how InTx works.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isUniqueViolation recognizes unique-constraint errors from both drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS access_tokens (
    token TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS remote_hosts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    host TEXT NOT NULL,
    port INTEGER NOT NULL DEFAULT 0,
    protocol TEXT NOT NULL DEFAULT 'https',
    encrypted_token BLOB
);

CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    model TEXT NOT NULL,
    remote_id INTEGER,
    remote_host_id INTEGER REFERENCES remote_hosts (id),
    owner_id INTEGER REFERENCES users (id),
    vaulted BOOLEAN NOT NULL DEFAULT 0,
    client_ref TEXT NOT NULL,
    fields TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS records_origin_uniq
    ON records (model, remote_id, remote_host_id)
    WHERE remote_id IS NOT NULL AND remote_host_id IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS records_client_ref_uniq
    ON records (model, client_ref);

CREATE INDEX IF NOT EXISTS records_model_owner_idx ON records (model, owner_id);
CREATE INDEX IF NOT EXISTS records_model_updated_idx ON records (model, updated_at);
`
