// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/models"
)

// remoteHostRepository is the SQL implementation of [RemoteHostRepository].
type remoteHostRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRemoteHostRepository constructs a [RemoteHostRepository] backed by db.
func NewRemoteHostRepository(db *DB, log *logger.Logger) RemoteHostRepository {
	return &remoteHostRepository{db: db, logger: log}
}

// GetByID implements [RemoteHostRepository]. Returns [ErrHostNotFound] if
// no peer with the given id exists.
func (r *remoteHostRepository) GetByID(ctx context.Context, id int64) (models.RemoteHost, error) {
	query, args, err := r.db.Builder().
		Select("id", "name", "host", "port", "protocol", "encrypted_token").
		From("remote_hosts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.RemoteHost{}, fmt.Errorf("build host query: %w", err)
	}

	var h models.RemoteHost
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&h.ID, &h.Name, &h.Host, &h.Port, &h.Protocol, &h.EncryptedToken)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteHost{}, ErrHostNotFound
	}
	if err != nil {
		return models.RemoteHost{}, fmt.Errorf("get remote host: %w", err)
	}

	return h, nil
}

// List implements [RemoteHostRepository].
func (r *remoteHostRepository) List(ctx context.Context) ([]models.RemoteHost, error) {
	query, args, err := r.db.Builder().
		Select("id", "name", "host", "port", "protocol", "encrypted_token").
		From("remote_hosts").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build hosts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list remote hosts: %w", err)
	}
	defer rows.Close()

	var out []models.RemoteHost
	for rows.Next() {
		var h models.RemoteHost
		if err = rows.Scan(&h.ID, &h.Name, &h.Host, &h.Port, &h.Protocol, &h.EncryptedToken); err != nil {
			return nil, fmt.Errorf("scan remote host: %w", err)
		}
		out = append(out, h)
	}

	return out, rows.Err()
}

// SaveToken implements [RemoteHostRepository].
func (r *remoteHostRepository) SaveToken(ctx context.Context, id int64, encryptedToken []byte) error {
	query, args, err := r.db.Builder().
		Update("remote_hosts").
		Set("encrypted_token", encryptedToken).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build token update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save host token: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save host token: %w", err)
	}
	if affected == 0 {
		return ErrHostNotFound
	}

	return nil
}
