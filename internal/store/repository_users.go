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

// userRepository is the SQL implementation of [UserRepository].
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, log *logger.Logger) UserRepository {
	return &userRepository{db: db, logger: log}
}

// GetByID implements [UserRepository]. Returns [ErrUserNotFound] if no
// account with the given id exists.
func (r *userRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	query, args, err := r.db.Builder().
		Select("id", "username", "name").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build user query: %w", err)
	}

	var u models.User
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&u.ID, &u.Username, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// FindByToken implements [UserRepository]. It resolves the account a peer
// API token belongs to. Returns [ErrUserNotFound] for unknown tokens.
func (r *userRepository) FindByToken(ctx context.Context, token string) (models.User, error) {
	query, args, err := r.db.Builder().
		Select("u.id", "u.username", "u.name").
		From("access_tokens t").
		Join("users u ON u.id = t.user_id").
		Where(sq.Eq{"t.token": token}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build token query: %w", err)
	}

	var u models.User
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&u.ID, &u.Username, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by token: %w", err)
	}

	return u, nil
}
