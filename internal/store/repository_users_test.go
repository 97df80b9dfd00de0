package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlims/labsync/internal/logger"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DB{DB: conn, driver: "pgx", logger: logger.Nop()}, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	rows := sqlmock.NewRows([]string{"id", "username", "name"}).
		AddRow(int64(5), "curator", "Lab Curator")
	mock.ExpectQuery(`SELECT id, username, name FROM users WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "curator", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT id, username, name FROM users`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name"}))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_FindByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	rows := sqlmock.NewRows([]string{"id", "username", "name"}).
		AddRow(int64(2), "operator", "")
	mock.ExpectQuery(`SELECT u.id, u.username, u.name FROM access_tokens t JOIN users u ON u.id = t.user_id WHERE t.token = \$1`).
		WithArgs("tok-abc").
		WillReturnRows(rows)

	u, err := repo.FindByToken(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)
}

func TestUserRepository_FindByToken_Unknown(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT u.id, u.username, u.name FROM access_tokens`).
		WithArgs("bogus").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name"}))

	_, err := repo.FindByToken(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoteHostRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRemoteHostRepository(db, logger.Nop())

	rows := sqlmock.NewRows([]string{"id", "name", "host", "port", "protocol", "encrypted_token"}).
		AddRow(int64(1), "central", "lims.example.org", 0, "https", []byte{0x01})
	mock.ExpectQuery(`SELECT id, name, host, port, protocol, encrypted_token FROM remote_hosts WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	h, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://lims.example.org", h.BaseURL())
	assert.True(t, h.HasToken())
}

func TestRemoteHostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRemoteHostRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT id, name, host, port, protocol, encrypted_token FROM remote_hosts`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "host", "port", "protocol", "encrypted_token"}))

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrHostNotFound)
}
