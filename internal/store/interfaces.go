// SPDX-License-Identifier: Apache-2.0

// Package store implements the local object store the sync core reads and
// writes. Records of every syncable model live in one generic table keyed
// by model name and numeric id, with the domain payload as a JSON object.
// Both the sqlite3 and pgx drivers are supported.
package store

import (
	"context"
	"time"

	"github.com/openlims/labsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordFilter selects push/query candidates. Model is required; every
// other field narrows the selection when set.
type RecordFilter struct {
	Model          string
	OwnerID        *int64
	ExcludeVaulted bool
	ModifiedSince  *time.Time
	Limit          int
}

// RecordRepository is the generic per-model accessor over the records
// table. Implementations must keep iteration order stable for a given
// query (List orders by id).
type RecordRepository interface {
	// List returns records matching f in ascending id order.
	List(ctx context.Context, f RecordFilter) ([]models.Record, error)

	// GetByID returns the record of the given model and local id.
	// Returns [ErrRecordNotFound] if absent.
	GetByID(ctx context.Context, model string, id int64) (models.Record, error)

	// FindByOrigin looks a replica up by its (remote_id, remote_host)
	// composite origin key. Returns [ErrRecordNotFound] if absent.
	FindByOrigin(ctx context.Context, model string, remoteID, remoteHostID int64) (models.Record, error)

	// FindByClientRef looks a record up by its correlation id. Used by the
	// peer API to deduplicate retried creates. Returns [ErrRecordNotFound]
	// if absent.
	FindByClientRef(ctx context.Context, model, clientRef string) (models.Record, error)

	// Create inserts rec and returns it with store-assigned ID, ClientRef
	// (generated when empty), CreatedAt and UpdatedAt.
	Create(ctx context.Context, rec models.Record) (models.Record, error)

	// Update rewrites the mutable columns of rec (fields, owner, vaulted,
	// origin) and stamps a fresh UpdatedAt. Returns [ErrRecordNotFound] if
	// the record no longer exists.
	Update(ctx context.Context, rec models.Record) (models.Record, error)

	// StampOrigin sets the (remote_id, remote_host) origin of a record
	// after a successful remote create. It deliberately leaves UpdatedAt
	// untouched so the stamp does not make the local copy look newer than
	// the remote one it was just pushed to.
	StampOrigin(ctx context.Context, model string, id, remoteID, remoteHostID int64) error

	// InTx runs fn against a transaction-bound repository. A non-nil error
	// from fn rolls the whole batch back.
	InTx(ctx context.Context, fn func(RecordRepository) error) error
}

// RemoteHostRepository reads peer descriptors. Hosts are created and edited
// by administrative tooling; the sync core only reads them and rotates
// their stored credentials.
type RemoteHostRepository interface {
	GetByID(ctx context.Context, id int64) (models.RemoteHost, error)
	List(ctx context.Context) ([]models.RemoteHost, error)

	// SaveToken replaces the encrypted bearer token stored for a peer.
	// Returns [ErrHostNotFound] if no peer with the given id exists.
	SaveToken(ctx context.Context, id int64, encryptedToken []byte) error
}

// UserRepository resolves local accounts, including token authentication
// for the peer-facing API.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
	FindByToken(ctx context.Context, token string) (models.User, error)
}

// Storages aggregates every repository over one database handle.
type Storages struct {
	Records     RecordRepository
	RemoteHosts RemoteHostRepository
	Users       UserRepository
}
