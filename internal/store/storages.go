// SPDX-License-Identifier: Apache-2.0

package store

import (
	"github.com/openlims/labsync/internal/logger"
)

// NewStorages wires every repository over one database handle.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Records:     NewRecordRepository(db, log),
		RemoteHosts: NewRemoteHostRepository(db, log),
		Users:       NewUserRepository(db, log),
	}
}
