// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"

	"github.com/openlims/labsync/internal/adapter"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/store"
	"github.com/openlims/labsync/models"
)

// syncService implements [SyncService].
type syncService struct {
	storages *store.Storages
	registry *Registry
	clients  adapter.Factory
	logger   *logger.Logger
}

// NewSyncService wires the orchestrator with its store, model registry and
// peer-client factory.
func NewSyncService(storages *store.Storages, registry *Registry, clients adapter.Factory, log *logger.Logger) SyncService {
	return &syncService{
		storages: storages,
		registry: registry,
		clients:  clients,
		logger:   log,
	}
}

// session is one authenticated peer connection plus the local identities a
// run operates as. Close releases the underlying client and zeroes its
// decrypted token.
type session struct {
	host     models.RemoteHost
	user     models.User
	client   adapter.PeerClient
	identity models.RemoteIdentity
}

func (s *session) Close() { s.client.Close() }

// openSession loads the remote host and local user, builds a client and
// authenticates it. On any failure nothing is left open.
func (s *syncService) openSession(ctx context.Context, remoteHostID, userID int64) (*session, error) {
	host, err := s.storages.RemoteHosts.GetByID(ctx, remoteHostID)
	if err != nil {
		return nil, fmt.Errorf("load remote host %d: %w", remoteHostID, err)
	}

	user, err := s.storages.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	client := s.clients(host)
	identity, err := client.Authenticate(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}

	s.logger.Info().
		Str("remote_host", host.Name).
		Str("remote_user", identity.Username).
		Msg("peer session opened")

	return &session{host: host, user: user, client: client, identity: identity}, nil
}

// TestAuth implements [SyncService].
func (s *syncService) TestAuth(ctx context.Context, remoteHostID int64) (models.RemoteInfo, error) {
	host, err := s.storages.RemoteHosts.GetByID(ctx, remoteHostID)
	if err != nil {
		return models.RemoteInfo{}, fmt.Errorf("load remote host %d: %w", remoteHostID, err)
	}

	client := s.clients(host)
	defer client.Close()

	paths := make([]string, 0, len(s.registry.Names()))
	for _, name := range s.registry.Names() {
		paths = append(paths, s.registry.EndpointPath(name))
	}

	return client.RemoteInfo(ctx, paths)
}

// resolveModels validates the requested model list against the registry,
// defaulting to every registered model. Unknown names surface before any
// network traffic.
func (s *syncService) resolveModels(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return s.registry.Names(), nil
	}

	for _, name := range requested {
		if _, ok := s.registry.Caps(name); !ok {
			return nil, notSyncableError(name)
		}
	}
	return requested, nil
}

// numericID extracts an object id from a decoded JSON payload. JSON numbers
// decode as float64; handler-side maps may carry native integers.
func numericID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), true
	case int64:
		return id, true
	case int:
		return int64(id), true
	default:
		return 0, false
	}
}
