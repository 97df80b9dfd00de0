// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlims/labsync/internal/adapter"
	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/crypto"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/service"
	"github.com/openlims/labsync/models"
)

// registerPeer stores node B as a remote host in node A's store, with the
// peer token encrypted the way production does it.
func registerPeer(t *testing.T, a *testNode, cipher crypto.TokenCipher, serverURL, token string) int64 {
	t.Helper()

	parsed, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	res, err := a.db.ExecContext(context.Background(),
		`INSERT INTO remote_hosts (name, host, port, protocol) VALUES (?, ?, ?, ?)`,
		"peer-b", parsed.Hostname(), port, parsed.Scheme)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt(token)
	require.NoError(t, err)
	require.NoError(t, a.storages.RemoteHosts.SaveToken(context.Background(), id, encrypted))

	return id
}

func newPeerSyncService(t *testing.T, a *testNode, cipher crypto.TokenCipher) service.SyncService {
	t.Helper()

	syncCfg := config.Sync{ConnectTimeout: 5 * time.Second, RequestTimeout: 10 * time.Second}
	factory := adapter.NewFactory(cipher, syncCfg, logger.Nop())
	return service.NewSyncService(a.storages, service.DefaultRegistry(), factory, logger.Nop())
}

// Two real nodes, real HTTP in between. Node A pulls node B's native data,
// ends up with vaulted replicas, and neither re-imports on a second run nor
// ever pushes the replicas back out.
func TestSyncRoundTrip_Pull(t *testing.T) {
	nodeA := newTestNode(t)
	nodeB := newTestNode(t)

	aliceID := nodeA.seedUser(t, "alice", "tok-alice")
	bobID := nodeB.seedUser(t, "bob", "tok-bob")

	cipher, err := crypto.NewTokenCipher("roundtrip-secret")
	require.NoError(t, err)

	hostID := registerPeer(t, nodeA, cipher, nodeB.server.URL, "tok-bob")
	svc := newPeerSyncService(t, nodeA, cipher)

	ctx := context.Background()

	remote, err := nodeB.storages.Records.Create(ctx, models.Record{
		Model:   "protocol",
		OwnerID: &bobID,
		Fields:  map[string]any{"protocol_title": "bob's protocol"},
	})
	require.NoError(t, err)

	result, err := svc.PullAll(ctx, service.PullOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Summary.TotalPulled)

	replica, err := nodeA.storages.Records.FindByOrigin(ctx, "protocol", remote.ID, hostID)
	require.NoError(t, err)
	assert.True(t, replica.Vaulted)
	assert.Equal(t, "bob's protocol", replica.Fields["protocol_title"])
	require.NotNil(t, replica.OwnerID)
	assert.Equal(t, aliceID, *replica.OwnerID)

	// Second pull: the replica is up to date, so nothing moves.
	again, err := svc.PullAll(ctx, service.PullOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
	})
	require.NoError(t, err)
	assert.Zero(t, again.Summary.TotalPulled)
	assert.Equal(t, 1, again.Models["protocol"].Skipped)

	// An edit on B flows into the existing replica instead of a new row.
	remote.Fields = map[string]any{"protocol_title": "bob's protocol v2"}
	_, err = nodeB.storages.Records.Update(ctx, remote)
	require.NoError(t, err)

	third, err := svc.PullAll(ctx, service.PullOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Models["protocol"].Updated)

	refreshed, err := nodeA.storages.Records.GetByID(ctx, "protocol", replica.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob's protocol v2", refreshed.Fields["protocol_title"])

	// Vaulted replicas are never push candidates.
	pushed, err := svc.PushAll(ctx, service.PushOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
	})
	require.NoError(t, err)
	require.True(t, pushed.Success)
	assert.Zero(t, pushed.Summary.TotalPushed)
}

// Node A pushes a native record to node B. The create is deduplicated by
// client_ref, the origin stamp links the two copies, and a second push
// resolves against B's fresher timestamp instead of creating a twin.
func TestSyncRoundTrip_Push(t *testing.T) {
	nodeA := newTestNode(t)
	nodeB := newTestNode(t)

	aliceID := nodeA.seedUser(t, "alice", "tok-alice")
	bobID := nodeB.seedUser(t, "bob", "tok-bob")

	cipher, err := crypto.NewTokenCipher("roundtrip-secret")
	require.NoError(t, err)

	hostID := registerPeer(t, nodeA, cipher, nodeB.server.URL, "tok-bob")
	svc := newPeerSyncService(t, nodeA, cipher)

	ctx := context.Background()

	native, err := nodeA.storages.Records.Create(ctx, models.Record{
		Model:   "protocol",
		OwnerID: &aliceID,
		Fields:  map[string]any{"protocol_title": "shared protocol"},
	})
	require.NoError(t, err)

	result, err := svc.PushAll(ctx, service.PushOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Summary.TotalPushed)

	// B holds the record natively, owned by the token user.
	remote, err := nodeB.storages.Records.FindByClientRef(ctx, "protocol", native.ClientRef)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"protocol_title": "shared protocol"}, remote.Fields)
	require.NotNil(t, remote.OwnerID)
	assert.Equal(t, bobID, *remote.OwnerID)
	assert.False(t, remote.Vaulted)

	// A's record is stamped with its remote origin.
	stamped, err := nodeA.storages.Records.GetByID(ctx, "protocol", native.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.RemoteID)
	assert.Equal(t, remote.ID, *stamped.RemoteID)
	require.NotNil(t, stamped.RemoteHostID)
	assert.Equal(t, hostID, *stamped.RemoteHostID)

	// Second push: B's copy carries the later create timestamp, so the
	// default strategy records a conflict skip rather than a twin create.
	again, err := svc.PushAll(ctx, service.PushOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
	})
	require.NoError(t, err)
	require.True(t, again.Success)
	assert.Zero(t, again.Summary.TotalPushed)
	modelResult := again.Models["protocol"]
	assert.Equal(t, 1, modelResult.Skipped)
	require.Len(t, modelResult.Conflicts, 1)
	assert.Equal(t, native.ID, modelResult.Conflicts[0].LocalID)

	// A local edit makes A newer; force_push then overwrites B.
	stamped.Fields = map[string]any{"protocol_title": "shared protocol v2"}
	_, err = nodeA.storages.Records.Update(ctx, stamped)
	require.NoError(t, err)

	forced, err := svc.PushAll(ctx, service.PushOptions{
		RemoteHostID: hostID,
		UserID:       aliceID,
		Models:       []string{"protocol"},
		Strategy:     models.StrategyForcePush,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, forced.Models["protocol"].Updated)

	overwritten, err := nodeB.storages.Records.GetByID(ctx, "protocol", remote.ID)
	require.NoError(t, err)
	assert.Equal(t, "shared protocol v2", overwritten.Fields["protocol_title"])
}
