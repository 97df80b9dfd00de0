// SPDX-License-Identifier: Apache-2.0

// Package service implements the sync core: the conflict resolver, the
// syncable-model registry, and the orchestrator driving pull and push runs
// against one remote peer.
package service

import (
	"context"
	"time"

	"github.com/openlims/labsync/models"
)

// PullOptions scopes one pull run. Models defaults to the full registry;
// Limit caps objects fetched per model (0 = peer default). DryRun replays
// the decision logic without performing any local write.
type PullOptions struct {
	RemoteHostID int64
	UserID       int64
	Models       []string
	Limit        int
	DryRun       bool
}

// PushOptions scopes one push run. Strategy defaults to
// [models.StrategyTimestamp]. DryRun replays the decision logic (including
// read-only remote fetches) without performing any write on either side.
type PushOptions struct {
	RemoteHostID  int64
	UserID        int64
	Models        []string
	ModifiedSince *time.Time
	Strategy      models.ConflictStrategy
	Limit         int
	DryRun        bool
}

// SyncService orchestrates bidirectional replication with remote peers.
// Each call opens one authenticated peer session for its duration and
// guarantees its release on every exit path.
type SyncService interface {
	// PullAll imports objects from the peer for the requested models.
	// Authentication failure aborts the whole run with an
	// [*adapter.AuthError]; per-model failures are recorded in the result
	// and do not stop remaining models.
	PullAll(ctx context.Context, opts PullOptions) (models.PullResult, error)

	// PushAll exports eligible local objects to the peer. Vaulted replicas
	// are never pushed. Conflicts are reported separately from errors and
	// do not fail the run.
	PushAll(ctx context.Context, opts PushOptions) (models.PushResult, error)

	// TestAuth runs the diagnostic sequence against a peer: connectivity
	// probe, authentication, and per-endpoint access checks.
	TestAuth(ctx context.Context, remoteHostID int64) (models.RemoteInfo, error)
}
