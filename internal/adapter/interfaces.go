// SPDX-License-Identifier: Apache-2.0

// Package adapter implements the outbound HTTP session to one peer LIMS
// instance.
//
// The primary abstraction is [PeerClient]: one instance represents exactly
// one authenticated session to one remote host. Instances are not safe for
// concurrent use and must be closed when the sync run that opened them
// ends.
//
// Expected transport failures of the connectivity probe are reported as
// structured [models.ConnectionCheck] values, never as errors.
// Authentication failures carry an [*AuthError] with a machine-readable
// kind so callers can distinguish a missing token from bad credentials.
package adapter

import (
	"context"

	"github.com/openlims/labsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/peer_client_mock.go -package=mock

// PeerClient is one outbound session to one remote peer. Authenticate must
// succeed before any of the object operations are used.
type PeerClient interface {
	// TestConnection probes the peer's API root with a short timeout and
	// returns a structured result including round-trip time. It never
	// returns an error for expected network failure; the result's
	// ErrorKind distinguishes timeout, connection-refused, and other
	// transport failures.
	TestConnection(ctx context.Context) models.ConnectionCheck

	// Authenticate decrypts the stored peer token and verifies it against
	// the peer's whoami endpoint. Fails fast with kind "no_token" when the
	// peer has no stored token and "corrupted_token" when decryption
	// fails; HTTP 401 maps to "invalid_credentials" and any other non-200
	// status to "auth_request_failed". All failures are [*AuthError].
	Authenticate(ctx context.Context) (models.RemoteIdentity, error)

	// ListObjects fetches a page of objects from the model endpoint.
	// A paginated envelope ({"results": [...]}) and a bare JSON array are
	// treated as equivalent; an empty body yields zero objects, not an
	// error. limit <= 0 means no explicit limit parameter.
	ListObjects(ctx context.Context, path string, params map[string]string, limit int) ([]map[string]any, error)

	// GetObject fetches one object by its id on the peer. HTTP 404 maps to
	// [ErrRemoteNotFound]; any other non-200 status is a [*RequestError].
	GetObject(ctx context.Context, path string, remoteID int64) (map[string]any, error)

	// CreateObject POSTs payload to the model endpoint and returns the
	// created object, which includes the peer-assigned id.
	CreateObject(ctx context.Context, path string, payload map[string]any) (map[string]any, error)

	// UpdateObject PUTs payload to the object endpoint keyed by remoteID.
	UpdateObject(ctx context.Context, path string, remoteID int64, payload map[string]any) error

	// TestAPIAccess verifies that the authenticated session can read the
	// given model endpoint. Diagnostic helper for test-auth mode.
	TestAPIAccess(ctx context.Context, path string) error

	// RemoteInfo gathers diagnostic information about the peer: probe
	// outcome, authenticated identity, and which of the given endpoints
	// answered. Diagnostic helper for test-auth mode.
	RemoteInfo(ctx context.Context, paths []string) (models.RemoteInfo, error)

	// Close releases the session. Safe to call more than once.
	Close()
}

// Factory builds a [PeerClient] for one peer descriptor. The sync
// orchestrator takes a Factory so tests can substitute a mock session.
type Factory func(host models.RemoteHost) PeerClient
