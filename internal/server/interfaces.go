// SPDX-License-Identifier: Apache-2.0

// Package server manages the lifecycle of the peer-facing HTTP server
// started by the serve command.
package server

// Server defines the lifecycle contract for the transport server managed by
// this package.
//
// Implementations are expected to block in [RunServer] until shutdown is
// requested and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	// Safe to call more than once.
	Shutdown()
}
