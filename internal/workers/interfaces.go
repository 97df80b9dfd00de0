// SPDX-License-Identifier: Apache-2.0

// Package workers provides abstractions for managing and running background
// workers, most importantly the scheduled sync worker that keeps this node
// converging with its configured peer without manual pull/push runs.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker's execution. Implementations are expected to spawn
// their goroutines internally and return; they stop when ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
