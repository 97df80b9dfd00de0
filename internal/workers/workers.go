// SPDX-License-Identifier: Apache-2.0

package workers

import "context"

// Workers aggregates background workers and starts them in order.
type Workers struct {
	workers []Worker
}

// New collects workers into one aggregate.
func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker. Workers stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
