// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"time"

	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/service"
)

// defaultSyncInterval applies when the configuration leaves the interval
// unset.
const defaultSyncInterval = 15 * time.Minute

// syncWorker runs scheduled sync rounds against the configured peer: a pull
// on every tick, followed by a push when enabled. Failed rounds are logged
// and retried on the next tick.
type syncWorker struct {
	service service.SyncService
	cfg     config.Workers
	logger  *logger.Logger
}

// NewSyncWorker builds the scheduled sync worker. cfg must carry the remote
// host and user the rounds run as.
func NewSyncWorker(svc service.SyncService, cfg config.Workers, logger *logger.Logger) Worker {
	return &syncWorker{
		service: svc,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run implements [Worker].
func (w *syncWorker) Run(ctx context.Context) {
	interval := w.cfg.Interval
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	w.logger.Info().
		Dur("interval", interval).
		Int64("remote_host_id", w.cfg.RemoteHostID).
		Bool("push", w.cfg.Push).
		Msg("scheduled sync worker started")

	go w.loop(ctx, interval)
}

func (w *syncWorker) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("scheduled sync worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *syncWorker) runOnce(ctx context.Context) {
	pullResult, err := w.service.PullAll(ctx, service.PullOptions{
		RemoteHostID: w.cfg.RemoteHostID,
		UserID:       w.cfg.UserID,
	})
	if err != nil {
		w.logger.Err(err).Msg("scheduled pull failed")
		return
	}

	w.logger.Info().
		Bool("success", pullResult.Success).
		Int("pulled", pullResult.Summary.TotalPulled).
		Int("updated", pullResult.Summary.TotalUpdated).
		Int("errors", pullResult.Summary.TotalErrors).
		Msg("scheduled pull finished")

	if !w.cfg.Push {
		return
	}

	pushResult, err := w.service.PushAll(ctx, service.PushOptions{
		RemoteHostID: w.cfg.RemoteHostID,
		UserID:       w.cfg.UserID,
	})
	if err != nil {
		w.logger.Err(err).Msg("scheduled push failed")
		return
	}

	w.logger.Info().
		Bool("success", pushResult.Success).
		Int("pushed", pushResult.Summary.TotalPushed).
		Int("updated", pushResult.Summary.TotalUpdated).
		Int("errors", pushResult.Summary.TotalErrors).
		Msg("scheduled push finished")
}
