// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/service"
	"github.com/openlims/labsync/models"
)

// mockWorker tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run(context.Context) {
	m.runCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	New(w1, w2, w3).Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.Equal(t, 1, w.runCount, "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	// Should not panic on an empty workers list.
	New().Run(context.Background())
}

// fakeSyncService counts scheduled rounds via channels so tests can wait
// for ticks without sleeping.
type fakeSyncService struct {
	pulls  chan struct{}
	pushes chan struct{}
}

func newFakeSyncService() *fakeSyncService {
	return &fakeSyncService{
		pulls:  make(chan struct{}, 64),
		pushes: make(chan struct{}, 64),
	}
}

func (f *fakeSyncService) PullAll(context.Context, service.PullOptions) (models.PullResult, error) {
	f.pulls <- struct{}{}
	return models.PullResult{Success: true}, nil
}

func (f *fakeSyncService) PushAll(context.Context, service.PushOptions) (models.PushResult, error) {
	f.pushes <- struct{}{}
	return models.PushResult{Success: true}, nil
}

func (f *fakeSyncService) TestAuth(context.Context, int64) (models.RemoteInfo, error) {
	return models.RemoteInfo{}, nil
}

func waitSignal(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestSyncWorker_RunsImmediatelyAndOnTicks(t *testing.T) {
	fake := newFakeSyncService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewSyncWorker(fake, config.Workers{
		RemoteHostID: 1,
		UserID:       1,
		Interval:     10 * time.Millisecond,
	}, logger.Nop())
	worker.Run(ctx)

	// One immediate round, then at least one tick-driven round.
	waitSignal(t, fake.pulls, "first pull")
	waitSignal(t, fake.pulls, "second pull")

	// Push disabled: no push rounds happen.
	select {
	case <-fake.pushes:
		t.Fatal("push ran although disabled")
	default:
	}
}

func TestSyncWorker_PushesWhenEnabled(t *testing.T) {
	fake := newFakeSyncService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewSyncWorker(fake, config.Workers{
		RemoteHostID: 1,
		UserID:       1,
		Interval:     10 * time.Millisecond,
		Push:         true,
	}, logger.Nop())
	worker.Run(ctx)

	waitSignal(t, fake.pulls, "pull")
	waitSignal(t, fake.pushes, "push")
}

func TestSyncWorker_StopsOnContextCancel(t *testing.T) {
	fake := newFakeSyncService()
	ctx, cancel := context.WithCancel(context.Background())

	worker := NewSyncWorker(fake, config.Workers{
		RemoteHostID: 1,
		UserID:       1,
		Interval:     10 * time.Millisecond,
	}, logger.Nop())
	worker.Run(ctx)

	waitSignal(t, fake.pulls, "first pull")
	cancel()

	// Drain anything already in flight, then confirm the loop went quiet.
	time.Sleep(50 * time.Millisecond)
	for len(fake.pulls) > 0 {
		<-fake.pulls
	}
	time.Sleep(50 * time.Millisecond)
	require.Empty(t, fake.pulls)
}
