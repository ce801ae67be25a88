package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReaper struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (f *fakeReaper) DeleteOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.err
}

func (f *fakeReaper) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestRetentionWorkerSweepsOnStart(t *testing.T) {
	reaper := &fakeReaper{deleted: 2}
	w := NewRetentionWorker(reaper, 30*24*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return reaper.calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	reaper.mu.Lock()
	defer reaper.mu.Unlock()
	require.Len(t, reaper.cutoffs, 1)
	// cutoff is now minus the retention window
	want := time.Now().Add(-30 * 24 * time.Hour)
	assert.WithinDuration(t, want, reaper.cutoffs[0], time.Minute)
}

func TestRetentionWorkerSweepsOnTicker(t *testing.T) {
	reaper := &fakeReaper{}
	w := NewRetentionWorker(reaper, 24*time.Hour)
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	assert.Eventually(t, func() bool { return reaper.calls() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRetentionWorkerSurvivesStoreErrors(t *testing.T) {
	reaper := &fakeReaper{err: errors.New("connection refused")}
	w := NewRetentionWorker(reaper, 24*time.Hour)
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// the loop keeps sweeping despite failures
	assert.Eventually(t, func() bool { return reaper.calls() >= 2 }, time.Second, 5*time.Millisecond)
}
