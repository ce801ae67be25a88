package worker

import (
	"context"
	"time"

	"grocery-api/internal/util"

	"go.uber.org/zap"
)

// OrderReaper is the slice of the store the retention worker needs.
type OrderReaper interface {
	DeleteOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker removes orders older than the retention window. It stands
// in for a document store's TTL index: expiry is configured once at startup
// and runs independently of request handling.
type RetentionWorker struct {
	store     OrderReaper
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

// NewRetentionWorker creates a retention worker. The sweep interval is hourly.
func NewRetentionWorker(store OrderReaper, retention time.Duration) *RetentionWorker {
	return &RetentionWorker{
		store:     store,
		retention: retention,
		interval:  time.Hour,
		logger:    util.Named("retention"),
	}
}

// Start runs the sweep loop until the context is cancelled. One sweep runs
// immediately so a long-stopped instance catches up on startup.
func (w *RetentionWorker) Start(ctx context.Context) {
	w.logger.Info("Starting order retention worker",
		zap.Duration("retention", w.retention),
		zap.Duration("interval", w.interval))

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Retention worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetentionWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.retention)

	deleted, err := w.store.DeleteOrdersBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error("Retention sweep failed", zap.Error(err))
		return
	}

	if deleted > 0 {
		util.OrdersExpiredTotal.Add(float64(deleted))
		w.logger.Info("Expired orders removed",
			zap.Int64("count", deleted),
			zap.Time("cutoff", cutoff))
	}
}
