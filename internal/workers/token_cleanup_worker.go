package workers

import (
	"context"
	"time"

	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/metrics"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
)

const DefaultTokenCleanupInterval = time.Hour

const DefaultTokenRetention = 7 * 24 * time.Hour

// TokenCleanupWorker deletes single-use tokens once they are older than the validity
// window plus a retention period. Until then a dead token still answers as expired
// rather than unknown.
type TokenCleanupWorker struct {
	store     repositories.Store
	clock     clock.Clock
	ttl       time.Duration
	retention time.Duration
	interval  time.Duration
}

func NewTokenCleanupWorker(store repositories.Store, clk clock.Clock, ttl, retention, interval time.Duration) *TokenCleanupWorker {
	if interval <= 0 {
		interval = DefaultTokenCleanupInterval
	}
	if retention <= 0 {
		retention = DefaultTokenRetention
	}
	return &TokenCleanupWorker{store: store, clock: clk, ttl: ttl, retention: retention, interval: interval}
}

// Start runs the cleanup loop in the background until ctx is cancelled.
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *TokenCleanupWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("token_cleanup", "stop", nil)
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce purges every token table and returns the number of rows removed.
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) int64 {
	cutoff := w.clock.Now().Add(-(w.ttl + w.retention))

	var total int64
	for _, purpose := range models.TokenPurposes {
		n, err := w.store.Tokens().DeleteStale(ctx, purpose, cutoff)
		if err != nil {
			logger.WorkerLog("token_cleanup", "delete_stale", err, "purpose", string(purpose))
			continue
		}
		if n > 0 {
			metrics.TokensPurged.WithLabelValues(string(purpose)).Add(float64(n))
			logger.WorkerLog("token_cleanup", "delete_stale", nil, "purpose", string(purpose), "deleted", n)
		}
		total += n
	}
	return total
}
