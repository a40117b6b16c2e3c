package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/saferoute/vault/internal/metrics"
)

// DefaultReaperInterval is the sweep period used when none is configured.
const DefaultReaperInterval = 10 * time.Second

// Reaper periodically purges expired records from a RecordRepository.
type Reaper struct {
	interval time.Duration
	repo     RecordRepository
	metrics  metrics.StoreMetrics
	logger   *slog.Logger
}

// NewReaper creates a new Reaper. A non-positive interval falls back to DefaultReaperInterval.
func NewReaper(
	interval time.Duration,
	repo RecordRepository,
	storeMetrics metrics.StoreMetrics,
	logger *slog.Logger,
) *Reaper {
	if interval <= 0 {
		interval = DefaultReaperInterval
	}
	if storeMetrics == nil {
		storeMetrics = metrics.NewNoOpStoreMetrics()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reaper{interval: interval, repo: repo, metrics: storeMetrics, logger: logger}
}

// Start runs RunOnce every interval until ctx is done, then returns ctx.Err().
// A failed sweep is logged and the loop continues.
func (r *Reaper) Start(ctx context.Context) error {
	r.logger.Info("starting record reaper", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping record reaper")
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("failed to purge expired records", slog.Any("error", err))
			}
		}
	}
}

// RunOnce purges expired records once.
func (r *Reaper) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := r.repo.DeleteExpired(ctx)
	r.metrics.RecordPurged(ctx, deleted)
	if err != nil {
		return deleted, err
	}

	if deleted > 0 {
		r.logger.Debug("purged expired records", slog.Int64("count", deleted))
	}
	return deleted, nil
}
