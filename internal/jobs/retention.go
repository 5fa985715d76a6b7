package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SearchLogStore deletes search log rows older than a cutoff.
type SearchLogStore interface {
	DeleteSearchLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneRecorder receives the number of rows removed per run.
type PruneRecorder interface {
	RecordSearchLogsPruned(n int64)
}

// SearchLogRetention removes search analytics older than the retention window.
type SearchLogRetention struct {
	store     SearchLogStore
	retention time.Duration
	recorder  PruneRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewSearchLogRetention creates a retention processor. recorder may be nil.
func NewSearchLogRetention(store SearchLogStore, retention time.Duration, recorder PruneRecorder, logger *zap.Logger) *SearchLogRetention {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchLogRetention{
		store:     store,
		retention: retention,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessJobs deletes every search log created before now minus retention.
func (r *SearchLogRetention) ProcessJobs(ctx context.Context) error {
	cutoff := r.now().UTC().Add(-r.retention)

	n, err := r.store.DeleteSearchLogsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune search logs: %w", err)
	}

	if r.recorder != nil {
		r.recorder.RecordSearchLogsPruned(n)
	}
	if n > 0 {
		r.logger.Info("pruned search logs", zap.Int64("rows", n), zap.Time("cutoff", cutoff))
	}
	return nil
}
