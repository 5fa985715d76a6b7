package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/service"
)

// SearchLogRepository stores search logs for evaluation/feedback loops.
type SearchLogRepository struct {
	pool *pgxpool.Pool
}

func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{pool: pool}
}

func (r *SearchLogRepository) CreateSearchLog(ctx context.Context, entry service.SearchLogEntry) error {
	resultIDs := entry.ResultIDs
	if resultIDs == nil {
		resultIDs = []string{}
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO search_logs (id, query, result_ids, result_count, duration_ms, cache_hit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		entry.Query,
		resultIDs,
		len(resultIDs),
		entry.DurationMs,
		entry.CacheHit,
		createdAt,
	)
	return err
}

func (r *SearchLogRepository) RecordSearchSelection(ctx context.Context, searchID, selectedID string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE search_logs
		 SET chosen_id = $1, chosen_at = $2
		 WHERE id = $3`,
		selectedID,
		time.Now().UTC(),
		searchID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSearchLogNotFound
	}
	return nil
}

// DeleteSearchLogsBefore removes logs created before cutoff and reports how
// many rows went.
func (r *SearchLogRepository) DeleteSearchLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM search_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
