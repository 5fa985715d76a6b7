package service

import (
	"context"
	"time"
)

// SearchLogEntry captures a search request and its results.
type SearchLogEntry struct {
	ID         string
	Query      string
	ResultIDs  []string
	DurationMs int
	CacheHit   bool
	CreatedAt  time.Time
}

// SearchLogRepository persists search logs and feedback.
type SearchLogRepository interface {
	CreateSearchLog(ctx context.Context, entry SearchLogEntry) error
	RecordSearchSelection(ctx context.Context, searchID, selectedID string) error
}
