package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/cache"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/imaging"
	"github.com/cloo-solutions/storefront/internal/metrics"
	"github.com/cloo-solutions/storefront/internal/telemetry"
)

// ProductSearcher runs the substring match against the catalog.
type ProductSearcher interface {
	Search(ctx context.Context, pattern string, limit int) ([]domain.Product, error)
}

// SearchOutput is the outcome of one search request. SearchID is set when
// the search was logged and can receive selection feedback.
type SearchOutput struct {
	Results  []domain.SearchResult
	SearchID string
}

// SearchService answers incremental product search queries.
type SearchService struct {
	products ProductSearcher
	images   imaging.Builder
	logs     SearchLogRepository
	cache    *cache.Cache[string, []domain.SearchResult]
	metrics  *metrics.Metrics
	logger   *zap.Logger
	uuidGen  UUIDGenerator
	now      func() time.Time
}

type SearchServiceOption func(*SearchService)

// WithSearchCache serves repeated normalized queries from c.
func WithSearchCache(c *cache.Cache[string, []domain.SearchResult]) SearchServiceOption {
	return func(s *SearchService) { s.cache = c }
}

// WithSearchLogs records every search that reaches the catalog or the cache.
func WithSearchLogs(r SearchLogRepository) SearchServiceOption {
	return func(s *SearchService) { s.logs = r }
}

func WithSearchMetrics(m *metrics.Metrics) SearchServiceOption {
	return func(s *SearchService) { s.metrics = m }
}

func WithSearchLogger(l *zap.Logger) SearchServiceOption {
	return func(s *SearchService) { s.logger = l }
}

func WithSearchUUIDGen(g UUIDGenerator) SearchServiceOption {
	return func(s *SearchService) { s.uuidGen = g }
}

// NewSearchService creates a SearchService. images may be nil, in which case
// results carry no thumbnail.
func NewSearchService(products ProductSearcher, images imaging.Builder, opts ...SearchServiceOption) *SearchService {
	if images == nil {
		images = imaging.None{}
	}
	s := &SearchService{
		products: products,
		images:   images,
		logger:   zap.NewNop(),
		uuidGen:  &DefaultUUIDGenerator{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wildcards are stripped from queries before matching
var wildcardReplacer = strings.NewReplacer("*", "", "?", "", "%", "", "_", "", `\`, "")

// NormalizeQuery trims raw, rejects queries shorter than the minimum length,
// strips wildcard characters and lower-cases the rest. ok is false when the
// query must not reach the catalog.
func NormalizeQuery(raw string) (pattern string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) < domain.MinQueryLength {
		return "", false
	}
	pattern = strings.TrimSpace(strings.ToLower(wildcardReplacer.Replace(trimmed)))
	if pattern == "" {
		return "", false
	}
	return pattern, true
}

// Search returns up to MaxSearchResults products whose name or description
// contains the normalized query. Short or empty queries return no results
// without touching the catalog.
func (s *SearchService) Search(ctx context.Context, raw string) (*SearchOutput, error) {
	pattern, ok := NormalizeQuery(raw)
	if !ok {
		return &SearchOutput{Results: []domain.SearchResult{}}, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "service.search", telemetry.SpanAttributes{Query: pattern, Operation: "search"})
	defer span.End()

	start := s.now()

	if s.cache != nil {
		if cached, hit := s.cache.Get(pattern); hit {
			s.recordCache(true)
			out := &SearchOutput{Results: cached}
			out.SearchID = s.logSearch(ctx, pattern, cached, start, true)
			s.recordSearch("ok", len(cached), start)
			return out, nil
		}
		s.recordCache(false)
	}

	products, err := s.products.Search(ctx, pattern, domain.MaxSearchResults)
	if err != nil {
		span.SetError(err)
		s.recordSearch("error", 0, start)
		s.logger.Error("product search failed", zap.String("query", pattern), zap.Error(err))
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "search failed", err)
	}
	if len(products) > domain.MaxSearchResults {
		products = products[:domain.MaxSearchResults]
	}

	results := make([]domain.SearchResult, 0, len(products))
	for _, p := range products {
		imageURL, err := s.images.URL(ctx, p.MainImage(), imaging.Thumbnail)
		if err != nil {
			s.logger.Warn("failed to build thumbnail url", zap.String("product_id", p.ID), zap.Error(err))
			imageURL = ""
		}
		results = append(results, domain.SearchResult{
			ID:       p.ID,
			Name:     p.Name,
			Slug:     p.Slug,
			Price:    p.Price,
			ImageURL: imageURL,
		})
	}

	if s.cache != nil {
		s.cache.Set(pattern, results)
	}

	out := &SearchOutput{Results: results}
	out.SearchID = s.logSearch(ctx, pattern, results, start, false)
	s.recordSearch("ok", len(results), start)
	return out, nil
}

// RecordSelection stores which result the shopper picked for a logged search.
func (s *SearchService) RecordSelection(ctx context.Context, searchID, selectedID string) error {
	if searchID == "" || selectedID == "" {
		return domain.ErrMissingRequiredField
	}
	if s.logs == nil {
		return nil
	}
	return s.logs.RecordSearchSelection(ctx, searchID, selectedID)
}

// InvalidateCache drops every cached search response.
func (s *SearchService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Purge()
	telemetry.AddBreadcrumb(ctx, "search.cache", "search cache purged")
}

func (s *SearchService) logSearch(ctx context.Context, pattern string, results []domain.SearchResult, start time.Time, cacheHit bool) string {
	if s.logs == nil {
		return ""
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	entry := SearchLogEntry{
		ID:         s.uuidGen.NewString(),
		Query:      pattern,
		ResultIDs:  ids,
		DurationMs: int(s.now().Sub(start).Milliseconds()),
		CacheHit:   cacheHit,
		CreatedAt:  start.UTC(),
	}
	if err := s.logs.CreateSearchLog(ctx, entry); err != nil {
		s.logger.Warn("failed to log search", zap.Error(err))
		return ""
	}
	return entry.ID
}

func (s *SearchService) recordSearch(status string, n int, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSearch(status, n, s.now().Sub(start))
	}
}

func (s *SearchService) recordCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.RecordCacheHit()
	} else {
		s.metrics.RecordCacheMiss()
	}
}
