package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/cache"
	"github.com/cloo-solutions/storefront/internal/config"
	"github.com/cloo-solutions/storefront/internal/database"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/imaging"
	"github.com/cloo-solutions/storefront/internal/metrics"
	"github.com/cloo-solutions/storefront/internal/repository"
	"github.com/cloo-solutions/storefront/internal/service"
	"github.com/cloo-solutions/storefront/internal/storage"
)

// app holds the content clients and services built once at startup.
type app struct {
	pool        *pgxpool.Pool
	searchCache *cache.Cache[string, []domain.SearchResult]
	searchLogs  *repository.SearchLogRepository
	messages    *i18n.Catalog

	products *service.ProductService
	search   *service.SearchService
	catalog  *service.CatalogService
	home     *service.HomeService
	contacts *service.ContactService
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*app, error) {
	messages, err := i18n.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	var storageClient service.StorageClientInterface
	var images imaging.Builder = imaging.None{}
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		logger.Info("S3 bucket ready", zap.String("bucket", cfg.S3Bucket))
		storageClient = &S3StorageAdapter{client: s3Client}
		images = imaging.NewPresignBuilder(s3Client)
	}
	if cfg.HasImageCDN() {
		images = imaging.NewCDNBuilder(cfg.ImageBaseURL)
	}

	productRepo := repository.NewProductRepository(pool)
	a := &app{
		pool:       pool,
		searchLogs: repository.NewSearchLogRepository(pool),
		messages:   messages,
	}

	searchOpts := []service.SearchServiceOption{
		service.WithSearchLogs(a.searchLogs),
		service.WithSearchMetrics(m),
		service.WithSearchLogger(logger),
	}
	if cfg.SearchCacheTTL > 0 {
		a.searchCache = cache.New[string, []domain.SearchResult](context.Background(), cfg.SearchCacheTTL, cfg.SearchCacheTTL)
		searchOpts = append(searchOpts, service.WithSearchCache(a.searchCache))
	}

	a.search = service.NewSearchService(productRepo, images, searchOpts...)
	a.products = service.NewProductService(productRepo, storageClient, repository.NewTxRunner(pool), a.search, logger)
	a.catalog = service.NewCatalogService(productRepo, images, service.StoreInfo{
		Phone:   cfg.StorePhone,
		Address: cfg.StoreAddress,
	}, logger)
	a.home = service.NewHomeService(repository.NewHeroRepository(pool), a.catalog, images, messages, cfg.FeaturedLimit, m, logger)
	a.contacts = service.NewContactService(repository.NewContactRepository(pool), m, logger)

	return a, nil
}

func (a *app) Close() {
	if a.searchCache != nil {
		a.searchCache.Stop()
	}
	a.pool.Close()
}

// S3StorageAdapter exposes the S3 client as the product image store.
type S3StorageAdapter struct {
	client *storage.S3Client
}

func (a *S3StorageAdapter) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	return a.client.GenerateUploadURL(ctx, key, contentType)
}

func (a *S3StorageAdapter) DeleteObject(ctx context.Context, key string) error {
	return a.client.DeleteObject(ctx, key)
}

func (a *S3StorageAdapter) HeadObject(ctx context.Context, key string) (*service.ObjectMetadata, error) {
	meta, err := a.client.HeadObject(ctx, key)
	if err != nil {
		return nil, err
	}
	return &service.ObjectMetadata{
		ContentLength: meta.ContentLength,
		ContentType:   meta.ContentType,
		ETag:          meta.ETag,
	}, nil
}
