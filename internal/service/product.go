package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/telemetry"
)

// ProductFilter narrows a product listing. The price interval is half-open.
// Results are always ordered newest first, ties by id.
type ProductFilter struct {
	MinPrice  decimal.Decimal
	MaxPrice  decimal.NullDecimal
	ExcludeID string
	Limit     int // 0 means no limit
}

// ProductRepositoryInterface defines the repository interface for product persistence
type ProductRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Search(ctx context.Context, pattern string, limit int) ([]domain.Product, error)
	AddImage(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
}

// StorageClientInterface is the object storage used for product images.
type StorageClientInterface interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	HeadObject(ctx context.Context, key string) (*ObjectMetadata, error)
}

type ObjectMetadata struct {
	ContentLength int64
	ContentType   string
	ETag          string
}

// CacheInvalidator drops cached catalog reads after a write.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// ProductService handles catalog writes: products and their images.
type ProductService struct {
	repo        ProductRepositoryInterface
	storage     StorageClientInterface
	txRunner    TxRunner
	invalidator CacheInvalidator
	uuidGen     UUIDGenerator
	logger      *zap.Logger
	now         func() time.Time
}

// NewProductService creates a ProductService. storage, txRunner and
// invalidator may be nil.
func NewProductService(repo ProductRepositoryInterface, storage StorageClientInterface, txRunner TxRunner, invalidator CacheInvalidator, logger *zap.Logger) *ProductService {
	return NewProductServiceWithUUIDGen(repo, storage, txRunner, invalidator, logger, &DefaultUUIDGenerator{})
}

// NewProductServiceWithUUIDGen creates a ProductService with a custom UUID generator (for testing)
func NewProductServiceWithUUIDGen(repo ProductRepositoryInterface, storage StorageClientInterface, txRunner TxRunner, invalidator CacheInvalidator, logger *zap.Logger, uuidGen UUIDGenerator) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		repo:        repo,
		storage:     storage,
		txRunner:    txRunner,
		invalidator: invalidator,
		uuidGen:     uuidGen,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateProductInput struct {
	Name        string
	Slug        string
	Price       decimal.Decimal
	Description string
}

// Create validates and stores a new product.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.create", telemetry.SpanAttributes{Operation: "create_product"})
	defer span.End()

	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrMissingRequiredField
	}
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}
	if !domain.IsValidSlug(slug) {
		return nil, domain.ErrInvalidSlug
	}
	if input.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	p := domain.NewProduct(
		s.uuidGen.NewString(),
		strings.TrimSpace(input.Name),
		slug,
		input.Price,
		strings.TrimSpace(input.Description),
		nil,
		s.now().UTC(),
	)
	if err := domain.ValidateProduct(p); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid product", err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		span.SetError(err)
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// Delete removes a product and, best effort, its stored images.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.product.delete", telemetry.SpanAttributes{ProductID: id, Operation: "delete_product"})
	defer span.End()

	var deleted *domain.Product
	remove := func(repo ProductRepositoryInterface) error {
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = p
		return nil
	}

	var err error
	if s.txRunner != nil {
		err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
			return remove(repos.Products())
		})
	} else {
		err = remove(s.repo)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			span.SetError(err)
		}
		return err
	}

	s.invalidate(ctx)

	if s.storage != nil {
		for _, key := range deleted.ImageKeys {
			if err := s.storage.DeleteObject(ctx, key); err != nil {
				s.logger.Warn("failed to delete product image",
					zap.String("product_id", id),
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

type InitImageUploadInput struct {
	ProductID   string
	Filename    string
	ContentType string
}

type InitImageUploadResult struct {
	StorageKey string
	UploadURL  string
}

// InitImageUpload reserves a storage key for a new product image and returns
// a presigned upload URL for it.
func (s *ProductService) InitImageUpload(ctx context.Context, input InitImageUploadInput) (*InitImageUploadResult, error) {
	if s.storage == nil {
		return nil, domain.NewDomainError(domain.ErrCodeUnavailable, "image storage not configured")
	}
	ext, ok := allowedImageTypes[input.ContentType]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "unsupported image type")
	}
	if _, err := s.repo.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	if fileExt := strings.ToLower(path.Ext(input.Filename)); fileExt != "" {
		ext = fileExt
	}
	key := fmt.Sprintf("products/%s/%s%s", input.ProductID, s.uuidGen.NewString(), ext)

	uploadURL, err := s.storage.GenerateUploadURL(ctx, key, input.ContentType)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to generate upload URL", err)
	}

	return &InitImageUploadResult{StorageKey: key, UploadURL: uploadURL}, nil
}

// CompleteImageUpload verifies the object exists and attaches it to the
// product as its last image.
func (s *ProductService) CompleteImageUpload(ctx context.Context, productID, key string) (*domain.Product, error) {
	if s.storage == nil {
		return nil, domain.NewDomainError(domain.ErrCodeUnavailable, "image storage not configured")
	}
	if !strings.HasPrefix(key, "products/"+productID+"/") {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "storage key does not belong to product")
	}
	if _, err := s.storage.HeadObject(ctx, key); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "uploaded image not found", err)
	}
	if err := s.repo.AddImage(ctx, productID, key); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.repo.GetByID(ctx, productID)
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}

// Slugify derives a route key from a product name, folding accented letters
// to their base form.
func Slugify(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
