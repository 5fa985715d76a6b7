package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/collection"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/imaging"
	"github.com/cloo-solutions/storefront/internal/telemetry"
)

// RelatedProductsLimit is the number of other products shown on a detail page.
const RelatedProductsLimit = 3

// ProductCard is a product prepared for a listing.
type ProductCard struct {
	Product  domain.Product
	ImageURL string
}

// CollectionPage is the filtered, sorted collection listing.
type CollectionPage struct {
	Locale    string
	Selection collection.Selection
	Canonical string
	Products  []ProductCard
}

// StoreInfo describes the showroom for in-store pickup.
type StoreInfo struct {
	Phone   string
	Address string
}

// ProductPage is a product detail view.
type ProductPage struct {
	Locale      string
	Product     domain.Product
	GalleryURLs []string
	Related     []ProductCard
	Pickup      StoreInfo
}

// CatalogService serves the read side of the catalog.
type CatalogService struct {
	repo   ProductRepositoryInterface
	images imaging.Builder
	store  StoreInfo
	logger *zap.Logger
}

func NewCatalogService(repo ProductRepositoryInterface, images imaging.Builder, store StoreInfo, logger *zap.Logger) *CatalogService {
	if images == nil {
		images = imaging.None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, images: images, store: store, logger: logger}
}

// Collection lists the products matching sel in the requested order.
func (s *CatalogService) Collection(ctx context.Context, locale string, sel collection.Selection) (*CollectionPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.collection", telemetry.SpanAttributes{Locale: locale, Operation: "collection"})
	defer span.End()

	lo, hi := sel.Price.Bounds()
	products, err := s.repo.List(ctx, ProductFilter{MinPrice: lo, MaxPrice: hi})
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrContentUnavailable.Message, err)
	}

	products = collection.Apply(products, sel, i18n.NewCollator(locale))

	return &CollectionPage{
		Locale:    locale,
		Selection: sel,
		Canonical: collection.Canonical("/"+locale+"/collection", sel),
		Products:  s.cards(ctx, products, imaging.Card),
	}, nil
}

// Product loads a product by slug with related products and pickup details.
func (s *CatalogService) Product(ctx context.Context, locale, slug string) (*ProductPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.product", telemetry.SpanAttributes{Locale: locale, Operation: "product"})
	defer span.End()

	if !domain.IsValidSlug(slug) {
		return nil, domain.ErrProductNotFound
	}

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			span.SetError(err)
		}
		return nil, err
	}

	gallery := make([]string, 0, len(p.ImageKeys))
	for _, key := range p.ImageKeys {
		u, err := s.images.URL(ctx, key, imaging.Detail)
		if err != nil {
			s.logger.Warn("failed to build gallery url", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		gallery = append(gallery, u)
	}

	page := &ProductPage{
		Locale:      locale,
		Product:     *p,
		GalleryURLs: gallery,
		Pickup:      s.store,
	}

	related, err := s.repo.List(ctx, ProductFilter{ExcludeID: p.ID, Limit: RelatedProductsLimit})
	if err != nil {
		s.logger.Warn("failed to load related products", zap.String("product_id", p.ID), zap.Error(err))
	} else {
		page.Related = s.cards(ctx, related, imaging.Card)
	}

	return page, nil
}

// Newest returns the most recently added products.
func (s *CatalogService) Newest(ctx context.Context, limit int) ([]ProductCard, error) {
	products, err := s.repo.List(ctx, ProductFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	return s.cards(ctx, products, imaging.Card), nil
}

func (s *CatalogService) cards(ctx context.Context, products []domain.Product, size imaging.Size) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		u, err := s.images.URL(ctx, p.MainImage(), size)
		if err != nil {
			s.logger.Warn("failed to build image url", zap.String("product_id", p.ID), zap.Error(err))
			u = ""
		}
		cards = append(cards, ProductCard{Product: p, ImageURL: u})
	}
	return cards
}
