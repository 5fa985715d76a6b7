package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/imaging"
	"github.com/cloo-solutions/storefront/internal/metrics"
	"github.com/cloo-solutions/storefront/internal/telemetry"
)

// DefaultFeaturedLimit is the number of newest products on the home page.
const DefaultFeaturedLimit = 4

// HeroRepositoryInterface stores hero content per locale.
type HeroRepositoryInterface interface {
	Get(ctx context.Context, locale string) (*domain.Hero, error)
	Upsert(ctx context.Context, hero *domain.Hero) error
}

// HomePage holds the independently fetched parts of the home page.
type HomePage struct {
	Locale       string
	Hero         domain.Fetched[domain.Hero]
	HeroImageURL string
	Featured     domain.Fetched[[]ProductCard]
	FallbackHero domain.Hero
}

// DisplayHero returns the stored hero, or the localized fallback copy when
// it could not be loaded.
func (p *HomePage) DisplayHero() domain.Hero {
	return p.Hero.Or(p.FallbackHero)
}

// DisplayFeatured returns the featured products, or none when they could
// not be loaded.
func (p *HomePage) DisplayFeatured() []ProductCard {
	return p.Featured.Or([]ProductCard{})
}

// HomeService assembles the home page.
type HomeService struct {
	heroes        HeroRepositoryInterface
	catalog       *CatalogService
	images        imaging.Builder
	messages      *i18n.Catalog
	featuredLimit int
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewHomeService(heroes HeroRepositoryInterface, catalog *CatalogService, images imaging.Builder, messages *i18n.Catalog, featuredLimit int, m *metrics.Metrics, logger *zap.Logger) *HomeService {
	if images == nil {
		images = imaging.None{}
	}
	if featuredLimit <= 0 {
		featuredLimit = DefaultFeaturedLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeService{
		heroes:        heroes,
		catalog:       catalog,
		images:        images,
		messages:      messages,
		featuredLimit: featuredLimit,
		metrics:       m,
		logger:        logger,
	}
}

// Load fetches hero content and featured products concurrently. Neither
// failure fails the page; each part reports its own outcome. When ctx is
// cancelled the remaining fetch is abandoned and no fallback is recorded.
func (s *HomeService) Load(ctx context.Context, locale string) *HomePage {
	ctx, span := telemetry.StartSpan(ctx, "service.home.load", telemetry.SpanAttributes{Locale: locale, Operation: "home"})
	defer span.End()

	page := &HomePage{Locale: locale, FallbackHero: s.FallbackHero(locale)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hero, err := s.heroes.Get(gctx, locale)
		if err != nil {
			page.Hero = domain.FetchedErr[domain.Hero](err)
			return ctx.Err()
		}
		page.Hero = domain.FetchedOK(*hero)
		u, err := s.images.URL(gctx, hero.BackgroundImageKey, imaging.Banner)
		if err != nil {
			s.logger.Warn("failed to build hero image url", zap.Error(err))
		}
		page.HeroImageURL = u
		return nil
	})
	g.Go(func() error {
		cards, err := s.catalog.Newest(gctx, s.featuredLimit)
		if err != nil {
			page.Featured = domain.FetchedErr[[]ProductCard](err)
			return ctx.Err()
		}
		page.Featured = domain.FetchedOK(cards)
		return nil
	})
	// A failed part only errors the group once the caller has gone away.
	if err := g.Wait(); err != nil {
		s.logger.Debug("home load cancelled", zap.String("locale", locale), zap.Error(err))
		return page
	}

	if !page.Hero.OK() {
		s.logger.Warn("hero content unavailable, using fallback", zap.String("locale", locale), zap.Error(page.Hero.Err))
		s.recordFallback("hero")
	}
	if !page.Featured.OK() {
		s.logger.Warn("featured products unavailable", zap.String("locale", locale), zap.Error(page.Featured.Err))
		s.recordFallback("featured")
	}
	return page
}

// FallbackHero is the localized copy shown when no hero can be loaded.
func (s *HomeService) FallbackHero(locale string) domain.Hero {
	link := s.messages.T(locale, "hero.cta_link")
	if strings.HasPrefix(link, "/") {
		link = "/" + i18n.Normalize(locale) + link
	}
	return domain.Hero{
		Locale:     locale,
		Heading:    s.messages.T(locale, "hero.heading"),
		Subheading: s.messages.T(locale, "hero.subheading"),
		CTAText:    s.messages.T(locale, "hero.cta_text"),
		CTALink:    link,
	}
}

type UpdateHeroInput struct {
	Locale             string
	Heading            string
	Subheading         string
	CTAText            string
	CTALink            string
	BackgroundImageKey string
}

// UpdateHero replaces the hero content of a locale.
func (s *HomeService) UpdateHero(ctx context.Context, input UpdateHeroInput) (*domain.Hero, error) {
	if !i18n.IsSupported(input.Locale) {
		return nil, domain.ErrUnsupportedLocale
	}
	if strings.TrimSpace(input.Heading) == "" {
		return nil, domain.ErrMissingRequiredField
	}
	hero := &domain.Hero{
		Locale:             input.Locale,
		Heading:            strings.TrimSpace(input.Heading),
		Subheading:         strings.TrimSpace(input.Subheading),
		CTAText:            strings.TrimSpace(input.CTAText),
		CTALink:            strings.TrimSpace(input.CTALink),
		BackgroundImageKey: input.BackgroundImageKey,
		UpdatedAt:          time.Now().UTC(),
	}
	if err := s.heroes.Upsert(ctx, hero); err != nil {
		return nil, err
	}
	return hero, nil
}

func (s *HomeService) recordFallback(content string) {
	if s.metrics != nil {
		s.metrics.RecordContentFallback(content)
	}
}
