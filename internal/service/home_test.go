package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/metrics"
)

func newHomeService(t *testing.T, heroes *MockHeroRepository, products *MockProductRepository) *HomeService {
	t.Helper()
	catalog := NewCatalogService(products, keyImages{}, StoreInfo{}, nil)
	return NewHomeService(heroes, catalog, keyImages{}, i18n.MustLoadCatalog(), 0, metrics.New(), nil)
}

func TestHomeService_Load(t *testing.T) {
	heroes := new(MockHeroRepository)
	heroes.On("Get", mock.Anything, "en").Return(&domain.Hero{
		Locale:             "en",
		Heading:            "Spring collection",
		BackgroundImageKey: "hero/spring.jpg",
	}, nil)

	products := new(MockProductRepository)
	products.On("List", mock.Anything, ProductFilter{Limit: DefaultFeaturedLimit}).Return([]domain.Product{
		product("a", "A", 10, 1),
		product("b", "B", 10, 2),
	}, nil)

	page := newHomeService(t, heroes, products).Load(context.Background(), "en")

	require.True(t, page.Hero.OK())
	assert.Equal(t, "Spring collection", page.DisplayHero().Heading)
	assert.Equal(t, "img://hero/spring.jpg", page.HeroImageURL)
	require.True(t, page.Featured.OK())
	assert.Len(t, page.DisplayFeatured(), 2)
}

func TestHomeService_Load_HeroFallback(t *testing.T) {
	heroes := new(MockHeroRepository)
	heroes.On("Get", mock.Anything, "nl").Return(nil, errors.New("cms unavailable"))

	products := new(MockProductRepository)
	products.On("List", mock.Anything, mock.Anything).Return([]domain.Product{}, nil)

	page := newHomeService(t, heroes, products).Load(context.Background(), "nl")

	assert.False(t, page.Hero.OK())
	hero := page.DisplayHero()
	assert.Equal(t, "Meubels gemaakt om te blijven", hero.Heading)
	assert.Equal(t, "/nl/collection", hero.CTALink)
	assert.True(t, page.Featured.OK())
}

func TestHomeService_Load_FeaturedFailure(t *testing.T) {
	heroes := new(MockHeroRepository)
	heroes.On("Get", mock.Anything, "en").Return(nil, domain.ErrHeroNotFound)

	products := new(MockProductRepository)
	products.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	page := newHomeService(t, heroes, products).Load(context.Background(), "en")

	assert.False(t, page.Featured.OK())
	assert.NotNil(t, page.DisplayFeatured())
	assert.Empty(t, page.DisplayFeatured())
	assert.Equal(t, "Furniture made to last", page.DisplayHero().Heading)
}

func TestHomeService_Load_RecordsFallbacks(t *testing.T) {
	heroes := new(MockHeroRepository)
	heroes.On("Get", mock.Anything, "en").Return(nil, errors.New("cms unavailable"))

	products := new(MockProductRepository)
	products.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	m := metrics.New()
	catalog := NewCatalogService(products, keyImages{}, StoreInfo{}, nil)
	svc := NewHomeService(heroes, catalog, keyImages{}, i18n.MustLoadCatalog(), 0, m, nil)

	svc.Load(context.Background(), "en")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ContentFallbacksTotal.WithLabelValues("hero")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ContentFallbacksTotal.WithLabelValues("featured")))
}

func TestHomeService_Load_CancelledSkipsFallbackMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	heroes := new(MockHeroRepository)
	heroes.On("Get", mock.Anything, "en").Return(nil, context.Canceled)

	products := new(MockProductRepository)
	products.On("List", mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()

	m := metrics.New()
	catalog := NewCatalogService(products, keyImages{}, StoreInfo{}, nil)
	svc := NewHomeService(heroes, catalog, keyImages{}, i18n.MustLoadCatalog(), 0, m, nil)

	page := svc.Load(ctx, "en")

	assert.False(t, page.Hero.OK())
	assert.Equal(t, "Furniture made to last", page.DisplayHero().Heading)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ContentFallbacksTotal.WithLabelValues("hero")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ContentFallbacksTotal.WithLabelValues("featured")))
}

func TestHomeService_UpdateHero(t *testing.T) {
	heroes := new(MockHeroRepository)
	heroes.On("Upsert", mock.Anything, mock.MatchedBy(func(h *domain.Hero) bool {
		return h.Locale == "nl" && h.Heading == "Zomer"
	})).Return(nil)

	svc := newHomeService(t, heroes, new(MockProductRepository))

	hero, err := svc.UpdateHero(context.Background(), UpdateHeroInput{Locale: "nl", Heading: " Zomer "})
	require.NoError(t, err)
	assert.Equal(t, "Zomer", hero.Heading)

	_, err = svc.UpdateHero(context.Background(), UpdateHeroInput{Locale: "fr", Heading: "Été"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedLocale)

	_, err = svc.UpdateHero(context.Background(), UpdateHeroInput{Locale: "en"})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	heroes.AssertExpectations(t)
}
