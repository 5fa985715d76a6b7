package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/storefront/internal/api/middleware"
	"github.com/cloo-solutions/storefront/internal/collection"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/pagination"
	"github.com/cloo-solutions/storefront/internal/service"
)

var messages = i18n.MustLoadCatalog()

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, raw string) (*service.SearchOutput, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchOutput), args.Error(1)
}

func (m *MockSearchService) RecordSelection(ctx context.Context, searchID, selectedID string) error {
	args := m.Called(ctx, searchID, selectedID)
	return args.Error(0)
}

type MockHomeService struct {
	mock.Mock
}

func (m *MockHomeService) Load(ctx context.Context, locale string) *service.HomePage {
	args := m.Called(ctx, locale)
	return args.Get(0).(*service.HomePage)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Collection(ctx context.Context, locale string, sel collection.Selection) (*service.CollectionPage, error) {
	args := m.Called(ctx, locale, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CollectionPage), args.Error(1)
}

func (m *MockCatalogService) Product(ctx context.Context, locale, slug string) (*service.ProductPage, error) {
	args := m.Called(ctx, locale, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductPage), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, input service.SubmitContactInput) (*domain.ContactMessage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func (m *MockContactService) ListSince(ctx context.Context, since time.Time, cursor string, limit int) (*pagination.Page[*domain.ContactMessage], error) {
	args := m.Called(ctx, since, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*domain.ContactMessage]), args.Error(1)
}

type MockProductAdminService struct {
	mock.Mock
}

func (m *MockProductAdminService) Create(ctx context.Context, input service.CreateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductAdminService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductAdminService) InitImageUpload(ctx context.Context, input service.InitImageUploadInput) (*service.InitImageUploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InitImageUploadResult), args.Error(1)
}

func (m *MockProductAdminService) CompleteImageUpload(ctx context.Context, productID, key string) (*domain.Product, error) {
	args := m.Called(ctx, productID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type MockHeroAdminService struct {
	mock.Mock
}

func (m *MockHeroAdminService) UpdateHero(ctx context.Context, input service.UpdateHeroInput) (*domain.Hero, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hero), args.Error(1)
}

// newRequest builds a request carrying a resolved locale and chi route
// parameters, as the router would deliver it.
func newRequest(method, target string, body io.Reader, locale string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if locale != "" {
		ctx = context.WithValue(ctx, middleware.LocaleKey, locale)
	}
	return req.WithContext(ctx)
}
