package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/imaging"
	"github.com/cloo-solutions/storefront/internal/pagination"
)

// MockProductRepository is a mock implementation of ProductRepositoryInterface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, pattern string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, pattern, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) AddImage(ctx context.Context, id, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSearchLogRepository is a mock implementation of SearchLogRepository
type MockSearchLogRepository struct {
	mock.Mock
}

func (m *MockSearchLogRepository) CreateSearchLog(ctx context.Context, entry SearchLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSearchLogRepository) RecordSearchSelection(ctx context.Context, searchID, selectedID string) error {
	args := m.Called(ctx, searchID, selectedID)
	return args.Error(0)
}

// MockHeroRepository is a mock implementation of HeroRepositoryInterface
type MockHeroRepository struct {
	mock.Mock
}

func (m *MockHeroRepository) Get(ctx context.Context, locale string) (*domain.Hero, error) {
	args := m.Called(ctx, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hero), args.Error(1)
}

func (m *MockHeroRepository) Upsert(ctx context.Context, hero *domain.Hero) error {
	args := m.Called(ctx, hero)
	return args.Error(0)
}

// MockContactRepository is a mock implementation of ContactRepositoryInterface
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockContactRepository) ListSince(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) (*pagination.Page[*domain.ContactMessage], error) {
	args := m.Called(ctx, since, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*domain.ContactMessage]), args.Error(1)
}

// MockStorageClient is a mock implementation of StorageClientInterface
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageClient) HeadObject(ctx context.Context, key string) (*ObjectMetadata, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ObjectMetadata), args.Error(1)
}

// MockTxRunner runs the callback against the wrapped repository
type MockTxRunner struct {
	repo  ProductRepositoryInterface
	calls int
}

func (m *MockTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	m.calls++
	return fn(m)
}

func (m *MockTxRunner) Products() ProductRepositoryInterface {
	return m.repo
}

type fixedUUIDGen struct {
	ids []string
	i   int
}

func (g *fixedUUIDGen) NewString() string {
	id := g.ids[g.i%len(g.ids)]
	g.i++
	return id
}

// keyImages builds deterministic image URLs from keys.
type keyImages struct{}

func (keyImages) URL(_ context.Context, key string, size imaging.Size) (string, error) {
	if key == "" {
		return "", nil
	}
	return "img://" + key, nil
}
