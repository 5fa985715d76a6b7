package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/metrics"
	"github.com/cloo-solutions/storefront/internal/pagination"
)

// ContactRepositoryInterface stores contact form submissions.
type ContactRepositoryInterface interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	ListSince(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) (*pagination.Page[*domain.ContactMessage], error)
}

// ContactService accepts contact form submissions.
type ContactService struct {
	repo    ContactRepositoryInterface
	uuidGen UUIDGenerator
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewContactService(repo ContactRepositoryInterface, m *metrics.Metrics, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		repo:    repo,
		uuidGen: &DefaultUUIDGenerator{},
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

type SubmitContactInput struct {
	Locale  string
	Name    string
	Email   string
	Message string
}

// Submit validates and stores a contact message.
func (s *ContactService) Submit(ctx context.Context, input SubmitContactInput) (*domain.ContactMessage, error) {
	locale := i18n.Normalize(input.Locale)
	msg := &domain.ContactMessage{
		ID:        s.uuidGen.NewString(),
		Locale:    locale,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: s.now().UTC(),
	}

	if err := domain.ValidateContactMessage(msg); err != nil {
		s.record(locale, "invalid")
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		s.record(locale, "error")
		s.logger.Error("failed to store contact message", zap.Error(err))
		return nil, err
	}

	s.record(locale, "ok")
	s.logger.Info("contact message received", zap.String("id", msg.ID), zap.String("locale", locale))
	return msg, nil
}

// ListSince returns one page of the messages received at or after since.
// cursor is the NextCursor of the previous page, empty for the first.
func (s *ContactService) ListSince(ctx context.Context, since time.Time, cursor string, limit int) (*pagination.Page[*domain.ContactMessage], error) {
	after, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}
	page, err := s.repo.ListSince(ctx, since, after, pagination.ClampLimit(limit))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrContentUnavailable.Message, err)
	}
	return page, nil
}

func (s *ContactService) record(locale, status string) {
	if s.metrics != nil {
		s.metrics.RecordContactSubmission(locale, status)
	}
}
