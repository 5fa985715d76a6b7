package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/pagination"
	"github.com/cloo-solutions/storefront/internal/service"
)

type ProductAdminService interface {
	Create(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	InitImageUpload(ctx context.Context, input service.InitImageUploadInput) (*service.InitImageUploadResult, error)
	CompleteImageUpload(ctx context.Context, productID, key string) (*domain.Product, error)
}

type HeroAdminService interface {
	UpdateHero(ctx context.Context, input service.UpdateHeroInput) (*domain.Hero, error)
}

type ContactAdminService interface {
	ListSince(ctx context.Context, since time.Time, cursor string, limit int) (*pagination.Page[*domain.ContactMessage], error)
}

// AdminHandler serves the catalog management endpoints.
type AdminHandler struct {
	products ProductAdminService
	heroes   HeroAdminService
	contacts ContactAdminService
	now      func() time.Time
}

func NewAdminHandler(products ProductAdminService, heroes HeroAdminService, contacts ContactAdminService) *AdminHandler {
	return &AdminHandler{products: products, heroes: heroes, contacts: contacts, now: time.Now}
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProductRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, r, err)
		return
	}

	price, err := api.ParsePrice(req.Price)
	if err != nil {
		api.HandleError(w, r, domain.ErrInvalidPrice)
		return
	}

	p, err := h.products.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Price:       price,
		Description: req.Description,
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, toProductResponse(p))
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InitImageUpload returns a presigned URL the caller PUTs the image to.
func (h *AdminHandler) InitImageUpload(w http.ResponseWriter, r *http.Request) {
	var req api.InitImageUploadRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, r, err)
		return
	}

	res, err := h.products.InitImageUpload(r.Context(), service.InitImageUploadInput{
		ProductID:   chi.URLParam(r, "id"),
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, api.InitImageUploadResponse{
		StorageKey: res.StorageKey,
		UploadURL:  res.UploadURL,
	})
}

// CompleteImageUpload attaches an uploaded image to the product.
func (h *AdminHandler) CompleteImageUpload(w http.ResponseWriter, r *http.Request) {
	var req api.CompleteImageUploadRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, r, err)
		return
	}
	if req.StorageKey == "" {
		api.HandleError(w, r, domain.ErrMissingRequiredField)
		return
	}

	p, err := h.products.CompleteImageUpload(r.Context(), chi.URLParam(r, "id"), req.StorageKey)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, toProductResponse(p))
}

func (h *AdminHandler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateHeroRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, r, err)
		return
	}

	hero, err := h.heroes.UpdateHero(r.Context(), service.UpdateHeroInput{
		Locale:             req.Locale,
		Heading:            req.Heading,
		Subheading:         req.Subheading,
		CTAText:            req.CTAText,
		CTALink:            req.CTALink,
		BackgroundImageKey: req.BackgroundImageKey,
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusOK, api.UpdateHeroRequest{
		Locale:             hero.Locale,
		Heading:            hero.Heading,
		Subheading:         hero.Subheading,
		CTAText:            hero.CTAText,
		CTALink:            hero.CTALink,
		BackgroundImageKey: hero.BackgroundImageKey,
	})
}

// ListContactMessages answers GET /admin/contact?since=<RFC3339>&cursor=&limit=.
// Without since it returns the last 7 days.
func (h *AdminHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since := h.now().Add(-7 * 24 * time.Hour)
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
			return
		}
		since = t
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	page, err := h.contacts.ListSince(r.Context(), since, q.Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	out := api.ContactMessagePage{
		Items:   make([]api.ContactMessageResponse, len(page.Items)),
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	}
	for i, m := range page.Items {
		out.Items[i] = api.ContactMessageResponse{
			ID:        m.ID,
			Locale:    m.Locale,
			Name:      m.Name,
			Email:     m.Email,
			Message:   m.Message,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	api.Success(w, http.StatusOK, out)
}
