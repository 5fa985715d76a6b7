package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/api/middleware"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/service"
)

type ContactService interface {
	Submit(ctx context.Context, input service.SubmitContactInput) (*domain.ContactMessage, error)
}

type ContactHandler struct {
	svc      ContactService
	messages *i18n.Catalog
}

func NewContactHandler(svc ContactService, messages *i18n.Catalog) *ContactHandler {
	return &ContactHandler{svc: svc, messages: messages}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	var req api.ContactRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, r, err)
		return
	}

	msg, err := h.svc.Submit(r.Context(), service.SubmitContactInput{
		Locale:  locale,
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	api.Success(w, http.StatusCreated, api.ContactResponse{
		ID:      msg.ID,
		Message: h.messages.Tf(locale, "contact.thanks", map[string]string{"name": msg.Name}),
	})
}
