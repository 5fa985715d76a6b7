package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/service"
	"github.com/cloo-solutions/storefront/internal/telemetry"
)

type SearchService interface {
	Search(ctx context.Context, raw string) (*service.SearchOutput, error)
	RecordSelection(ctx context.Context, searchID, selectedID string) error
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search answers GET /api/search?q=. The body is never wrapped so the
// client can decode {"products": [...]} directly.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		telemetry.CaptureError(r.Context(), err)
		api.Error(w, http.StatusInternalServerError, domain.ErrSearchFailed.Message)
		return
	}

	resp := api.SearchResponse{
		Products: make([]api.ProductSummary, 0, len(out.Results)),
		SearchID: out.SearchID,
	}
	for _, res := range out.Results {
		resp.Products = append(resp.Products, toSummary(res))
	}

	w.Header().Set("Cache-Control", "no-store")
	api.JSON(w, http.StatusOK, resp)
}

// Feedback records which result the shopper picked.
func (h *SearchHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req api.SearchFeedbackRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.HandleError(w, r, err)
		return
	}

	if err := h.svc.RecordSelection(r.Context(), req.SearchID, req.SelectedID); err != nil {
		api.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
