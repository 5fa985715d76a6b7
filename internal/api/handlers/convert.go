package handlers

import (
	"time"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/service"
)

func toSummary(r domain.SearchResult) api.ProductSummary {
	return api.ProductSummary{
		ID:       r.ID,
		Name:     r.Name,
		Slug:     r.Slug,
		Price:    api.Price(r.Price),
		ImageURL: api.OptionalURL(r.ImageURL),
	}
}

func toCard(locale string, c service.ProductCard) api.ProductCard {
	return api.ProductCard{
		ProductSummary: api.ProductSummary{
			ID:       c.Product.ID,
			Name:     c.Product.Name,
			Slug:     c.Product.Slug,
			Price:    api.Price(c.Product.Price),
			ImageURL: api.OptionalURL(c.ImageURL),
		},
		PriceFormatted: i18n.FormatPrice(locale, c.Product.Price),
	}
}

func toCards(locale string, cards []service.ProductCard) []api.ProductCard {
	out := make([]api.ProductCard, len(cards))
	for i, c := range cards {
		out[i] = toCard(locale, c)
	}
	return out
}

func toProductResponse(p *domain.Product) api.ProductResponse {
	keys := p.ImageKeys
	if keys == nil {
		keys = []string{}
	}
	return api.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       api.Price(p.Price),
		Description: p.Description,
		ImageKeys:   keys,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
