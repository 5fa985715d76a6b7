package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/api/middleware"
	"github.com/cloo-solutions/storefront/internal/collection"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/service"
)

type HomeService interface {
	Load(ctx context.Context, locale string) *service.HomePage
}

type CatalogService interface {
	Collection(ctx context.Context, locale string, sel collection.Selection) (*service.CollectionPage, error)
	Product(ctx context.Context, locale, slug string) (*service.ProductPage, error)
}

// StorefrontHandler serves the localized read-only pages.
type StorefrontHandler struct {
	home     HomeService
	catalog  CatalogService
	messages *i18n.Catalog
}

func NewStorefrontHandler(home HomeService, catalog CatalogService, messages *i18n.Catalog) *StorefrontHandler {
	return &StorefrontHandler{home: home, catalog: catalog, messages: messages}
}

// Home renders the hero and the newest products. It always answers 200:
// content that could not be loaded is replaced by fallback copy.
func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())
	page := h.home.Load(r.Context(), locale)

	hero := page.DisplayHero()
	imageURL := page.HeroImageURL
	if !page.Hero.OK() {
		imageURL = ""
	}

	api.Success(w, http.StatusOK, api.HomeResponse{
		Locale: locale,
		Hero: api.Hero{
			Heading:    hero.Heading,
			Subheading: hero.Subheading,
			CTAText:    hero.CTAText,
			CTALink:    hero.CTALink,
			ImageURL:   api.OptionalURL(imageURL),
			Fallback:   !page.Hero.OK(),
		},
		FeaturedTitle:     h.messages.T(locale, "home.featured"),
		Featured:          toCards(locale, page.DisplayFeatured()),
		FeaturedAvailable: page.Featured.OK(),
	})
}

// Collection lists products filtered and sorted by the price and sort
// query parameters. Invalid values fall back to their defaults.
func (h *StorefrontHandler) Collection(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())
	sel := collection.ParseSelection(r.URL.Query())

	page, err := h.catalog.Collection(r.Context(), locale, sel)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	resp := api.CollectionResponse{
		Locale:       locale,
		Title:        h.messages.T(locale, "collection.title"),
		Count:        h.messages.Tf(locale, "collection.count", map[string]string{"count": strconv.Itoa(len(page.Products))}),
		Price:        string(sel.Price),
		Sort:         string(sel.Sort),
		Canonical:    page.Canonical,
		PriceOptions: h.priceOptions(locale, sel.Price),
		SortOptions:  h.sortOptions(locale, sel.Sort),
		Products:     toCards(locale, page.Products),
	}
	if len(page.Products) == 0 {
		resp.EmptyText = h.messages.T(locale, "collection.empty")
	}

	api.Success(w, http.StatusOK, resp)
}

// Product renders a product detail page, 404 for unknown slugs.
func (h *StorefrontHandler) Product(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	page, err := h.catalog.Product(r.Context(), locale, chi.URLParam(r, "slug"))
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	gallery := page.GalleryURLs
	if gallery == nil {
		gallery = []string{}
	}
	related := toCards(locale, page.Related)

	mainImage := ""
	if len(gallery) > 0 {
		mainImage = gallery[0]
	}

	api.Success(w, http.StatusOK, api.ProductDetailResponse{
		ProductCard:  toCard(locale, service.ProductCard{Product: page.Product, ImageURL: mainImage}),
		Description:  page.Product.Description,
		Gallery:      gallery,
		RelatedTitle: h.messages.T(locale, "product.related"),
		Related:      related,
		Pickup: api.Pickup{
			Heading: h.messages.T(locale, "product.pickup"),
			Hint:    h.messages.T(locale, "product.pickup_hint"),
			Phone:   page.Pickup.Phone,
			Address: page.Pickup.Address,
		},
	})
}

// About renders the localized about copy.
func (h *StorefrontHandler) About(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())
	api.Success(w, http.StatusOK, api.AboutResponse{
		Title: h.messages.T(locale, "about.title"),
		Body:  h.messages.T(locale, "about.body"),
	})
}

func (h *StorefrontHandler) priceOptions(locale string, selected collection.PriceRange) []api.Option {
	opts := make([]api.Option, len(collection.PriceRanges))
	for i, pr := range collection.PriceRanges {
		opts[i] = api.Option{
			Value:    string(pr),
			Label:    h.messages.T(locale, "price."+string(pr)),
			Selected: pr == selected,
		}
	}
	return opts
}

func (h *StorefrontHandler) sortOptions(locale string, selected collection.SortOrder) []api.Option {
	opts := make([]api.Option, len(collection.SortOrders))
	for i, so := range collection.SortOrders {
		opts[i] = api.Option{
			Value:    string(so),
			Label:    h.messages.T(locale, "sort."+string(so)),
			Selected: so == selected,
		}
	}
	return opts
}
