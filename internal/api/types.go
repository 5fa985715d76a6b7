package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Wire types shared by the HTTP handlers and the API client. Prices travel
// as JSON numbers; image URLs are null when a product has no image.

type ProductSummary struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Slug     string      `json:"slug"`
	Price    json.Number `json:"price"`
	ImageURL *string     `json:"imageUrl"`
}

type SearchResponse struct {
	Products []ProductSummary `json:"products"`
	SearchID string           `json:"searchId,omitempty"`
}

type SearchFeedbackRequest struct {
	SearchID   string `json:"searchId"`
	SelectedID string `json:"selectedId"`
}

type ProductCard struct {
	ProductSummary
	PriceFormatted string `json:"priceFormatted"`
}

type Hero struct {
	Heading    string  `json:"heading"`
	Subheading string  `json:"subheading"`
	CTAText    string  `json:"ctaText"`
	CTALink    string  `json:"ctaLink"`
	ImageURL   *string `json:"imageUrl"`
	Fallback   bool    `json:"fallback"`
}

type HomeResponse struct {
	Locale            string        `json:"locale"`
	Hero              Hero          `json:"hero"`
	FeaturedTitle     string        `json:"featuredTitle"`
	Featured          []ProductCard `json:"featured"`
	FeaturedAvailable bool          `json:"featuredAvailable"`
}

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type CollectionResponse struct {
	Locale       string        `json:"locale"`
	Title        string        `json:"title"`
	Count        string        `json:"count"`
	Price        string        `json:"price"`
	Sort         string        `json:"sort"`
	Canonical    string        `json:"canonical"`
	PriceOptions []Option      `json:"priceOptions"`
	SortOptions  []Option      `json:"sortOptions"`
	Products     []ProductCard `json:"products"`
	EmptyText    string        `json:"emptyText,omitempty"`
}

type Pickup struct {
	Heading string `json:"heading"`
	Hint    string `json:"hint"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type ProductDetailResponse struct {
	ProductCard
	Description  string        `json:"description"`
	Gallery      []string      `json:"gallery"`
	RelatedTitle string        `json:"relatedTitle"`
	Related      []ProductCard `json:"related"`
	Pickup       Pickup        `json:"pickup"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type AboutResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type CreateProductRequest struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug,omitempty"`
	Price       json.Number `json:"price"`
	Description string      `json:"description,omitempty"`
}

type ProductResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	ImageKeys   []string    `json:"imageKeys"`
	CreatedAt   string      `json:"createdAt"`
}

type InitImageUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type InitImageUploadResponse struct {
	StorageKey string `json:"storageKey"`
	UploadURL  string `json:"uploadUrl"`
}

type CompleteImageUploadRequest struct {
	StorageKey string `json:"storageKey"`
}

type UpdateHeroRequest struct {
	Locale             string `json:"locale"`
	Heading            string `json:"heading"`
	Subheading         string `json:"subheading"`
	CTAText            string `json:"ctaText"`
	CTALink            string `json:"ctaLink"`
	BackgroundImageKey string `json:"backgroundImageKey"`
}

type ContactMessagePage struct {
	Items   []ContactMessageResponse `json:"items"`
	Cursor  string                   `json:"cursor,omitempty"`
	HasMore bool                     `json:"hasMore"`
}

type ContactMessageResponse struct {
	ID        string `json:"id"`
	Locale    string `json:"locale"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// Price renders an amount as a JSON number.
func Price(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// ParsePrice reads a JSON number back into a decimal.
func ParsePrice(n json.Number) (decimal.Decimal, error) {
	return decimal.NewFromString(n.String())
}

// OptionalURL maps an empty URL to null.
func OptionalURL(u string) *string {
	if u == "" {
		return nil
	}
	return &u
}
