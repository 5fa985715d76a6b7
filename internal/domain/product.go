package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as stored by the content backend.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Price       decimal.Decimal
	Description string
	ImageKeys   []string // object keys, first one is the main image
	CreatedAt   time.Time
}

// MainImage returns the key of the first image, or "" when the product has none.
func (p *Product) MainImage() string {
	if len(p.ImageKeys) == 0 {
		return ""
	}
	return p.ImageKeys[0]
}

// SearchResult is a product summary returned by search. Built fresh per query.
type SearchResult struct {
	ID       string
	Name     string
	Slug     string
	Price    decimal.Decimal
	ImageURL string // empty when the product has no image
}

// MaxSearchResults caps every search response.
const MaxSearchResults = 8

// MinQueryLength is the shortest trimmed query that reaches the backend.
const MinQueryLength = 2

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewProduct creates a new Product instance
func NewProduct(id, name, slug string, price decimal.Decimal, description string, imageKeys []string, createdAt time.Time) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Price:       price,
		Description: description,
		ImageKeys:   imageKeys,
		CreatedAt:   createdAt,
	}
}

// ValidateProduct validates a Product instance
func ValidateProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}
	if p.Name == "" {
		return fmt.Errorf("product Name is required")
	}
	if !slugPattern.MatchString(p.Slug) {
		return fmt.Errorf("product Slug is invalid: %q", p.Slug)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product Price must not be negative: %s", p.Price)
	}
	return nil
}

// IsValidSlug reports whether s can be used as a product route key.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
