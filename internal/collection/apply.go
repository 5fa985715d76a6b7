package collection

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/cloo-solutions/storefront/internal/domain"
)

// Apply filters products by the selected price bucket and sorts them by the
// selected order. The sort is stable. col orders names for SortName and may
// be nil, in which case names compare bytewise. A Collator is not safe for
// concurrent use, so callers pass one per request.
func Apply(products []domain.Product, sel Selection, col *collate.Collator) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if sel.Price.Contains(p.Price) {
			out = append(out, p)
		}
	}
	Sort(out, sel.Sort, col)
	return out
}

// Sort orders products in place. Unknown orders sort newest first.
func Sort(products []domain.Product, order SortOrder, col *collate.Collator) {
	var cmp func(a, b domain.Product) int
	switch order {
	case SortPriceAsc:
		cmp = func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		cmp = func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	case SortName:
		if col != nil {
			cmp = func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) }
		} else {
			cmp = func(a, b domain.Product) int { return strings.Compare(a.Name, b.Name) }
		}
	default:
		cmp = func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	slices.SortStableFunc(products, cmp)
}
