// Package collection derives the collection listing filter from URL query
// parameters and applies it to a product list.
package collection

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// Query parameter names.
const (
	ParamPrice = "price"
	ParamSort  = "sort"
)

// PriceRange is a price bucket of the collection filter.
type PriceRange string

const (
	PriceAny        PriceRange = "any"
	PriceUnder500   PriceRange = "under-500"
	Price500To1000  PriceRange = "500-1000"
	Price1000To2000 PriceRange = "1000-2000"
	Price2000Plus   PriceRange = "2000-plus"
)

// PriceRanges lists every bucket in display order.
var PriceRanges = []PriceRange{PriceAny, PriceUnder500, Price500To1000, Price1000To2000, Price2000Plus}

// SortOrder is the ordering of the collection listing.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortName      SortOrder = "name"
)

// SortOrders lists every order in display order.
var SortOrders = []SortOrder{SortNewest, SortPriceAsc, SortPriceDesc, SortName}

// Defaults used when a parameter is missing or not recognised.
const (
	DefaultPriceRange = PriceAny
	DefaultSortOrder  = SortNewest
)

// IsValid reports whether r is a known bucket.
func (r PriceRange) IsValid() bool {
	for _, v := range PriceRanges {
		if v == r {
			return true
		}
	}
	return false
}

// Bounds returns the half-open interval [min, max) of the bucket. max is not
// valid for buckets without an upper bound.
func (r PriceRange) Bounds() (decimal.Decimal, decimal.NullDecimal) {
	bounded := func(lo, hi int64) (decimal.Decimal, decimal.NullDecimal) {
		return decimal.NewFromInt(lo), decimal.NewNullDecimal(decimal.NewFromInt(hi))
	}
	switch r {
	case PriceUnder500:
		return bounded(0, 500)
	case Price500To1000:
		return bounded(500, 1000)
	case Price1000To2000:
		return bounded(1000, 2000)
	case Price2000Plus:
		return decimal.NewFromInt(2000), decimal.NullDecimal{}
	default:
		return decimal.Zero, decimal.NullDecimal{}
	}
}

// Contains reports whether price falls inside the bucket.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if !r.IsValid() || r == PriceAny {
		return true
	}
	lo, hi := r.Bounds()
	if price.LessThan(lo) {
		return false
	}
	return !hi.Valid || price.LessThan(hi.Decimal)
}

// IsValid reports whether s is a known order.
func (s SortOrder) IsValid() bool {
	for _, v := range SortOrders {
		if v == s {
			return true
		}
	}
	return false
}

// Selection is the filter state encoded in the collection URL.
type Selection struct {
	Price PriceRange
	Sort  SortOrder
}

// DefaultSelection is the unfiltered newest-first listing.
func DefaultSelection() Selection {
	return Selection{Price: DefaultPriceRange, Sort: DefaultSortOrder}
}

// ParseSelection reads the selection from query parameters. Missing or
// unknown values fall back to the defaults.
func ParseSelection(q url.Values) Selection {
	sel := DefaultSelection()
	if r := PriceRange(q.Get(ParamPrice)); r.IsValid() {
		sel.Price = r
	}
	if s := SortOrder(q.Get(ParamSort)); s.IsValid() {
		sel.Sort = s
	}
	return sel
}

// Values encodes the selection, omitting parameters at their default.
func (s Selection) Values() url.Values {
	q := url.Values{}
	if s.Price.IsValid() && s.Price != DefaultPriceRange {
		q.Set(ParamPrice, string(s.Price))
	}
	if s.Sort.IsValid() && s.Sort != DefaultSortOrder {
		q.Set(ParamSort, string(s.Sort))
	}
	return q
}

// IsDefault reports whether nothing is filtered or re-ordered.
func (s Selection) IsDefault() bool {
	return len(s.Values()) == 0
}

// Change sets one filter parameter.
type Change struct {
	Param string
	Value string
}

// SetPrice changes the price bucket.
func SetPrice(r PriceRange) Change {
	return Change{Param: ParamPrice, Value: string(r)}
}

// SetSort changes the sort order.
func SetSort(s SortOrder) Change {
	return Change{Param: ParamSort, Value: string(s)}
}

// Update applies change to a copy of current. A filter parameter set to its
// default, or to an unknown value, is removed. Unrelated parameters are kept.
func Update(current url.Values, change Change) url.Values {
	next := make(url.Values, len(current)+1)
	for k, v := range current {
		next[k] = append([]string(nil), v...)
	}

	keep := false
	switch change.Param {
	case ParamPrice:
		r := PriceRange(change.Value)
		keep = r.IsValid() && r != DefaultPriceRange
	case ParamSort:
		s := SortOrder(change.Value)
		keep = s.IsValid() && s != DefaultSortOrder
	default:
		keep = change.Value != ""
	}

	if keep {
		next.Set(change.Param, change.Value)
	} else {
		next.Del(change.Param)
	}
	return next
}

// Canonical returns path with the selection's non-default parameters.
func Canonical(path string, s Selection) string {
	q := s.Values()
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
