package listing

import (
	"slices"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
)

const (
	DefaultPerPage = 8

	// DefaultMaxPrice is reported when there are no products to derive it from.
	DefaultMaxPrice = 1000.0
)

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortLowToHigh SortOrder = "low-to-high"
	SortHighToLow SortOrder = "high-to-low"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortNone, SortLowToHigh, SortHighToLow:
		return true
	}
	return false
}

type Query struct {
	Categories []string
	MinPrice   float64
	// MaxPrice 0 means no upper bound.
	MaxPrice float64
	Sort     SortOrder
	Page     int
	PerPage  int
}

type Page struct {
	Products    []domain.Product `json:"products"`
	TotalItems  int              `json:"total_items"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	PerPage     int              `json:"per_page"`
	MaxPrice    float64          `json:"max_price"`
}

// Apply filters, sorts and paginates products. The input is not modified.
func Apply(products []domain.Product, q Query) Page {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := max(q.Page, 1)

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		if len(q.Categories) > 0 && !slices.Contains(q.Categories, p.Category) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch q.Sort {
	case SortLowToHigh:
		slices.SortStableFunc(filtered, func(a, b domain.Product) int {
			return cmpPrice(a.Price, b.Price)
		})
	case SortHighToLow:
		slices.SortStableFunc(filtered, func(a, b domain.Product) int {
			return cmpPrice(b.Price, a.Price)
		})
	}

	total := len(filtered)
	start := total
	// Compare page counts, not offsets, so huge pages cannot overflow.
	if total > 0 && page-1 <= (total-1)/perPage {
		start = (page - 1) * perPage
	}
	end := min(start+perPage, total)

	return Page{
		Products:    filtered[start:end],
		TotalItems:  total,
		TotalPages:  (total + perPage - 1) / perPage,
		CurrentPage: page,
		PerPage:     perPage,
		MaxPrice:    MaxPrice(products),
	}
}

// MaxPrice returns the highest price in products, or DefaultMaxPrice when
// there are none.
func MaxPrice(products []domain.Product) float64 {
	if len(products) == 0 {
		return DefaultMaxPrice
	}
	highest := products[0].Price
	for _, p := range products[1:] {
		highest = max(highest, p.Price)
	}
	return highest
}

// ClampRange keeps the lower bound from crossing the upper bound.
func ClampRange(minPrice, maxPrice float64) (float64, float64) {
	if maxPrice > 0 && minPrice > maxPrice {
		return maxPrice, maxPrice
	}
	return minPrice, maxPrice
}

func cmpPrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
