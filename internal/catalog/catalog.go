package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUpstream        = errors.New("catalog upstream error")
	ErrUnavailable     = errors.New("catalog unavailable")
)

// Catalog is the read-only remote product catalog.
type Catalog interface {
	ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AllProducts(ctx context.Context) ([]domain.Product, error)
}

var (
	whitespace  = regexp.MustCompile(`\s+`)
	nonSlugChar = regexp.MustCompile(`[^a-z0-9-]`)
)

// NormalizeCategory turns a display name such as "Home Decoration" into the
// slug the catalog expects ("home-decoration").
func NormalizeCategory(category string) string {
	slug := strings.ToLower(category)
	slug = whitespace.ReplaceAllString(slug, "-")
	return nonSlugChar.ReplaceAllString(slug, "")
}
