package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/listing"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalog  catalog.Catalog
	sessions Sessions
	timeout  time.Duration
}

func NewCatalogHandler(cat catalog.Catalog, sessions Sessions, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog:  cat,
		sessions: sessions,
		timeout:  timeout,
	}
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ProductDetailResponse annotates a product with the caller's list
// membership.
type ProductDetailResponse struct {
	*domain.Product
	InCart     bool `json:"in_cart"`
	InWishlist bool `json:"in_wishlist"`
	InCompare  bool `json:"in_compare"`
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (h *CatalogHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListingQuery(w, r.URL.Query())
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ProductsByCategory(ctx, chi.URLParam(r, "category"))
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing.Apply(products, q))
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, ok := parseListingQuery(w, values)
	if !ok {
		return
	}
	for _, c := range strings.Split(values.Get("categories"), ",") {
		if slug := catalog.NormalizeCategory(strings.TrimSpace(c)); slug != "" {
			q.Categories = append(q.Categories, slug)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.AllProducts(ctx)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing.Apply(products, q))
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, ok := parseListingQuery(w, values)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Search(ctx, strings.TrimSpace(values.Get("q")))
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing.Apply(products, q))
}

func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.Product(ctx, productID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	st, ok := sessionStore(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ProductDetailResponse{
		Product:    p,
		InCart:     st.InCart(p.ID),
		InWishlist: st.InWishlist(p.ID),
		InCompare:  st.InCompare(p.ID),
	})
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return 0, false
	}
	return productID, true
}

// parseListingQuery reads min, max, sort and page. Absent values keep the
// listing defaults.
func parseListingQuery(w http.ResponseWriter, values url.Values) (listing.Query, bool) {
	var q listing.Query

	minPrice, ok := parsePrice(w, values, "min")
	if !ok {
		return q, false
	}
	maxPrice, ok := parsePrice(w, values, "max")
	if !ok {
		return q, false
	}
	if values.Get("max") != "" {
		minPrice, maxPrice = listing.ClampRange(minPrice, maxPrice)
	}
	q.MinPrice, q.MaxPrice = minPrice, maxPrice

	q.Sort = listing.SortOrder(values.Get("sort"))
	if !q.Sort.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_sort", "sort must be low-to-high or high-to-low")
		return q, false
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return q, false
		}
		q.Page = page
	}
	return q, true
}

func parsePrice(w http.ResponseWriter, values url.Values, name string) (float64, bool) {
	raw := values.Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", name+" must be a non-negative number")
		return 0, false
	}
	return v, true
}
