package http

import (
	"net/http"
	"testing"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/listing"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productIDs(page listing.Page) []int64 {
	ids := make([]int64, len(page.Products))
	for i, p := range page.Products {
		ids[i] = p.ID
	}
	return ids
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/categories", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"beauty", "groceries", "laptops"}, decode[CategoriesResponse](t, rec).Categories)
}

func TestCategories_Unavailable(t *testing.T) {
	srv := newTestServer(t)
	srv.catalog.setErr(catalog.ErrUnavailable)

	rec := srv.do(t, http.MethodGet, "/api/v1/categories", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCategoryProducts(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		path  string
		want  []int64
		total int
	}{
		{name: "all in category", path: "/api/v1/categories/beauty/products", want: []int64{1, 2, 3}, total: 3},
		{name: "sorted high to low", path: "/api/v1/categories/beauty/products?sort=high-to-low", want: []int64{2, 3, 1}, total: 3},
		{name: "price window", path: "/api/v1/categories/beauty/products?min=10&max=15", want: []int64{3}, total: 1},
		{name: "display name", path: "/api/v1/categories/Beauty/products", want: []int64{1, 2, 3}, total: 3},
		{name: "unknown category", path: "/api/v1/categories/boats/products", want: []int64{}, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, "", nil)

			require.Equal(t, http.StatusOK, rec.Code)
			page := decode[listing.Page](t, rec)
			assert.Equal(t, tt.want, productIDs(page))
			assert.Equal(t, tt.total, page.TotalItems)
		})
	}
}

func TestCategoryProducts_MaxPriceIsUnfiltered(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/categories/beauty/products?max=10", "", nil)

	page := decode[listing.Page](t, rec)
	assert.Equal(t, []int64{1}, productIDs(page))
	assert.Equal(t, 19.99, page.MaxPrice)
}

func TestCategoryProducts_InvalidQuery(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		code string
	}{
		{name: "sort", path: "/api/v1/categories/beauty/products?sort=random", code: "invalid_sort"},
		{name: "min", path: "/api/v1/categories/beauty/products?min=cheap", code: "invalid_price"},
		{name: "negative max", path: "/api/v1/categories/beauty/products?max=-1", code: "invalid_price"},
		{name: "page", path: "/api/v1/categories/beauty/products?page=two", code: "invalid_page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, "", nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestProducts_FilterByCategories(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products?categories=laptops,Groceries&sort=low-to-high", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[listing.Page](t, rec)
	assert.Equal(t, []int64{5, 4}, productIDs(page))
	assert.Equal(t, 1, page.TotalPages)
}

func TestProducts_Pagination(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products?page=2", "", nil)

	page := decode[listing.Page](t, rec)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 5, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Products)
}

func TestProducts_HugePage(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products?page=1152921504606846977", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[listing.Page](t, rec)
	assert.Empty(t, page.Products)
	assert.Equal(t, 5, page.TotalItems)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products/search?q=pal", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{2}, productIDs(decode[listing.Page](t, rec)))
}

func TestProductDetail(t *testing.T) {
	srv := newTestServer(t)
	id := session.NewID()
	srv.do(t, http.MethodPost, "/api/v1/cart/items", id, ProductRequestDTO{ProductID: 4})

	rec := srv.do(t, http.MethodGet, "/api/v1/products/4", id, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		ID         int64  `json:"id"`
		Title      string `json:"title"`
		InCart     bool   `json:"in_cart"`
		InWishlist bool   `json:"in_wishlist"`
		InCompare  bool   `json:"in_compare"`
	}](t, rec)
	assert.Equal(t, int64(4), body.ID)
	assert.Equal(t, "MacBook Pro", body.Title)
	assert.True(t, body.InCart)
	assert.False(t, body.InWishlist)
	assert.False(t, body.InCompare)
}

func TestProductDetail_Errors(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/products/0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
