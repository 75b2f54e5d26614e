package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const DefaultRequestTimeout = 30 * time.Second

type RouterConfig struct {
	RequestTimeout time.Duration
	Log            *zap.Logger
}

// NewRouter mounts the storefront API. The returned handler is instrumented
// with OpenTelemetry.
func NewRouter(storeHandler *StoreHandler, catalogHandler *CatalogHandler, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Get("/state", storeHandler.GetState)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", storeHandler.GetCart)
			r.Post("/items", storeHandler.AddToCart)
			r.Put("/items/{product_id}", storeHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", storeHandler.RemoveFromCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", storeHandler.GetWishlist)
			r.Post("/items", storeHandler.AddToWishlist)
			r.Post("/items/{product_id}/toggle", storeHandler.ToggleWishlist)
			r.Post("/items/{product_id}/move", storeHandler.MoveToCart)
			r.Delete("/items/{product_id}", storeHandler.RemoveFromWishlist)
		})

		r.Route("/compare", func(r chi.Router) {
			r.Get("/", storeHandler.GetCompare)
			r.Post("/items", storeHandler.AddToCompare)
			r.Delete("/items/{product_id}", storeHandler.RemoveFromCompare)
		})

		r.Get("/categories", catalogHandler.Categories)
		r.Get("/categories/{category}/products", catalogHandler.CategoryProducts)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.Products)
			r.Get("/search", catalogHandler.Search)
			r.Get("/{id}", catalogHandler.Product)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
