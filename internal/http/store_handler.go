package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/activity"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const publishTimeout = time.Second

// Sessions hands out the store owned by a session id.
type Sessions interface {
	Get(ctx context.Context, id string) (*store.CommerceStore, error)
}

type StoreHandler struct {
	sessions  Sessions
	catalog   catalog.Catalog
	publisher activity.Publisher
	timeout   time.Duration
	log       *zap.Logger

	wg sync.WaitGroup
}

func NewStoreHandler(sessions Sessions, cat catalog.Catalog, publisher activity.Publisher, timeout time.Duration, log *zap.Logger) *StoreHandler {
	if publisher == nil {
		publisher = activity.Noop{}
	}
	return &StoreHandler{
		sessions:  sessions,
		catalog:   cat,
		publisher: publisher,
		timeout:   timeout,
		log:       log,
	}
}

type ProductRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type MutationResponse struct {
	Result  domain.Result `json:"result"`
	Applied bool          `json:"applied"`
	// Added is set by the wishlist toggle only.
	Added *bool       `json:"added,omitempty"`
	Items interface{} `json:"items"`
}

type StateResponse struct {
	domain.State
	CartTotal       decimal.Decimal `json:"cart_total"`
	CompareCategory string          `json:"compare_category"`
}

type CartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

type ListResponse struct {
	Items    []domain.Product `json:"items"`
	Category string           `json:"category,omitempty"`
}

func (h *StoreHandler) GetState(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, StateResponse{
		State:           st.Snapshot(),
		CartTotal:       st.CartTotal(),
		CompareCategory: st.CompareCategory(),
	})
}

func (h *StoreHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, CartResponse{Items: st.Cart(), Total: st.CartTotal()})
}

func (h *StoreHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromBody(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.AddToCart(*p)
	h.record(r, activity.ActionAddToCart, p.ID, result)
	respondMutation(w, result, st.Cart())
}

func (h *StoreHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.UpdateQuantity(productID, req.Quantity)
	h.record(r, activity.ActionUpdateQuantity, productID, result)
	respondMutation(w, result, st.Cart())
}

func (h *StoreHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.RemoveFromCart(productID)
	h.record(r, activity.ActionRemoveFromCart, productID, result)
	respondMutation(w, result, st.Cart())
}

func (h *StoreHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: st.Wishlist()})
}

func (h *StoreHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromBody(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.AddToWishlist(*p)
	h.record(r, activity.ActionAddToWishlist, p.ID, result)
	respondMutation(w, result, st.Wishlist())
}

func (h *StoreHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	p, ok := h.resolve(w, r, st.Wishlist(), productID)
	if !ok {
		return
	}

	added := st.ToggleWishlist(*p)
	h.record(r, activity.ActionToggleWishlist, productID, domain.ResultApplied)
	respondJSON(w, http.StatusOK, MutationResponse{
		Result:  domain.ResultApplied,
		Applied: true,
		Added:   &added,
		Items:   st.Wishlist(),
	})
}

func (h *StoreHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.RemoveFromWishlist(productID)
	h.record(r, activity.ActionRemoveFromWishlist, productID, result)
	respondMutation(w, result, st.Wishlist())
}

// MoveToCart responds with the cart, which is where the product ends up.
func (h *StoreHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	p, ok := h.resolve(w, r, st.Wishlist(), productID)
	if !ok {
		return
	}

	result := st.MoveToCart(*p)
	h.record(r, activity.ActionMoveToCart, productID, result)
	respondMutation(w, result, st.Cart())
}

func (h *StoreHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: st.CompareList(), Category: st.CompareCategory()})
}

func (h *StoreHandler) AddToCompare(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromBody(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.AddToCompare(*p)
	h.record(r, activity.ActionAddToCompare, p.ID, result)
	respondMutation(w, result, st.CompareList())
}

func (h *StoreHandler) RemoveFromCompare(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	result := st.RemoveFromCompare(productID)
	h.record(r, activity.ActionRemoveFromCompare, productID, result)
	respondMutation(w, result, st.CompareList())
}

// Wait blocks until in-flight activity events have been handed to the
// publisher.
func (h *StoreHandler) Wait() {
	h.wg.Wait()
}

func (h *StoreHandler) store(w http.ResponseWriter, r *http.Request) (*store.CommerceStore, bool) {
	return sessionStore(w, r, h.sessions)
}

func (h *StoreHandler) productFromBody(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return nil, false
	}
	return h.lookup(w, r, req.ProductID)
}

// resolve prefers the copy already held in known over a catalog round trip.
func (h *StoreHandler) resolve(w http.ResponseWriter, r *http.Request, known []domain.Product, id int64) (*domain.Product, bool) {
	for i := range known {
		if known[i].ID == id {
			return &known[i], true
		}
	}
	return h.lookup(w, r, id)
}

func (h *StoreHandler) lookup(w http.ResponseWriter, r *http.Request, id int64) (*domain.Product, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.Product(ctx, id)
	if err != nil {
		handleCatalogError(w, err)
		return nil, false
	}
	return p, true
}

func (h *StoreHandler) record(r *http.Request, action activity.Action, productID int64, result domain.Result) {
	e := activity.NewEvent(getSessionID(r.Context()), action, productID, result)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := h.publisher.Publish(ctx, e); err != nil {
			h.log.Warn("failed to publish activity",
				zap.String("action", string(action)),
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}()
}

func respondMutation(w http.ResponseWriter, result domain.Result, items interface{}) {
	respondJSON(w, http.StatusOK, MutationResponse{
		Result:  result,
		Applied: result.Applied(),
		Items:   items,
	})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
