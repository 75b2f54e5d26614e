package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Keys under which the three lists are mirrored.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyCompare  = "compareProducts"
)

const defaultPersistTimeout = time.Second

// CommerceStore owns a session's cart, wishlist and compare list. Every
// mutation is applied in memory first and then mirrored to storage before
// the method returns. Persistence failures are logged, never returned.
type CommerceStore struct {
	mu          sync.Mutex
	cart        []domain.CartLine
	wishlist    []domain.WishlistEntry
	compareList []domain.CompareEntry

	storage        storage.Storage
	persistTimeout time.Duration
	log            *zap.Logger
}

type Option func(*CommerceStore)

func WithLogger(l *zap.Logger) Option {
	return func(s *CommerceStore) { s.log = l }
}

// WithPersistTimeout bounds each write of the mirror.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *CommerceStore) { s.persistTimeout = d }
}

// Open creates a store hydrated from st. A missing or unparseable key
// leaves that list empty. A failed read is returned alongside the empty
// store; callers must not persist through such a store, or they would
// overwrite state they never saw.
func Open(ctx context.Context, st storage.Storage, opts ...Option) (*CommerceStore, error) {
	s := &CommerceStore{
		storage:        st,
		persistTimeout: defaultPersistTimeout,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, errCart := hydrate[domain.CartLine](ctx, s, KeyCart)
	wishlist, errWishlist := hydrate[domain.WishlistEntry](ctx, s, KeyWishlist)
	compareList, errCompare := hydrate[domain.CompareEntry](ctx, s, KeyCompare)
	if err := errors.Join(errCart, errWishlist, errCompare); err != nil {
		return s, fmt.Errorf("hydrate state: %w", err)
	}

	s.cart = normalizeCart(cart)
	s.wishlist = dedupe(wishlist)
	s.compareList = dedupe(compareList)
	return s, nil
}

func hydrate[T any](ctx context.Context, s *CommerceStore, key string) ([]T, error) {
	data, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("discarding unparseable state", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// normalizeCart keeps the first line per product and lifts quantities
// below 1 to 1.
func normalizeCart(lines []domain.CartLine) []domain.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if slices.ContainsFunc(out, func(o domain.CartLine) bool { return o.ID == l.ID }) {
			continue
		}
		l.Quantity = max(1, l.Quantity)
		out = append(out, l)
	}
	return out
}

// dedupe keeps the first entry per product id.
func dedupe(items []domain.Product) []domain.Product {
	out := items[:0]
	for _, p := range items {
		if indexOf(out, p.ID) < 0 {
			out = append(out, p)
		}
	}
	return out
}

// AddToCart increments the quantity of an existing line or appends a new
// line with quantity 1.
func (s *CommerceStore) AddToCart(p domain.Product) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addToCart(p)
	s.persist()
	return domain.ResultApplied
}

func (s *CommerceStore) addToCart(p domain.Product) {
	if i := s.cartIndex(p.ID); i >= 0 {
		s.cart[i].Quantity++
		return
	}
	s.cart = append(s.cart, domain.CartLine{Product: p, Quantity: 1})
}

func (s *CommerceStore) RemoveFromCart(id int64) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cartIndex(id)
	if i < 0 {
		return domain.ResultUnchanged
	}
	s.cart = slices.Delete(s.cart, i, i+1)
	s.persist()
	return domain.ResultApplied
}

// UpdateQuantity sets the line's quantity, clamping anything below 1 to 1.
// It never removes a line.
func (s *CommerceStore) UpdateQuantity(id int64, quantity int) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cartIndex(id)
	if i < 0 {
		return domain.ResultUnchanged
	}
	s.cart[i].Quantity = max(1, quantity)
	s.persist()
	return domain.ResultApplied
}

func (s *CommerceStore) AddToWishlist(p domain.Product) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.wishlist, p.ID) >= 0 {
		return domain.ResultDuplicate
	}
	s.wishlist = append(s.wishlist, p)
	s.persist()
	return domain.ResultApplied
}

func (s *CommerceStore) RemoveFromWishlist(id int64) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeFromWishlist(id) {
		return domain.ResultUnchanged
	}
	s.persist()
	return domain.ResultApplied
}

func (s *CommerceStore) removeFromWishlist(id int64) bool {
	i := indexOf(s.wishlist, id)
	if i < 0 {
		return false
	}
	s.wishlist = slices.Delete(s.wishlist, i, i+1)
	return true
}

// ToggleWishlist removes p when it is wishlisted and adds it otherwise.
func (s *CommerceStore) ToggleWishlist(p domain.Product) (added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeFromWishlist(p.ID) {
		s.wishlist = append(s.wishlist, p)
		added = true
	}
	s.persist()
	return added
}

// MoveToCart adds p to the cart and then drops it from the wishlist.
func (s *CommerceStore) MoveToCart(p domain.Product) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addToCart(p)
	s.removeFromWishlist(p.ID)
	s.persist()
	return domain.ResultApplied
}

// AddToCompare appends p unless its category differs from the first
// compared product or it is already being compared.
func (s *CommerceStore) AddToCompare(p domain.Product) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.compareList) > 0 && p.Category != s.compareList[0].Category {
		return domain.ResultCategoryMismatch
	}
	if indexOf(s.compareList, p.ID) >= 0 {
		return domain.ResultDuplicate
	}
	s.compareList = append(s.compareList, p)
	s.persist()
	return domain.ResultApplied
}

func (s *CommerceStore) RemoveFromCompare(id int64) domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.compareList, id)
	if i < 0 {
		return domain.ResultUnchanged
	}
	s.compareList = slices.Delete(s.compareList, i, i+1)
	s.persist()
	return domain.ResultApplied
}

func (s *CommerceStore) Cart() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.cart)
}

func (s *CommerceStore) Wishlist() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.wishlist)
}

func (s *CommerceStore) CompareList() []domain.CompareEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.compareList)
}

func (s *CommerceStore) Snapshot() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.State{
		Cart:        cloneLines(s.cart),
		Wishlist:    cloneProducts(s.wishlist),
		CompareList: cloneProducts(s.compareList),
	}
}

func (s *CommerceStore) InCart(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartIndex(id) >= 0
}

func (s *CommerceStore) InWishlist(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.wishlist, id) >= 0
}

func (s *CommerceStore) InCompare(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.compareList, id) >= 0
}

// CompareCategory is the category gating the compare list, "" when empty.
func (s *CommerceStore) CompareCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.compareList) == 0 {
		return ""
	}
	return s.compareList[0].Category
}

// CartTotal sums price * quantity over the cart, rounded to cents.
func (s *CommerceStore) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range s.cart {
		price := decimal.NewFromFloat(line.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

// persist writes all three lists. Callers hold s.mu.
func (s *CommerceStore) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	writeList(ctx, s, KeyCart, s.cart)
	writeList(ctx, s, KeyWishlist, s.wishlist)
	writeList(ctx, s, KeyCompare, s.compareList)
}

func writeList[T any](ctx context.Context, s *CommerceStore, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.log.Error("marshal state failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, key, data); err != nil {
		s.log.Warn("persist state failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CommerceStore) cartIndex(id int64) int {
	return slices.IndexFunc(s.cart, func(l domain.CartLine) bool { return l.ID == id })
}

func indexOf(items []domain.Product, id int64) int {
	return slices.IndexFunc(items, func(p domain.Product) bool { return p.ID == id })
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

func cloneProducts(items []domain.Product) []domain.Product {
	out := make([]domain.Product, len(items))
	copy(out, items)
	return out
}
