package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/activity"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/domain"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/session"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixtures = map[int64]domain.Product{
	1: {ID: 1, Title: "Essence Mascara", Category: "beauty", Price: 9.99},
	2: {ID: 2, Title: "Eyeshadow Palette", Category: "beauty", Price: 19.99},
	3: {ID: 3, Title: "Powder Canister", Category: "beauty", Price: 14.99},
	4: {ID: 4, Title: "MacBook Pro", Category: "laptops", Price: 1999.99},
	5: {ID: 5, Title: "Apple", Category: "groceries", Price: 1.99},
}

type mockCatalog struct {
	mu         sync.RWMutex
	products   map[int64]domain.Product
	categories []string
	err        error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		products:   fixtures,
		categories: []string{"beauty", "groceries", "laptops"},
	}
}

func (m *mockCatalog) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockCatalog) ProductsByCategory(_ context.Context, category string) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	slug := catalog.NormalizeCategory(category)
	out := []domain.Product{}
	for id := int64(1); id <= int64(len(m.products)); id++ {
		if p := m.products[id]; p.Category == slug {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) Product(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockCatalog) Search(_ context.Context, query string) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Product{}
	for id := int64(1); id <= int64(len(m.products)); id++ {
		if p := m.products[id]; strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) Categories(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockCatalog) AllProducts(context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Product, 0, len(m.products))
	for id := int64(1); id <= int64(len(m.products)); id++ {
		out = append(out, m.products[id])
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.RWMutex
	events []activity.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e activity.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) recorded() []activity.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]activity.Event(nil), p.events...)
}

type testServer struct {
	handler      http.Handler
	storeHandler *StoreHandler
	catalog      *mockCatalog
	publisher    *recordingPublisher
	sessions     *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	sessions := session.NewManager(storage.NewMemoryStorage(), session.Config{}, zap.NewNop())
	t.Cleanup(func() { sessions.Close() })

	cat := newMockCatalog()
	pub := &recordingPublisher{}
	storeHandler := NewStoreHandler(sessions, cat, pub, 5*time.Second, zap.NewNop())
	catalogHandler := NewCatalogHandler(cat, sessions, 5*time.Second)
	t.Cleanup(storeHandler.Wait)

	return &testServer{
		handler:      NewRouter(storeHandler, catalogHandler, RouterConfig{}),
		storeHandler: storeHandler,
		catalog:      cat,
		publisher:    pub,
		sessions:     sessions,
	}
}

func (s *testServer) do(t *testing.T, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type mutationBody[T any] struct {
	Result  domain.Result `json:"result"`
	Applied bool          `json:"applied"`
	Added   *bool         `json:"added"`
	Items   []T           `json:"items"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

var errBrokerDown = errors.New("broker down")
