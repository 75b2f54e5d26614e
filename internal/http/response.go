package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/store"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// sessionStore resolves the caller's store, answering 503 when its state
// cannot be loaded.
func sessionStore(w http.ResponseWriter, r *http.Request, sessions Sessions) (*store.CommerceStore, bool) {
	st, err := sessions.Get(r.Context(), getSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "session state temporarily unavailable")
		return nil, false
	}
	return st, true
}

// handleCatalogError maps catalog failures onto HTTP statuses.
func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, catalog.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "catalog temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "catalog request timed out")
	case errors.Is(err, catalog.ErrUpstream):
		respondError(w, http.StatusBadGateway, "upstream_error", "catalog request failed")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
