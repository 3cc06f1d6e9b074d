package store

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	storeDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/store"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	ListItems(ctx context.Context, category string, inStockOnly bool) ([]storeDatamodel.Item, error)
	GetItem(ctx context.Context, id string) (*storeDatamodel.Item, error)
	CreateItem(ctx context.Context, req *ItemRequest) (*storeDatamodel.Item, error)
	UpdateItem(ctx context.Context, id string, req *ItemRequest) (*storeDatamodel.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// ListItems handles GET /api/v1/store/items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	inStockOnly := r.URL.Query().Get("in_stock") == "true"

	items, err := h.Service.ListItems(r.Context(), category, inStockOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// GetItem handles GET /api/v1/store/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/v1/admin/store/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	item, err := h.Service.CreateItem(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/admin/store/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/admin/store/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
