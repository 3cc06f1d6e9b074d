package membership

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	membershipDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	ListTypes(ctx context.Context, includeInactive bool) ([]membershipDatamodel.MembershipType, error)
	GetType(ctx context.Context, id string) (*membershipDatamodel.MembershipType, error)
	CreateType(ctx context.Context, req *MembershipTypeRequest) (*membershipDatamodel.MembershipType, error)
	UpdateType(ctx context.Context, id string, req *MembershipTypeRequest) (*membershipDatamodel.MembershipType, error)
	DeleteType(ctx context.Context, id string) error
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

// ListTypes handles GET /api/v1/membership/types
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	types, err := h.Service.ListTypes(r.Context(), includeInactive)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"membership_types": types,
	})
}

// GetType handles GET /api/v1/membership/types/{id}
func (h *Handler) GetType(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.GetType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// CreateType handles POST /api/v1/admin/membership-types
func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req MembershipTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	t, err := h.Service.CreateType(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

// UpdateType handles PUT /api/v1/admin/membership-types/{id}
func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req MembershipTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	t, err := h.Service.UpdateType(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

// DeleteType handles DELETE /api/v1/admin/membership-types/{id}
func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteType(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
