package volunteer

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	volunteerDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/volunteer"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	Apply(ctx context.Context, req *ApplicationRequest) (*volunteerDatamodel.Volunteer, error)
	ListApplications(ctx context.Context, status string, limit, offset int) ([]volunteerDatamodel.Volunteer, error)
	GetApplication(ctx context.Context, id string) (*volunteerDatamodel.Volunteer, error)
	SetStatus(ctx context.Context, id, status string) (*volunteerDatamodel.Volunteer, error)
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

// Apply handles POST /api/v1/volunteers/apply
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	v, err := h.Service.Apply(r.Context(), &req)
	if err != nil {
		h.Logger.Error("volunteer application failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, v)
}

// ListApplications handles GET /api/v1/admin/volunteers
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.Service.ListApplications(r.Context(),
		r.URL.Query().Get("status"),
		transport.QueryInt(r, "limit", 50),
		transport.QueryInt(r, "offset", 0))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"volunteers": volunteers,
	})
}

// GetApplication handles GET /api/v1/admin/volunteers/{id}
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

// SetStatus handles PATCH /api/v1/admin/volunteers/{id}
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	v, err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}
