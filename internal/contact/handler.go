package contact

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	contactDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/contact"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, req *SubmissionRequest) (*contactDatamodel.Submission, error)
	ListSubmissions(ctx context.Context, status string, limit, offset int) ([]contactDatamodel.Submission, error)
	GetSubmission(ctx context.Context, id string) (*contactDatamodel.Submission, error)
	UpdateSubmission(ctx context.Context, id string, req *UpdateSubmissionRequest) (*contactDatamodel.Submission, error)
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

// Submit handles POST /api/v1/contact
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	sub, err := h.Service.Submit(r.Context(), &req)
	if err != nil {
		h.Logger.Error("contact submission failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sub)
}

// ListSubmissions handles GET /api/v1/admin/contact
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Service.ListSubmissions(r.Context(),
		r.URL.Query().Get("status"),
		transport.QueryInt(r, "limit", 50),
		transport.QueryInt(r, "offset", 0))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": subs,
	})
}

// GetSubmission handles GET /api/v1/admin/contact/{id}
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Service.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sub)
}

// UpdateSubmission handles PATCH /api/v1/admin/contact/{id}
func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	var req UpdateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	sub, err := h.Service.UpdateSubmission(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sub)
}
