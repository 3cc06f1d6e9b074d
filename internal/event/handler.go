package event

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	eventDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/event"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	ListEvents(ctx context.Context, includePrivate, upcomingOnly bool) ([]eventDatamodel.Event, error)
	GetEvent(ctx context.Context, id string) (*eventDatamodel.Event, error)
	CreateEvent(ctx context.Context, req *EventRequest) (*eventDatamodel.Event, error)
	UpdateEvent(ctx context.Context, id string, req *EventRequest) (*eventDatamodel.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	RegisterInterest(ctx context.Context, req *RegisterInterestRequest) (*eventDatamodel.Registration, error)
	ListRegistrations(ctx context.Context, eventID string) ([]eventDatamodel.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id, status string) error
	RegistrationStats(ctx context.Context, eventID string) (map[string]int64, error)
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

// ListEvents handles GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	upcomingOnly := r.URL.Query().Get("upcoming") == "true"

	events, err := h.Service.ListEvents(r.Context(), false, upcomingOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// GetEvent handles GET /api/v1/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// RegisterInterest handles POST /api/v1/events/register-interest
func (h *Handler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	var req RegisterInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	reg, err := h.Service.RegisterInterest(r.Context(), &req)
	if err != nil {
		h.Logger.Error("event interest registration failed", "event_id", req.EventID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, reg)
}

// ----------------- ADMIN -----------------

// CreateEvent handles POST /api/v1/admin/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	e, err := h.Service.CreateEvent(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

// UpdateEvent handles PUT /api/v1/admin/events/{id}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	e, err := h.Service.UpdateEvent(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// DeleteEvent handles DELETE /api/v1/admin/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRegistrations handles GET /api/v1/admin/events/{id}/registrations
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	regs, err := h.Service.ListRegistrations(r.Context(), eventID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	stats, err := h.Service.RegistrationStats(r.Context(), eventID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": regs,
		"stats":         stats,
	})
}

// UpdateRegistrationStatus handles PATCH /api/v1/admin/registrations/{id}
func (h *Handler) UpdateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.UpdateRegistrationStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
