package payment

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/auth"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/transaction"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	CreateStoreCheckout(ctx context.Context, req *StoreCheckoutRequest) (*CheckoutResponse, error)
	CreateDonationCheckout(ctx context.Context, req *DonationCheckoutRequest) (*CheckoutResponse, error)
	CreateMembershipCheckout(ctx context.Context, memberID string, req *MembershipCheckoutRequest) (*CheckoutResponse, error)
	VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error)
	GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]transaction.Transaction, error)
	UpdateFulfillment(ctx context.Context, id string, req *UpdateFulfillmentRequest) (*transaction.Transaction, error)
	RefundTransaction(ctx context.Context, id string) (*transaction.Transaction, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     svc,
	}
}

// CreateStoreCheckout handles POST /api/v1/store/checkout
func (h *Handler) CreateStoreCheckout(w http.ResponseWriter, r *http.Request) {
	var req StoreCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.CreateStoreCheckout(r.Context(), &req)
	if err != nil {
		h.Logger.Error("store checkout failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateDonationCheckout handles POST /api/v1/donations/checkout
func (h *Handler) CreateDonationCheckout(w http.ResponseWriter, r *http.Request) {
	var req DonationCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.CreateDonationCheckout(r.Context(), &req)
	if err != nil {
		h.Logger.Error("donation checkout failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateMembershipCheckout handles POST /api/v1/membership/checkout
func (h *Handler) CreateMembershipCheckout(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MemberFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	var req MembershipCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.CreateMembershipCheckout(r.Context(), m.ID, &req)
	if err != nil {
		h.Logger.Error("membership checkout failed", "member_id", m.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// VerifyPayment handles the verify-payment endpoints for all three kinds.
// The success page posts the session id it received from the checkout
// redirect; the response tells it what to render.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	result, err := h.Service.VerifyPayment(r.Context(), req.SessionID)
	if err != nil {
		h.Logger.Error("payment verification failed", "session_id", req.SessionID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ----------------- ADMIN -----------------

// ListTransactions handles GET /api/v1/admin/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Kind:   r.URL.Query().Get("kind"),
		Status: r.URL.Query().Get("status"),
	}
	filter.Limit = transport.QueryInt(r, "limit", 50)
	filter.Offset = transport.QueryInt(r, "offset", 0)

	txs, err := h.Service.ListTransactions(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// GetTransaction handles GET /api/v1/admin/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := h.Service.GetTransaction(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tx)
}

// UpdateFulfillment handles PATCH /api/v1/admin/orders/{id}/fulfillment
func (h *Handler) UpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateFulfillmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	tx, err := h.Service.UpdateFulfillment(r.Context(), id, &req)
	if err != nil {
		h.Logger.Error("fulfillment update failed", "transaction_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tx)
}

// RefundTransaction handles POST /api/v1/admin/transactions/{id}/refund
func (h *Handler) RefundTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := h.Service.RefundTransaction(r.Context(), id)
	if err != nil {
		h.Logger.Error("refund failed", "transaction_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tx)
}
