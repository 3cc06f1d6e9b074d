package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/oba-canada/alumni-portal/internal/paymentgateway"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

// WebhookAPI is the slice of the payment service the webhook path drives.
type WebhookAPI interface {
	SettleSession(ctx context.Context, sess *paymentgateway.Session) (*VerifyResult, error)
	MarkSessionExpired(ctx context.Context, sess *paymentgateway.Session) error
}

// WebhookHandler receives Stripe events. Client-polled verification is the
// primary confirmation path; the webhook is a second writer racing through
// the same compare-and-set, so processing an event twice is harmless.
type WebhookHandler struct {
	*transport.BaseHandler
	service       WebhookAPI
	signingSecret string
}

func NewWebhookHandler(base *transport.BaseHandler, service WebhookAPI, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:   base,
		service:       service,
		signingSecret: signingSecret,
	}
}

const webhookMaxBodyBytes = 65536

// HandleStripeWebhook handles POST /api/v1/payments/webhook
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookMaxBodyBytes))
	if err != nil {
		h.Logger.Error("webhook: failed to read body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.signingSecret)
	if err != nil {
		h.Logger.Error("webhook: signature verification failed", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		h.handleSessionEvent(w, r, event, true)
	case "checkout.session.expired":
		h.handleSessionEvent(w, r, event, false)
	default:
		h.Logger.Info("webhook: ignoring event", "type", event.Type, "event_id", event.ID)
		h.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	}
}

func (h *WebhookHandler) handleSessionEvent(w http.ResponseWriter, r *http.Request, event stripe.Event, settle bool) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.Logger.Error("webhook: malformed session payload", "event_id", event.ID, "error", err)
		h.WriteError(w, http.StatusBadRequest, "malformed event payload")
		return
	}

	gwSess := &paymentgateway.Session{
		ID:            sess.ID,
		PaymentStatus: paymentgateway.PaymentStatus(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		gwSess.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.Customer != nil {
		gwSess.CustomerID = sess.Customer.ID
	}

	var err error
	if settle {
		_, err = h.service.SettleSession(r.Context(), gwSess)
	} else {
		err = h.service.MarkSessionExpired(r.Context(), gwSess)
	}
	if err != nil {
		h.Logger.Error("webhook: event processing failed",
			"event_id", event.ID, "session_id", sess.ID, "error", err)
		// Non-2xx makes Stripe retry; the settle path is idempotent so a
		// replay is safe.
		h.WriteError(w, http.StatusInternalServerError, "failed to process event")
		return
	}

	h.Logger.Info("webhook: event processed", "event_id", event.ID, "session_id", sess.ID, "type", event.Type)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
