package payment_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stripe/stripe-go/v82"

	paymentPkg "github.com/oba-canada/alumni-portal/internal/payment"
	"github.com/oba-canada/alumni-portal/internal/paymentgateway"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

const webhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way Stripe does: an HMAC
// of "<timestamp>.<payload>" with the endpoint secret.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// Mock settle target for webhook tests
type mockWebhookService struct {
	settled []*paymentgateway.Session
	expired []*paymentgateway.Session
	err     error
}

func (m *mockWebhookService) SettleSession(ctx context.Context, sess *paymentgateway.Session) (*paymentPkg.VerifyResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.settled = append(m.settled, sess)
	return &paymentPkg.VerifyResult{Success: true, Status: "completed"}, nil
}

func (m *mockWebhookService) MarkSessionExpired(ctx context.Context, sess *paymentgateway.Session) error {
	if m.err != nil {
		return m.err
	}
	m.expired = append(m.expired, sess)
	return nil
}

var _ = Describe("WebhookHandler", func() {
	var (
		handler *paymentPkg.WebhookHandler
		service *mockWebhookService
	)

	BeforeEach(func() {
		service = &mockWebhookService{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = paymentPkg.NewWebhookHandler(transport.NewBaseHandler(logger), service, webhookSecret)
	})

	eventPayload := func(eventType string) []byte {
		return []byte(fmt.Sprintf(`{
			"id": "evt_1",
			"api_version": %q,
			"type": %q,
			"data": {
				"object": {
					"id": "cs_test_1",
					"object": "checkout.session",
					"payment_status": "paid",
					"metadata": {
						"type": "donation",
						"transaction_id": "txn-1"
					}
				}
			}
		}`, stripe.APIVersion, eventType))
	}

	post := func(payload []byte, signature string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", signature)
		handler.HandleStripeWebhook(rec, req)
		return rec
	}

	Context("when the signature is invalid", func() {
		It("should reject the event without touching the service", func() {
			// Given
			payload := eventPayload("checkout.session.completed")

			// When
			rec := post(payload, signPayload(payload, "whsec_wrong_secret"))

			// Then
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(service.settled).To(BeEmpty())
		})
	})

	Context("when a checkout session completes", func() {
		It("should settle the session", func() {
			// Given
			payload := eventPayload("checkout.session.completed")

			// When
			rec := post(payload, signPayload(payload, webhookSecret))

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.settled).To(HaveLen(1))
			Expect(service.settled[0].ID).To(Equal("cs_test_1"))
			Expect(service.settled[0].Metadata["transaction_id"]).To(Equal("txn-1"))
		})
	})

	Context("when a checkout session expires", func() {
		It("should mark the transaction expired", func() {
			// Given
			payload := eventPayload("checkout.session.expired")

			// When
			rec := post(payload, signPayload(payload, webhookSecret))

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.expired).To(HaveLen(1))
			Expect(service.settled).To(BeEmpty())
		})
	})

	Context("when the event type is unrelated", func() {
		It("should acknowledge and ignore it", func() {
			// Given
			payload := eventPayload("invoice.paid")

			// When
			rec := post(payload, signPayload(payload, webhookSecret))

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.settled).To(BeEmpty())
			Expect(service.expired).To(BeEmpty())
		})
	})

	Context("when processing fails", func() {
		It("should return a non-2xx so the event is retried", func() {
			// Given
			service.err = fmt.Errorf("database down")
			payload := eventPayload("checkout.session.completed")

			// When
			rec := post(payload, signPayload(payload, webhookSecret))

			// Then
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
