package paymentgateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/oba-canada/alumni-portal/internal"
)

// StripeGateway drives Stripe Checkout. Sessions are created in payment
// mode with card as the only method, matching the hosted pages the site
// links to.
type StripeGateway struct {
	client *stripe.Client
	logger *slog.Logger
}

func NewStripeGateway(cfg internal.StripeConfig, logger *slog.Logger) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{
		client: stripe.NewClient(cfg.SecretKey),
		logger: logger,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{item.ImageURL})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(params.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		Metadata:           params.Metadata,
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	if params.SubmitType != "" {
		sessionParams.SubmitType = stripe.String(params.SubmitType)
	}
	if params.CollectBillingAddress {
		sessionParams.BillingAddressCollection = stripe.String("required")
	}
	if len(params.ShippingCountries) > 0 {
		sessionParams.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(params.ShippingCountries),
		}
	}

	s, err := session.New(sessionParams)
	if err != nil {
		g.logger.Error("stripe: checkout session creation failed", "error", err)
		if stripeErr, ok := err.(*stripe.Error); ok {
			return nil, fmt.Errorf("stripe checkout session: %s", stripeErr.Msg)
		}
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	g.logger.Info("stripe: checkout session created",
		"session_id", s.ID,
		"amount_total", s.AmountTotal,
		"currency", params.Currency)

	return fromStripeSession(s), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	s, err := g.client.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		g.logger.Error("stripe: checkout session retrieve failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("stripe retrieve session %s: %w", sessionID, err)
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		Status:        SessionStatus(s.Status),
		PaymentStatus: PaymentStatus(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}
