package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/store"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/transaction"
	"github.com/oba-canada/alumni-portal/internal/paymentgateway"
)

type ListFilter struct {
	Kind   string
	Status string
	Limit  int
	Offset int
}

// Repository persists payment transactions. Every status transition is a
// compare-and-set: the implementation must guard the old status in the
// update itself and report whether this caller won, so concurrent writers
// can never produce an illegal move.
type Repository interface {
	Create(ctx context.Context, tx *transaction.Transaction) error
	GetByID(ctx context.Context, id string) (*transaction.Transaction, error)
	GetBySessionID(ctx context.Context, sessionID string) (*transaction.Transaction, error)
	SetSessionID(ctx context.Context, id, sessionID string) error
	CompleteIfPending(ctx context.Context, id, paymentIntentID string) (bool, error)
	FailIfPending(ctx context.Context, id string) (bool, error)
	RefundIfCompleted(ctx context.Context, id string) (bool, error)
	UpdateFulfillment(ctx context.Context, id, status, trackingNumber, notes string) error
	List(ctx context.Context, filter ListFilter) ([]transaction.Transaction, error)
}

// MemberStore is the slice of the members domain the payment flow needs:
// resolving the payer and flipping the paid flag once a membership
// checkout settles.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (*member.Member, error)
	MarkPaid(ctx context.Context, id, stripeCustomerID string) error
}

type MembershipTypeStore interface {
	GetByID(ctx context.Context, id string) (*membership.MembershipType, error)
}

type CatalogStore interface {
	GetByID(ctx context.Context, id string) (*store.Item, error)
}

// ServiceConfig carries the checkout-flow knobs resolved at startup.
type ServiceConfig struct {
	Currency        string
	PublicBaseURL   string
	ShippingRegion  string
	DonationMinimum decimal.Decimal
}

type Service struct {
	repo            Repository
	gateway         paymentgateway.Gateway
	members         MemberStore
	membershipTypes MembershipTypeStore
	catalog         CatalogStore
	cfg             ServiceConfig
	logger          *slog.Logger
}

func NewService(
	repo Repository,
	gateway paymentgateway.Gateway,
	members MemberStore,
	membershipTypes MembershipTypeStore,
	catalog CatalogStore,
	cfg ServiceConfig,
	logger *slog.Logger,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "cad"
	}
	if cfg.DonationMinimum.IsZero() {
		cfg.DonationMinimum = decimal.NewFromInt(5)
	}
	return &Service{
		repo:            repo,
		gateway:         gateway,
		members:         members,
		membershipTypes: membershipTypes,
		catalog:         catalog,
		cfg:             cfg,
		logger:          logger,
	}
}

// toMinorUnits converts a decimal dollar amount to cents, rounding half up.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ----------------- CHECKOUT -----------------

// CreateStoreCheckout opens a hosted checkout for a cart of store items.
// Prices for catalog items are re-derived from the stored catalog; the
// client-submitted price is only honored for ad-hoc items with no item_id.
func (s *Service) CreateStoreCheckout(ctx context.Context, req *StoreCheckoutRequest) (*CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := make([]transaction.LineItem, 0, len(req.Items))
	total := decimal.Zero
	for _, in := range req.Items {
		item := transaction.LineItem{
			ItemID:      in.ItemID,
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			Quantity:    in.Quantity,
			ImageURL:    in.ImageURL,
		}
		if in.ItemID != "" {
			catalogItem, err := s.catalog.GetByID(ctx, in.ItemID)
			if err != nil {
				return nil, err
			}
			if !catalogItem.InStock {
				return nil, errors.NewValidationError(
					fmt.Sprintf("%s is out of stock", catalogItem.Name), errors.ErrCodeInvalidItems)
			}
			item.Name = catalogItem.Name
			item.Description = catalogItem.Description
			item.Price = catalogItem.Price
			item.ImageURL = catalogItem.ImageURL
		}
		items = append(items, item)
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	tx := &transaction.Transaction{
		Kind:              transaction.KindStorePurchase,
		PayerName:         req.CustomerInfo.Name,
		PayerEmail:        req.CustomerInfo.Email,
		Amount:            total,
		Currency:          s.cfg.Currency,
		ShippingAddress:   req.ShippingAddress,
		Status:            transaction.StatusPending,
		FulfillmentStatus: transaction.FulfillmentPending,
	}
	if memberID := errors.MemberIDFromContext(ctx); memberID != "" {
		tx.MemberID = &memberID
	}
	if err := tx.SetLineItems(items); err != nil {
		return nil, errors.NewInternalError("failed to encode order items", err)
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	lineItems := make([]paymentgateway.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, paymentgateway.LineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitAmount:  toMinorUnits(item.Price),
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
	}

	var itemsCount int64
	for _, item := range items {
		itemsCount += item.Quantity
	}
	meta := SessionMetadata{
		Kind:          transaction.KindStorePurchase,
		TransactionID: tx.ID,
		CustomerName:  req.CustomerInfo.Name,
		CustomerEmail: req.CustomerInfo.Email,
		TotalAmount:   total.StringFixed(2),
		ItemsCount:    itemsCount,
	}

	return s.openSession(ctx, tx, paymentgateway.CreateSessionParams{
		LineItems:             lineItems,
		Currency:              s.cfg.Currency,
		SuccessURL:            s.cfg.PublicBaseURL + "/store/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:             s.cfg.PublicBaseURL + "/store",
		CustomerEmail:         req.CustomerInfo.Email,
		Metadata:              meta.ToMap(),
		SubmitType:            "pay",
		CollectBillingAddress: true,
		ShippingCountries:     []string{s.cfg.ShippingRegion},
	})
}

// CreateDonationCheckout opens a hosted checkout for a one-off donation.
// Donations are open to non-members, so no authenticated caller is needed.
func (s *Service) CreateDonationCheckout(ctx context.Context, req *DonationCheckoutRequest) (*CheckoutResponse, error) {
	if err := req.Validate(s.cfg.DonationMinimum); err != nil {
		return nil, err
	}

	tx := &transaction.Transaction{
		Kind:        transaction.KindDonation,
		PayerName:   req.DonorName,
		PayerEmail:  req.DonorEmail,
		Amount:      req.Amount,
		Currency:    s.cfg.Currency,
		Category:    req.Category,
		Message:     req.Message,
		IsAnonymous: req.IsAnonymous,
		Status:      transaction.StatusPending,
	}
	if memberID := errors.MemberIDFromContext(ctx); memberID != "" {
		tx.MemberID = &memberID
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	meta := SessionMetadata{
		Kind:          transaction.KindDonation,
		TransactionID: tx.ID,
		CustomerName:  req.DonorName,
		CustomerEmail: req.DonorEmail,
		TotalAmount:   req.Amount.StringFixed(2),
		ItemsCount:    1,
		Category:      req.Category,
	}

	return s.openSession(ctx, tx, paymentgateway.CreateSessionParams{
		LineItems: []paymentgateway.LineItem{{
			Name:        fmt.Sprintf("Donation - %s", req.Category),
			Description: "Thank you for supporting the association",
			UnitAmount:  toMinorUnits(req.Amount),
			Quantity:    1,
		}},
		Currency:      s.cfg.Currency,
		SuccessURL:    s.cfg.PublicBaseURL + "/donations/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.PublicBaseURL + "/donations",
		CustomerEmail: req.DonorEmail,
		SubmitType:    "donate",
		Metadata:      meta.ToMap(),
	})
}

// CreateMembershipCheckout opens a hosted checkout for the calling member's
// registration fee. The price comes from the stored membership type, never
// from the request.
func (s *Service) CreateMembershipCheckout(ctx context.Context, memberID string, req *MembershipCheckoutRequest) (*CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.IsPaid {
		return nil, errors.NewConflictError("Membership is already paid", errors.ErrCodeInvalidTransition)
	}

	plan, err := s.membershipTypes.GetByID(ctx, req.MembershipTypeID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, errors.ErrMembershipTypeNotFound
	}

	tx := &transaction.Transaction{
		Kind:       transaction.KindMembership,
		MemberID:   &m.ID,
		PayerName:  m.FullName,
		PayerEmail: m.EmailAddress,
		Amount:     plan.Price,
		Currency:   s.cfg.Currency,
		Category:   plan.Name,
		Status:     transaction.StatusPending,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	meta := SessionMetadata{
		Kind:          transaction.KindMembership,
		TransactionID: tx.ID,
		CustomerName:  m.FullName,
		CustomerEmail: m.EmailAddress,
		TotalAmount:   plan.Price.StringFixed(2),
		ItemsCount:    1,
		Category:      plan.Name,
		MemberID:      m.ID,
	}

	return s.openSession(ctx, tx, paymentgateway.CreateSessionParams{
		LineItems: []paymentgateway.LineItem{{
			Name:        fmt.Sprintf("%s Membership", plan.Name),
			Description: plan.Description,
			UnitAmount:  toMinorUnits(plan.Price),
			Quantity:    1,
		}},
		Currency:      s.cfg.Currency,
		SuccessURL:    s.cfg.PublicBaseURL + "/membership/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.PublicBaseURL + "/membership",
		CustomerEmail: m.EmailAddress,
		Metadata:      meta.ToMap(),
	})
}

// openSession hands the pending transaction to the gateway and records the
// session id against it. A gateway failure leaves the row pending so a
// retry can supersede it.
func (s *Service) openSession(ctx context.Context, tx *transaction.Transaction, params paymentgateway.CreateSessionParams) (*CheckoutResponse, error) {
	sess, err := s.gateway.CreateSession(ctx, params)
	if err != nil {
		s.logger.Error("checkout session creation failed",
			"transaction_id", tx.ID, "kind", tx.Kind, "error", err)
		return nil, errors.NewGatewayError("Unable to start checkout, please try again", err)
	}

	if err := s.repo.SetSessionID(ctx, tx.ID, sess.ID); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		"transaction_id", tx.ID, "kind", tx.Kind, "session_id", sess.ID,
		"amount", tx.Amount.StringFixed(2))

	return &CheckoutResponse{
		SessionID:     sess.ID,
		CheckoutURL:   sess.URL,
		TransactionID: tx.ID,
	}, nil
}

// ----------------- VERIFICATION -----------------

// VerifyPayment asks the gateway for the session's state and settles the
// matching transaction. The gateway read is strictly read-only; only a
// session reported as paid can move the row, and only from pending.
func (s *Service) VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error) {
	if sessionID == "" {
		return nil, errors.NewValidationError("sessionId is required", errors.ErrCodeMissingSessionID)
	}

	sess, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.NewGatewayError("Unable to verify payment, please try again", err)
	}

	return s.SettleSession(ctx, sess)
}

// SettleSession applies a session's payment status to its transaction.
// Shared by client-initiated verification and the webhook path, so both
// converge on the same compare-and-set.
func (s *Service) SettleSession(ctx context.Context, sess *paymentgateway.Session) (*VerifyResult, error) {
	meta, ok := ParseSessionMetadata(sess.Metadata)
	if !ok {
		// Metadata can be stripped by dashboard edits; the session id was
		// recorded at checkout, so fall back to it before giving up.
		tx, err := s.repo.GetBySessionID(ctx, sess.ID)
		if err != nil {
			s.logger.Warn("checkout session has no usable metadata", "session_id", sess.ID)
			return nil, errors.NewValidationError("Session does not reference a known transaction", errors.ErrCodeVerificationFailed)
		}
		meta = metadataFromTransaction(tx)
	}

	result := &VerifyResult{
		TransactionID: meta.TransactionID,
		Kind:          meta.Kind,
		CustomerName:  meta.CustomerName,
		TotalAmount:   meta.TotalAmount,
		ItemsCount:    meta.ItemsCount,
	}

	switch sess.PaymentStatus {
	case paymentgateway.PaymentStatusPaid:
		won, err := s.repo.CompleteIfPending(ctx, meta.TransactionID, sess.PaymentIntentID)
		if err != nil {
			return nil, err
		}
		if won {
			s.onCompleted(ctx, meta, sess)
			result.Success = true
			result.Status = transaction.StatusCompleted
			result.Message = "Payment confirmed"
			return result, nil
		}

		// Lost the compare-and-set: someone settled this session first.
		// Report whatever state the row landed in.
		tx, err := s.repo.GetByID(ctx, meta.TransactionID)
		if err != nil {
			return nil, err
		}
		result.Status = tx.Status
		result.Success = tx.Status == transaction.StatusCompleted
		if result.Success {
			result.Message = "Payment confirmed"
		}
		return result, nil

	case paymentgateway.PaymentStatusUnpaid:
		result.Success = false
		result.Status = transaction.StatusPending
		result.Message = "Payment has not been completed"
		return result, nil

	default:
		result.Success = false
		result.Status = transaction.StatusFailed
		result.Message = "Payment could not be verified"
		return result, nil
	}
}

// onCompleted runs kind-specific follow-ups after a transaction settles.
// Failures here are logged, not returned: the payment itself succeeded.
func (s *Service) onCompleted(ctx context.Context, meta SessionMetadata, sess *paymentgateway.Session) {
	s.logger.Info("payment completed",
		"transaction_id", meta.TransactionID, "kind", meta.Kind,
		"session_id", sess.ID, "amount", meta.TotalAmount)

	if meta.Kind == transaction.KindMembership && meta.MemberID != "" {
		if err := s.members.MarkPaid(ctx, meta.MemberID, sess.CustomerID); err != nil {
			s.logger.Error("failed to mark membership as paid",
				"member_id", meta.MemberID, "transaction_id", meta.TransactionID, "error", err)
		}
	}
}

// MarkSessionExpired fails the pending transaction behind an expired
// checkout session. The pending guard lives in the conditional update, so
// losing a race against a concurrent settle leaves the completed row alone.
func (s *Service) MarkSessionExpired(ctx context.Context, sess *paymentgateway.Session) error {
	meta, ok := ParseSessionMetadata(sess.Metadata)
	if !ok {
		return nil
	}
	failed, err := s.repo.FailIfPending(ctx, meta.TransactionID)
	if err != nil {
		return err
	}
	if failed {
		s.logger.Info("checkout session expired",
			"transaction_id", meta.TransactionID, "session_id", sess.ID)
	}
	return nil
}

// ReconcileSummary reports what a reconcile sweep did.
type ReconcileSummary struct {
	Checked int
	Settled int
	Expired int
	Skipped int
}

// ReconcilePending re-checks pending transactions against the gateway.
// Paid sessions settle through the usual compare-and-set, expired sessions
// fail their transaction, open sessions are left for the customer to finish.
// Meant for an operator sweep when webhooks were down or delayed.
func (s *Service) ReconcilePending(ctx context.Context, limit int) (*ReconcileSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	pending, err := s.repo.List(ctx, ListFilter{Status: transaction.StatusPending, Limit: limit})
	if err != nil {
		return nil, err
	}

	summary := &ReconcileSummary{}
	for i := range pending {
		tx := &pending[i]
		summary.Checked++

		if tx.StripeSessionID == "" {
			summary.Skipped++
			continue
		}

		sess, err := s.gateway.GetSession(ctx, tx.StripeSessionID)
		if err != nil {
			s.logger.Warn("reconcile: session fetch failed",
				"transaction_id", tx.ID, "session_id", tx.StripeSessionID, "error", err)
			summary.Skipped++
			continue
		}

		if sess.Status == paymentgateway.SessionStatusExpired {
			if err := s.MarkSessionExpired(ctx, sess); err != nil {
				s.logger.Error("reconcile: failed to expire transaction",
					"transaction_id", tx.ID, "error", err)
				summary.Skipped++
				continue
			}
			summary.Expired++
			continue
		}

		result, err := s.SettleSession(ctx, sess)
		if err != nil {
			s.logger.Error("reconcile: settle failed", "transaction_id", tx.ID, "error", err)
			summary.Skipped++
			continue
		}
		if result.Success {
			summary.Settled++
		}
	}

	return summary, nil
}

// ----------------- ADMIN -----------------

func (s *Service) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter ListFilter) ([]transaction.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// UpdateFulfillment moves a completed store order through the back-office
// shipping states.
func (s *Service) UpdateFulfillment(ctx context.Context, id string, req *UpdateFulfillmentRequest) (*transaction.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Kind != transaction.KindStorePurchase {
		return nil, errors.NewValidationError("Only store orders have fulfillment", errors.ErrCodeInvalidTransition)
	}
	if tx.Status != transaction.StatusCompleted {
		return nil, errors.NewValidationError("Order has not been paid", errors.ErrCodeInvalidTransition)
	}
	if err := s.repo.UpdateFulfillment(ctx, id, req.Status, req.TrackingNumber, req.Notes); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// RefundTransaction records a refund issued outside the system. The
// completed guard sits in the conditional update itself.
func (s *Service) RefundTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	refunded, err := s.repo.RefundIfCompleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if !refunded {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, errors.NewValidationError("Only completed transactions can be refunded", errors.ErrCodeInvalidTransition)
	}
	return s.repo.GetByID(ctx, id)
}
