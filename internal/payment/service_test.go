package payment_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/store"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/transaction"
	paymentPkg "github.com/oba-canada/alumni-portal/internal/payment"
	"github.com/oba-canada/alumni-portal/internal/paymentgateway"
)

func TestPaymentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Service Suite")
}

// Mock repository for testing
type mockTransactionRepo struct {
	mu           sync.Mutex
	transactions map[string]*transaction.Transaction
	nextID       int

	createErr      error
	createCalls    int
	completeCalls  int
	markFailedIDs  []string
	sessionUpdates map[string]string
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{
		transactions:   make(map[string]*transaction.Transaction),
		sessionUpdates: make(map[string]string),
	}
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *transaction.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	if tx.ID == "" {
		tx.ID = fmt.Sprintf("txn-%d", m.nextID)
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *mockTransactionRepo) GetBySessionID(ctx context.Context, sessionID string) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.StripeSessionID == sessionID {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, apperrors.ErrTransactionNotFound
}

func (m *mockTransactionRepo) SetSessionID(ctx context.Context, id, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return apperrors.ErrTransactionNotFound
	}
	tx.StripeSessionID = sessionID
	m.sessionUpdates[id] = sessionID
	return nil
}

func (m *mockTransactionRepo) CompleteIfPending(ctx context.Context, id, paymentIntentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	tx, ok := m.transactions[id]
	if !ok {
		return false, apperrors.ErrTransactionNotFound
	}
	if tx.Status != transaction.StatusPending {
		return false, nil
	}
	tx.Status = transaction.StatusCompleted
	tx.StripePaymentIntentID = paymentIntentID
	return true, nil
}

func (m *mockTransactionRepo) FailIfPending(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.Status != transaction.StatusPending {
		return false, nil
	}
	tx.Status = transaction.StatusFailed
	m.markFailedIDs = append(m.markFailedIDs, id)
	return true, nil
}

func (m *mockTransactionRepo) RefundIfCompleted(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.Status != transaction.StatusCompleted {
		return false, nil
	}
	tx.Status = transaction.StatusRefunded
	return true, nil
}

func (m *mockTransactionRepo) UpdateFulfillment(ctx context.Context, id, status, trackingNumber, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return apperrors.ErrTransactionNotFound
	}
	tx.FulfillmentStatus = status
	tx.TrackingNumber = trackingNumber
	tx.Notes = notes
	return nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter paymentPkg.ListFilter) ([]transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []transaction.Transaction
	for _, tx := range m.transactions {
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

// Mock gateway for testing
type mockGateway struct {
	mu          sync.Mutex
	createCalls int
	getCalls    int
	createErr   error
	getErr      error
	lastParams  paymentgateway.CreateSessionParams
	sessions    map[string]*paymentgateway.Session
}

func newMockGateway() *mockGateway {
	return &mockGateway{sessions: make(map[string]*paymentgateway.Session)}
}

func (g *mockGateway) CreateSession(ctx context.Context, params paymentgateway.CreateSessionParams) (*paymentgateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastParams = params
	sess := &paymentgateway.Session{
		ID:            fmt.Sprintf("cs_test_%d", g.createCalls),
		URL:           "https://checkout.example.com/session",
		Status:        paymentgateway.SessionStatusOpen,
		PaymentStatus: paymentgateway.PaymentStatusUnpaid,
		Metadata:      params.Metadata,
	}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *mockGateway) GetSession(ctx context.Context, sessionID string) (*paymentgateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	sess, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", sessionID)
	}
	cp := *sess
	return &cp, nil
}

// Mock member store for testing
type mockMemberStore struct {
	members     map[string]*member.Member
	markedPaid  []string
	markPaidErr error
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{members: make(map[string]*member.Member)}
}

func (m *mockMemberStore) GetByID(ctx context.Context, id string) (*member.Member, error) {
	mm, ok := m.members[id]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return mm, nil
}

func (m *mockMemberStore) MarkPaid(ctx context.Context, id, stripeCustomerID string) error {
	if m.markPaidErr != nil {
		return m.markPaidErr
	}
	mm, ok := m.members[id]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	mm.IsPaid = true
	mm.StripeCustomerID = stripeCustomerID
	m.markedPaid = append(m.markedPaid, id)
	return nil
}

type mockMembershipTypeStore struct {
	types map[string]*membership.MembershipType
}

func (m *mockMembershipTypeStore) GetByID(ctx context.Context, id string) (*membership.MembershipType, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, apperrors.ErrMembershipTypeNotFound
	}
	return t, nil
}

type mockCatalogStore struct {
	items map[string]*store.Item
}

func (m *mockCatalogStore) GetByID(ctx context.Context, id string) (*store.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("store item not found", apperrors.ErrCodeRecordNotFound)
	}
	return it, nil
}

var _ = Describe("PaymentService", func() {
	var (
		service   *paymentPkg.Service
		repo      *mockTransactionRepo
		gateway   *mockGateway
		members   *mockMemberStore
		planStore *mockMembershipTypeStore
		catalog   *mockCatalogStore
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockTransactionRepo()
		gateway = newMockGateway()
		members = newMockMemberStore()
		planStore = &mockMembershipTypeStore{types: make(map[string]*membership.MembershipType)}
		catalog = &mockCatalogStore{items: make(map[string]*store.Item)}
		ctx = context.Background()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = paymentPkg.NewService(repo, gateway, members, planStore, catalog, paymentPkg.ServiceConfig{
			Currency:        "cad",
			PublicBaseURL:   "https://alumni.example.org",
			ShippingRegion:  "CA",
			DonationMinimum: decimal.NewFromInt(5),
		}, logger)
	})

	Describe("CreateStoreCheckout", func() {
		var req *paymentPkg.StoreCheckoutRequest

		BeforeEach(func() {
			req = &paymentPkg.StoreCheckoutRequest{
				CustomerInfo: paymentPkg.CustomerInfo{Name: "Ade Balogun", Email: "ade@example.com"},
				Items: []paymentPkg.StoreItemInput{
					{Name: "Polo Shirt", Price: decimal.RequireFromString("10.00"), Quantity: 2},
					{Name: "Mug", Price: decimal.RequireFromString("5.00"), Quantity: 1},
				},
			}
		})

		Context("when the cart is valid", func() {
			It("should persist a pending transaction and open a session", func() {
				// When
				resp, err := service.CreateStoreCheckout(ctx, req)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(resp.SessionID).ToNot(BeEmpty())
				Expect(resp.CheckoutURL).ToNot(BeEmpty())

				tx, err := repo.GetByID(ctx, resp.TransactionID)
				Expect(err).ToNot(HaveOccurred())
				Expect(tx.Status).To(Equal(transaction.StatusPending))
				Expect(tx.Kind).To(Equal(transaction.KindStorePurchase))
				Expect(tx.Amount.StringFixed(2)).To(Equal("25.00"))
				Expect(tx.StripeSessionID).To(Equal(resp.SessionID))
			})

			It("should send line items to the gateway in minor units", func() {
				// When
				_, err := service.CreateStoreCheckout(ctx, req)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(gateway.lastParams.LineItems).To(HaveLen(2))
				Expect(gateway.lastParams.LineItems[0].UnitAmount).To(Equal(int64(1000)))
				Expect(gateway.lastParams.LineItems[0].Quantity).To(Equal(int64(2)))
				Expect(gateway.lastParams.LineItems[1].UnitAmount).To(Equal(int64(500)))
				Expect(gateway.lastParams.Metadata["type"]).To(Equal(transaction.KindStorePurchase))
				Expect(gateway.lastParams.Metadata["total_amount"]).To(Equal("25.00"))
				Expect(gateway.lastParams.Metadata["items_count"]).To(Equal("3"))
			})
		})

		Context("when an item references the catalog", func() {
			BeforeEach(func() {
				catalog.items["item-1"] = &store.Item{
					ID:      "item-1",
					Name:    "Commemorative Mug",
					Price:   decimal.RequireFromString("15.00"),
					InStock: true,
				}
			})

			It("should re-derive the price from the stored catalog", func() {
				// Given a client trying to pay less than the stored price
				req.Items = []paymentPkg.StoreItemInput{
					{ItemID: "item-1", Name: "Cheap Mug", Price: decimal.RequireFromString("0.01"), Quantity: 1},
				}

				// When
				resp, err := service.CreateStoreCheckout(ctx, req)

				// Then
				Expect(err).ToNot(HaveOccurred())
				tx, _ := repo.GetByID(ctx, resp.TransactionID)
				Expect(tx.Amount.StringFixed(2)).To(Equal("15.00"))
				Expect(gateway.lastParams.LineItems[0].UnitAmount).To(Equal(int64(1500)))
				Expect(gateway.lastParams.LineItems[0].Name).To(Equal("Commemorative Mug"))
			})

			It("should reject out-of-stock items without calling the gateway", func() {
				// Given
				catalog.items["item-1"].InStock = false
				req.Items = []paymentPkg.StoreItemInput{
					{ItemID: "item-1", Name: "Mug", Price: decimal.RequireFromString("15.00"), Quantity: 1},
				}

				// When
				_, err := service.CreateStoreCheckout(ctx, req)

				// Then
				Expect(err).To(HaveOccurred())
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidItems))
				Expect(gateway.createCalls).To(BeZero())
			})
		})

		Context("when the cart is invalid", func() {
			It("should reject an empty cart", func() {
				// Given
				req.Items = nil

				// When
				_, err := service.CreateStoreCheckout(ctx, req)

				// Then
				Expect(err).To(HaveOccurred())
				Expect(repo.createCalls).To(BeZero())
				Expect(gateway.createCalls).To(BeZero())
			})

			It("should reject a zero quantity", func() {
				// Given
				req.Items[0].Quantity = 0

				// When
				_, err := service.CreateStoreCheckout(ctx, req)

				// Then
				Expect(err).To(HaveOccurred())
				Expect(gateway.createCalls).To(BeZero())
			})
		})

		Context("when the gateway fails", func() {
			It("should return a gateway error and leave the pending row", func() {
				// Given
				gateway.createErr = fmt.Errorf("stripe unavailable")

				// When
				_, err := service.CreateStoreCheckout(ctx, req)

				// Then
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(apperrors.ErrCodeGatewayUnavailable))

				pending, _ := repo.List(ctx, paymentPkg.ListFilter{Status: transaction.StatusPending})
				Expect(pending).To(HaveLen(1))
			})
		})

		Context("when the caller is authenticated", func() {
			It("should attach the member id to the transaction", func() {
				// Given
				authedCtx := apperrors.ContextWithMemberID(ctx, "member-42")

				// When
				resp, err := service.CreateStoreCheckout(authedCtx, req)

				// Then
				Expect(err).ToNot(HaveOccurred())
				tx, _ := repo.GetByID(ctx, resp.TransactionID)
				Expect(tx.MemberID).ToNot(BeNil())
				Expect(*tx.MemberID).To(Equal("member-42"))
			})
		})
	})

	Describe("CreateDonationCheckout", func() {
		var req *paymentPkg.DonationCheckoutRequest

		BeforeEach(func() {
			req = &paymentPkg.DonationCheckoutRequest{
				DonorName:  "Bola Akin",
				DonorEmail: "bola@example.com",
				Amount:     decimal.RequireFromString("50.00"),
				Category:   "scholarship",
			}
		})

		It("should open a session with a single donation line item", func() {
			// When
			resp, err := service.CreateDonationCheckout(ctx, req)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(gateway.lastParams.LineItems).To(HaveLen(1))
			Expect(gateway.lastParams.LineItems[0].UnitAmount).To(Equal(int64(5000)))
			Expect(gateway.lastParams.SubmitType).To(Equal("donate"))

			tx, _ := repo.GetByID(ctx, resp.TransactionID)
			Expect(tx.Kind).To(Equal(transaction.KindDonation))
			Expect(tx.Category).To(Equal("scholarship"))
		})

		It("should reject donations below the configured minimum", func() {
			// Given
			req.Amount = decimal.RequireFromString("2.00")

			// When
			_, err := service.CreateDonationCheckout(ctx, req)

			// Then
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeAmountTooLow))
			Expect(repo.createCalls).To(BeZero())
		})
	})

	Describe("CreateMembershipCheckout", func() {
		BeforeEach(func() {
			members.members["member-1"] = &member.Member{
				ID:           "member-1",
				FullName:     "Chidi Okafor",
				EmailAddress: "chidi@example.com",
			}
			planStore.types["plan-1"] = &membership.MembershipType{
				ID:       "plan-1",
				Name:     "Annual",
				Price:    decimal.RequireFromString("50.00"),
				IsActive: true,
			}
		})

		It("should price the transaction from the stored plan", func() {
			// When
			resp, err := service.CreateMembershipCheckout(ctx, "member-1", &paymentPkg.MembershipCheckoutRequest{
				MembershipTypeID: "plan-1",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			tx, _ := repo.GetByID(ctx, resp.TransactionID)
			Expect(tx.Amount.StringFixed(2)).To(Equal("50.00"))
			Expect(tx.Kind).To(Equal(transaction.KindMembership))
			Expect(gateway.lastParams.Metadata["member_id"]).To(Equal("member-1"))
		})

		It("should reject members whose membership is already paid", func() {
			// Given
			members.members["member-1"].IsPaid = true

			// When
			_, err := service.CreateMembershipCheckout(ctx, "member-1", &paymentPkg.MembershipCheckoutRequest{
				MembershipTypeID: "plan-1",
			})

			// Then
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidTransition))
			Expect(gateway.createCalls).To(BeZero())
		})

		It("should treat inactive plans as not found", func() {
			// Given
			planStore.types["plan-1"].IsActive = false

			// When
			_, err := service.CreateMembershipCheckout(ctx, "member-1", &paymentPkg.MembershipCheckoutRequest{
				MembershipTypeID: "plan-1",
			})

			// Then
			Expect(err).To(MatchError(apperrors.ErrMembershipTypeNotFound))
		})
	})

	Describe("VerifyPayment", func() {
		var sessionID, txID string

		// Opens a real checkout through the service so the session carries
		// the metadata verification depends on.
		startCheckout := func() {
			resp, err := service.CreateDonationCheckout(ctx, &paymentPkg.DonationCheckoutRequest{
				DonorName:  "Bola Akin",
				DonorEmail: "bola@example.com",
				Amount:     decimal.RequireFromString("50.00"),
				Category:   "scholarship",
			})
			Expect(err).ToNot(HaveOccurred())
			sessionID = resp.SessionID
			txID = resp.TransactionID
		}

		Context("when the session id is missing", func() {
			It("should fail validation without touching the store or gateway", func() {
				// When
				result, err := service.VerifyPayment(ctx, "")

				// Then
				Expect(result).To(BeNil())
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(apperrors.ErrCodeMissingSessionID))
				Expect(gateway.getCalls).To(BeZero())
				Expect(repo.completeCalls).To(BeZero())
			})
		})

		Context("when the gateway is unreachable", func() {
			It("should return a gateway error", func() {
				// Given
				startCheckout()
				gateway.getErr = fmt.Errorf("stripe timeout")

				// When
				_, err := service.VerifyPayment(ctx, sessionID)

				// Then
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(apperrors.ErrCodeGatewayUnavailable))
			})
		})

		Context("when the session is paid", func() {
			BeforeEach(func() {
				startCheckout()
				gateway.sessions[sessionID].PaymentStatus = paymentgateway.PaymentStatusPaid
				gateway.sessions[sessionID].PaymentIntentID = "pi_123"
			})

			It("should complete the transaction and record the payment intent", func() {
				// When
				result, err := service.VerifyPayment(ctx, sessionID)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(result.Status).To(Equal(transaction.StatusCompleted))
				Expect(result.TransactionID).To(Equal(txID))

				tx, _ := repo.GetByID(ctx, txID)
				Expect(tx.Status).To(Equal(transaction.StatusCompleted))
				Expect(tx.StripePaymentIntentID).To(Equal("pi_123"))
			})

			It("should stay successful and idempotent on repeat verification", func() {
				// When
				first, err1 := service.VerifyPayment(ctx, sessionID)
				second, err2 := service.VerifyPayment(ctx, sessionID)

				// Then
				Expect(err1).ToNot(HaveOccurred())
				Expect(err2).ToNot(HaveOccurred())
				Expect(first.Success).To(BeTrue())
				Expect(second.Success).To(BeTrue())
				Expect(second.Status).To(Equal(transaction.StatusCompleted))
			})

			It("should let exactly one concurrent verifier win the compare-and-set", func() {
				// When
				const verifiers = 8
				var wg sync.WaitGroup
				results := make([]*paymentPkg.VerifyResult, verifiers)
				for i := 0; i < verifiers; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						defer GinkgoRecover()
						r, err := service.VerifyPayment(ctx, sessionID)
						Expect(err).ToNot(HaveOccurred())
						results[i] = r
					}(i)
				}
				wg.Wait()

				// Then every caller sees completed and the row settled once
				for _, r := range results {
					Expect(r.Success).To(BeTrue())
					Expect(r.Status).To(Equal(transaction.StatusCompleted))
				}
				tx, _ := repo.GetByID(ctx, txID)
				Expect(tx.Status).To(Equal(transaction.StatusCompleted))
			})

			It("should keep the row completed when an expiry event loses the race", func() {
				// Given a verification that already settled the transaction
				result, err := service.VerifyPayment(ctx, sessionID)
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())

				// When a stale checkout.session.expired event arrives
				err = service.MarkSessionExpired(ctx, gateway.sessions[sessionID])

				// Then the completed row is untouched
				Expect(err).ToNot(HaveOccurred())
				tx, _ := repo.GetByID(ctx, txID)
				Expect(tx.Status).To(Equal(transaction.StatusCompleted))
				Expect(tx.StripePaymentIntentID).To(Equal("pi_123"))
			})

			It("should settle through the stored session id when the metadata is stripped", func() {
				// Given the metadata bag was lost in transit
				gateway.sessions[sessionID].Metadata = nil

				// When
				result, err := service.VerifyPayment(ctx, sessionID)

				// Then the row recorded at checkout still settles
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(result.TransactionID).To(Equal(txID))
				Expect(result.TotalAmount).To(Equal("50.00"))

				tx, _ := repo.GetByID(ctx, txID)
				Expect(tx.Status).To(Equal(transaction.StatusCompleted))
			})
		})

		Context("when the session is unpaid", func() {
			It("should report pending and leave the row untouched", func() {
				// Given
				startCheckout()

				// When
				result, err := service.VerifyPayment(ctx, sessionID)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeFalse())
				Expect(result.Status).To(Equal(transaction.StatusPending))
				Expect(repo.completeCalls).To(BeZero())

				tx, _ := repo.GetByID(ctx, txID)
				Expect(tx.Status).To(Equal(transaction.StatusPending))
			})
		})

		Context("when the payment status is unrecognized", func() {
			It("should report failed without moving the row", func() {
				// Given
				startCheckout()
				gateway.sessions[sessionID].PaymentStatus = paymentgateway.PaymentStatusNoPaymentRequired

				// When
				result, err := service.VerifyPayment(ctx, sessionID)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeFalse())
				Expect(result.Status).To(Equal(transaction.StatusFailed))

				tx, _ := repo.GetByID(ctx, txID)
				Expect(tx.Status).To(Equal(transaction.StatusPending))
			})
		})

		Context("when the session carries no usable metadata", func() {
			It("should fail verification", func() {
				// Given
				gateway.sessions["cs_foreign"] = &paymentgateway.Session{
					ID:            "cs_foreign",
					PaymentStatus: paymentgateway.PaymentStatusPaid,
					Metadata:      map[string]string{"unrelated": "true"},
				}

				// When
				_, err := service.VerifyPayment(ctx, "cs_foreign")

				// Then
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(apperrors.ErrCodeVerificationFailed))
			})
		})

		Context("when a paid membership session settles", func() {
			It("should mark the member as paid", func() {
				// Given
				members.members["member-1"] = &member.Member{
					ID:           "member-1",
					FullName:     "Chidi Okafor",
					EmailAddress: "chidi@example.com",
				}
				planStore.types["plan-1"] = &membership.MembershipType{
					ID:       "plan-1",
					Name:     "Annual",
					Price:    decimal.RequireFromString("50.00"),
					IsActive: true,
				}
				resp, err := service.CreateMembershipCheckout(ctx, "member-1", &paymentPkg.MembershipCheckoutRequest{
					MembershipTypeID: "plan-1",
				})
				Expect(err).ToNot(HaveOccurred())
				gateway.sessions[resp.SessionID].PaymentStatus = paymentgateway.PaymentStatusPaid
				gateway.sessions[resp.SessionID].CustomerID = "cus_123"

				// When
				result, err := service.VerifyPayment(ctx, resp.SessionID)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Success).To(BeTrue())
				Expect(members.markedPaid).To(ConsistOf("member-1"))
				Expect(members.members["member-1"].StripeCustomerID).To(Equal("cus_123"))
			})
		})
	})

	Describe("ReconcilePending", func() {
		It("should settle paid sessions and expire dead ones", func() {
			// Given three pending checkouts
			mkDonation := func() (string, string) {
				resp, err := service.CreateDonationCheckout(ctx, &paymentPkg.DonationCheckoutRequest{
					DonorName:  "Bola Akin",
					DonorEmail: "bola@example.com",
					Amount:     decimal.RequireFromString("25.00"),
					Category:   "general",
				})
				Expect(err).ToNot(HaveOccurred())
				return resp.SessionID, resp.TransactionID
			}
			paidSess, paidTx := mkDonation()
			expiredSess, expiredTx := mkDonation()
			openSess, openTx := mkDonation()

			gateway.sessions[paidSess].PaymentStatus = paymentgateway.PaymentStatusPaid
			gateway.sessions[expiredSess].Status = paymentgateway.SessionStatusExpired
			_ = openSess

			// When
			summary, err := service.ReconcilePending(ctx, 10)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(summary.Checked).To(Equal(3))
			Expect(summary.Settled).To(Equal(1))
			Expect(summary.Expired).To(Equal(1))

			paid, _ := repo.GetByID(ctx, paidTx)
			Expect(paid.Status).To(Equal(transaction.StatusCompleted))
			expired, _ := repo.GetByID(ctx, expiredTx)
			Expect(expired.Status).To(Equal(transaction.StatusFailed))
			open, _ := repo.GetByID(ctx, openTx)
			Expect(open.Status).To(Equal(transaction.StatusPending))
		})
	})

	Describe("RefundTransaction", func() {
		It("should only refund completed transactions", func() {
			// Given a pending transaction
			resp, err := service.CreateDonationCheckout(ctx, &paymentPkg.DonationCheckoutRequest{
				DonorName:  "Bola Akin",
				DonorEmail: "bola@example.com",
				Amount:     decimal.RequireFromString("25.00"),
				Category:   "general",
			})
			Expect(err).ToNot(HaveOccurred())

			// When
			_, err = service.RefundTransaction(ctx, resp.TransactionID)

			// Then
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidTransition))
		})
	})

	Describe("UpdateFulfillment", func() {
		It("should reject fulfillment updates on non-store transactions", func() {
			// Given a completed donation
			resp, err := service.CreateDonationCheckout(ctx, &paymentPkg.DonationCheckoutRequest{
				DonorName:  "Bola Akin",
				DonorEmail: "bola@example.com",
				Amount:     decimal.RequireFromString("25.00"),
				Category:   "general",
			})
			Expect(err).ToNot(HaveOccurred())
			_, err = repo.CompleteIfPending(ctx, resp.TransactionID, "pi_1")
			Expect(err).ToNot(HaveOccurred())

			// When
			_, err = service.UpdateFulfillment(ctx, resp.TransactionID, &paymentPkg.UpdateFulfillmentRequest{
				Status: "shipped",
			})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})
})
