package transaction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kind discriminates what a payment attempt is for.
const (
	KindMembership    = "membership"
	KindDonation      = "donation"
	KindStorePurchase = "store_purchase"
)

// Status lifecycle: pending → completed (verification), pending → failed
// (explicit cancel/expiry), completed → refunded (admin). failed and
// refunded are terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Fulfillment states for completed store orders, managed by the admin
// back-office after payment.
const (
	FulfillmentPending   = "pending"
	FulfillmentConfirmed = "confirmed"
	FulfillmentShipped   = "shipped"
	FulfillmentDelivered = "delivered"
	FulfillmentCancelled = "cancelled"
)

// LineItem is one purchased store item. ItemID references the catalog when
// the item was picked from it; ad-hoc items carry only name and price.
type LineItem struct {
	ItemID      string          `json:"item_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// Transaction tracks one payment attempt against the hosted checkout and is
// the only record the verification flow is allowed to advance.
type Transaction struct {
	ID                    string          `gorm:"column:id;type:uuid;primaryKey"`
	Kind                  string          `gorm:"column:kind;not null;index"`
	MemberID              *string         `gorm:"column:member_id;type:uuid"`
	PayerName             string          `gorm:"column:payer_name"`
	PayerEmail            string          `gorm:"column:payer_email"`
	Amount                decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Currency              string          `gorm:"column:currency;default:cad"`
	Category              string          `gorm:"column:category"`
	Message               string          `gorm:"column:message"`
	IsAnonymous           bool            `gorm:"column:is_anonymous;default:false"`
	Items                 json.RawMessage `gorm:"column:items;type:jsonb"`
	ShippingAddress       string          `gorm:"column:shipping_address"`
	Status                string          `gorm:"column:status;default:pending;index"`
	FulfillmentStatus     string          `gorm:"column:fulfillment_status"`
	TrackingNumber        string          `gorm:"column:tracking_number"`
	Notes                 string          `gorm:"column:notes"`
	StripeSessionID       string          `gorm:"column:stripe_session_id;index"`
	StripePaymentIntentID string          `gorm:"column:stripe_payment_intent_id"`
	CreatedAt             time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Transaction) TableName() string {
	return "payment_transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Transaction) SetLineItems(items []LineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	t.Items = raw
	return nil
}

func (t *Transaction) LineItems() ([]LineItem, error) {
	if len(t.Items) == 0 {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal(t.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
