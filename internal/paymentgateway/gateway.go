package paymentgateway

import "context"

type PaymentStatus string

const (
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusNoPaymentRequired PaymentStatus = "no_payment_required"
)

// SessionStatus is the lifecycle state of the hosted page itself, distinct
// from whether money moved.
type SessionStatus string

const (
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusExpired  SessionStatus = "expired"
)

// LineItem is one entry on the hosted checkout page. UnitAmount is in the
// smallest currency unit (cents for CAD).
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	ImageURL    string
}

type CreateSessionParams struct {
	LineItems             []LineItem
	Currency              string
	SuccessURL            string
	CancelURL             string
	CustomerEmail         string
	Metadata              map[string]string
	SubmitType            string
	CollectBillingAddress bool
	ShippingCountries     []string
}

// Session is the provider-owned checkout object, reduced to the fields the
// verification flow reads.
type Session struct {
	ID              string
	URL             string
	Status          SessionStatus
	PaymentStatus   PaymentStatus
	PaymentIntentID string
	CustomerID      string
	AmountTotal     int64
	Metadata        map[string]string
}

// Gateway abstracts the hosted-checkout provider. CreateSession opens a new
// hosted session; GetSession is a read-only fetch and must never mutate
// provider state.
type Gateway interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}
