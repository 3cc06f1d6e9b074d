package payment

import (
	"github.com/shopspring/decimal"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
)

// CustomerInfo identifies the payer for receipts and the success page.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StoreItemInput struct {
	ItemID      string          `json:"item_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type StoreCheckoutRequest struct {
	Items           []StoreItemInput `json:"items"`
	CustomerInfo    CustomerInfo     `json:"customer_info"`
	ShippingAddress string           `json:"shipping_address,omitempty"`
}

func (r *StoreCheckoutRequest) Validate() error {
	if len(r.Items) == 0 {
		return errors.NewValidationError("at least one item is required", errors.ErrCodeInvalidItems)
	}

	validator := validation.NewValidator()
	validator.Field("customer_info.name", r.CustomerInfo.Name).Required()
	validator.Field("customer_info.email", r.CustomerInfo.Email).Required().Email()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	for _, item := range r.Items {
		v := validation.NewValidator()
		v.Field("items.name", item.Name).Required()
		v.Field("items.quantity", item.Quantity).MinInt(1, errors.ErrCodeInvalidItems)
		v.Field("items.price", item.Price).NonNegativeAmount(errors.ErrCodeInvalidAmount)
		if appErr := v.Validate(); appErr != nil {
			return appErr
		}
	}
	return nil
}

type DonationCheckoutRequest struct {
	DonorName   string          `json:"donor_name"`
	DonorEmail  string          `json:"donor_email"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Message     string          `json:"message,omitempty"`
	IsAnonymous bool            `json:"is_anonymous,omitempty"`
}

func (r *DonationCheckoutRequest) Validate(minimum decimal.Decimal) error {
	validator := validation.NewValidator()
	validator.Field("donor_name", r.DonorName).Required()
	validator.Field("donor_email", r.DonorEmail).Required().Email()
	validator.Field("category", r.Category).Required()
	validator.Field("amount", r.Amount).Required().MinAmount(minimum, errors.ErrCodeAmountTooLow)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type MembershipCheckoutRequest struct {
	MembershipTypeID string `json:"membership_type_id"`
}

func (r *MembershipCheckoutRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("membership_type_id", r.MembershipTypeID).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId"`
}

// CheckoutResponse carries what the browser needs to hand control to the
// hosted checkout page.
type CheckoutResponse struct {
	SessionID     string `json:"sessionId"`
	CheckoutURL   string `json:"checkoutUrl,omitempty"`
	TransactionID string `json:"transactionId"`
}

// VerifyResult is the success-page contract: three visible states map onto
// Success+Status, and the display fields are echoed from session metadata
// so no further lookup is needed.
type VerifyResult struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	Kind          string `json:"kind,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	TotalAmount   string `json:"totalAmount,omitempty"`
	ItemsCount    int64  `json:"itemsCount,omitempty"`
	Message       string `json:"message,omitempty"`
}

type UpdateFulfillmentRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func (r *UpdateFulfillmentRequest) Validate() error {
	switch r.Status {
	case "pending", "confirmed", "shipped", "delivered", "cancelled":
		return nil
	}
	return errors.NewValidationError("invalid fulfillment status", errors.ErrCodeValidationFailed)
}
