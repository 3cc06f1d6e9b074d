package payment

import (
	"strconv"

	"github.com/oba-canada/alumni-portal/internal/core/datamodel/transaction"
)

// SessionMetadata is the closed set of fields written into the checkout
// session's metadata bag at creation and read back at verification. The
// success page renders entirely from these echoes, so everything it shows
// must be here.
type SessionMetadata struct {
	Kind          string
	TransactionID string
	CustomerName  string
	CustomerEmail string
	TotalAmount   string
	ItemsCount    int64
	Category      string
	MemberID      string
}

const (
	metaKeyType          = "type"
	metaKeyTransactionID = "transaction_id"
	metaKeyCustomerName  = "customer_name"
	metaKeyCustomerEmail = "customer_email"
	metaKeyTotalAmount   = "total_amount"
	metaKeyItemsCount    = "items_count"
	metaKeyCategory      = "category"
	metaKeyMemberID      = "member_id"
)

func (m SessionMetadata) ToMap() map[string]string {
	out := map[string]string{
		metaKeyType:          m.Kind,
		metaKeyTransactionID: m.TransactionID,
		metaKeyCustomerName:  m.CustomerName,
		metaKeyCustomerEmail: m.CustomerEmail,
		metaKeyTotalAmount:   m.TotalAmount,
		metaKeyItemsCount:    strconv.FormatInt(m.ItemsCount, 10),
	}
	if m.Category != "" {
		out[metaKeyCategory] = m.Category
	}
	if m.MemberID != "" {
		out[metaKeyMemberID] = m.MemberID
	}
	return out
}

// metadataFromTransaction rebuilds the record from the stored row when a
// session arrives without its metadata bag.
func metadataFromTransaction(tx *transaction.Transaction) SessionMetadata {
	meta := SessionMetadata{
		Kind:          tx.Kind,
		TransactionID: tx.ID,
		CustomerName:  tx.PayerName,
		CustomerEmail: tx.PayerEmail,
		TotalAmount:   tx.Amount.StringFixed(2),
		ItemsCount:    1,
		Category:      tx.Category,
	}
	if items, err := tx.LineItems(); err == nil && len(items) > 0 {
		meta.ItemsCount = 0
		for _, item := range items {
			meta.ItemsCount += item.Quantity
		}
	}
	if tx.MemberID != nil {
		meta.MemberID = *tx.MemberID
	}
	return meta
}

// ParseSessionMetadata rebuilds the typed record from the provider's string
// map. ok is false when the bag does not belong to this system (unknown
// kind or missing transaction reference).
func ParseSessionMetadata(raw map[string]string) (SessionMetadata, bool) {
	meta := SessionMetadata{
		Kind:          raw[metaKeyType],
		TransactionID: raw[metaKeyTransactionID],
		CustomerName:  raw[metaKeyCustomerName],
		CustomerEmail: raw[metaKeyCustomerEmail],
		TotalAmount:   raw[metaKeyTotalAmount],
		Category:      raw[metaKeyCategory],
		MemberID:      raw[metaKeyMemberID],
	}
	if count, err := strconv.ParseInt(raw[metaKeyItemsCount], 10, 64); err == nil {
		meta.ItemsCount = count
	}

	switch meta.Kind {
	case transaction.KindMembership, transaction.KindDonation, transaction.KindStorePurchase:
	default:
		return meta, false
	}
	if meta.TransactionID == "" {
		return meta, false
	}
	return meta, true
}
