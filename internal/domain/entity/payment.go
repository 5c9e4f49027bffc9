package entity

import (
	"time"

	"github.com/clubtryara/pos/internal/domain/enum"
)

// Payment carries the tender details entered at checkout. Only the fields for
// the selected method are populated; the rest stay zero and are omitted from
// the wire payload.
type Payment struct {
	Method enum.PaymentMethod `json:"method"`

	// Cash
	AmountReceived float64 `json:"amount_received,omitempty"`

	// GCash
	GcashNumber string `json:"gcash_number,omitempty"`
	GcashRef    string `json:"gcash_ref,omitempty"`

	// Bank / card
	BankCard string `json:"bank_card,omitempty"`
	BankRef  string `json:"bank_ref,omitempty"`
}

// SaleMeta is the bookkeeping block attached to every submitted sale.
type SaleMeta struct {
	Flow      enum.CheckoutFlow `json:"flow"`
	Cashier   string            `json:"cashier"`
	Note      string            `json:"note"`
	Timestamp time.Time         `json:"timestamp"`
}
