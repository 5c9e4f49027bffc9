package entity

// ReceiptHeader holds the venue header printed at the top of a receipt.
type ReceiptHeader struct {
	VenueName string `json:"venue_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt. It is not a
// database entity; the renderer composes it from the checkout payload and the
// saved sale's identifier at print time.
type Receipt struct {
	Header      ReceiptHeader `json:"header"`
	SaleID      int64         `json:"sale_id"`
	Date        string        `json:"date"`
	Cashier     string        `json:"cashier,omitempty"`
	Flow        string        `json:"flow"`
	Reservation string        `json:"reservation,omitempty"` // e.g. "Tonio (Table 12, Party 4)"
	Items       []ReceiptItem `json:"items"`
	Totals      Totals        `json:"totals"`
	Payment     Payment       `json:"payment"`
}
