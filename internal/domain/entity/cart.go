package entity

// CartLine is one line of the working order cart. The cart itself is owned by
// the order-composition UI; the checkout flow only reads a snapshot of it and
// clears it after a confirmed sale.
type CartLine struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Totals is the read-only result of the totals collaborator's computation.
// TablePrice is the reservation surcharge in effect when it was computed.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	ServiceCharge  float64 `json:"serviceCharge"`
	Tax            float64 `json:"tax"`
	DiscountAmount float64 `json:"discountAmount"`
	TablePrice     float64 `json:"tablePrice"`
	Payable        float64 `json:"payable"`
}
