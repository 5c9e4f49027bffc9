package entity

// SalePayload is the wire form of one checkout attempt as submitted to the
// sale-persistence endpoint. It is constructed fresh per attempt and never
// mutated after submission.
type SalePayload struct {
	Cart     []CartLine `json:"cart"`
	Totals   Totals     `json:"totals"`
	Reserved *Table     `json:"reserved"`
	Payment  Payment    `json:"payment"`
	Meta     SaleMeta   `json:"meta"`
}

// StockItem is one per-line stock deduction.
type StockItem struct {
	ID  int64 `json:"id"`
	Qty int   `json:"qty"`
}

// StockAdjustment is the wire form of the inventory-adjustment request.
type StockAdjustment struct {
	Items    []StockItem `json:"items"`
	Totals   Totals      `json:"totals"`
	Reserved *Table      `json:"reserved"`
}
