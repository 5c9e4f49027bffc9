package request

import "github.com/clubtryara/pos/internal/domain/entity"

// SaveSaleRequest is the checkout submission body. It mirrors the terminal's
// sale payload wire format.
type SaveSaleRequest struct {
	Cart     []entity.CartLine `json:"cart" binding:"required,min=1"`
	Totals   entity.Totals     `json:"totals"`
	Reserved *entity.Table     `json:"reserved"`
	Payment  entity.Payment    `json:"payment" binding:"required"`
	Meta     entity.SaleMeta   `json:"meta"`
}

// Payload converts the request into the domain payload
func (r *SaveSaleRequest) Payload() entity.SalePayload {
	return entity.SalePayload{
		Cart:     r.Cart,
		Totals:   r.Totals,
		Reserved: r.Reserved,
		Payment:  r.Payment,
		Meta:     r.Meta,
	}
}

// AdjustStockRequest is the inventory deduction body sent after a proceed-flow
// sale.
type AdjustStockRequest struct {
	Items    []entity.StockItem `json:"items" binding:"required,min=1"`
	Totals   entity.Totals      `json:"totals"`
	Reserved *entity.Table      `json:"reserved"`
}
