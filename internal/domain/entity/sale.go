package entity

import (
	"encoding/json"
	"time"

	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale is a persisted checkout. Monetary columns are stored in centavos and
// converted to decimals in the JSON representation.
type Sale struct {
	ID            int64              `gorm:"primaryKey" json:"id"`
	CashierID     uuid.UUID          `gorm:"type:uuid;index" json:"cashier_id"`
	CashierName   string             `gorm:"size:255" json:"cashier_name"`
	Flow          enum.CheckoutFlow  `gorm:"size:20;not null" json:"flow"`
	PaymentMethod enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	PaymentDetail string             `gorm:"type:text" json:"-"` // serialized Payment, reference numbers included
	TableID       *int64             `gorm:"index" json:"table_id,omitempty"`
	TableSnapshot string             `gorm:"type:text" json:"-"` // serialized Table as selected at sale time

	Subtotal       int64 `gorm:"default:0" json:"-"`
	ServiceCharge  int64 `gorm:"default:0" json:"-"`
	Tax            int64 `gorm:"default:0" json:"-"`
	DiscountAmount int64 `gorm:"default:0" json:"-"`
	TablePrice     int64 `gorm:"default:0" json:"-"`
	Payable        int64 `gorm:"default:0" json:"-"`

	Note      string         `gorm:"type:text" json:"note"`
	SoldAt    time.Time      `gorm:"not null" json:"sold_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Lines []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// MarshalJSON custom marshaler to convert centavos to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal       float64 `json:"subtotal"`
		ServiceCharge  float64 `json:"service_charge"`
		Tax            float64 `json:"tax"`
		DiscountAmount float64 `json:"discount_amount"`
		TablePrice     float64 `json:"table_price"`
		Payable        float64 `json:"payable"`
	}{
		Alias:          Alias(s),
		Subtotal:       float64(s.Subtotal) / 100,
		ServiceCharge:  float64(s.ServiceCharge) / 100,
		Tax:            float64(s.Tax) / 100,
		DiscountAmount: float64(s.DiscountAmount) / 100,
		TablePrice:     float64(s.TablePrice) / 100,
		Payable:        float64(s.Payable) / 100,
	})
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleLine is one cart line captured on a sale.
type SaleLine struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	SaleID    int64     `gorm:"not null;index" json:"sale_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"size:255" json:"name"`
	UnitPrice int64     `gorm:"not null" json:"-"` // centavos
	Qty       int       `gorm:"not null" json:"qty"`
	Total     int64     `gorm:"not null" json:"-"` // centavos
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON custom marshaler to convert centavos to decimal for API responses
func (l SaleLine) MarshalJSON() ([]byte, error) {
	type Alias SaleLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		Total:     float64(l.Total) / 100,
	})
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}
