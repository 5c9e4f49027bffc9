package entity

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Product is a sellable menu item with tracked stock. Price is stored in
// centavos and converted to a decimal in the JSON representation.
type Product struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Price     int64          `gorm:"not null" json:"-"` // centavos
	Quantity  int            `gorm:"default:0" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert centavos to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: float64(p.Price) / 100,
	})
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
