package entity

import (
	"strconv"
	"time"
)

// Table represents a reservable unit on the venue floor. Price is the
// surcharge applied to an order's totals while the table is selected.
// Once fetched by the terminal it is treated as an immutable value.
type Table struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	TableNumber string    `gorm:"size:50" json:"table_number"`
	PartySize   int       `json:"party_size"`
	Status      string    `gorm:"size:100;index" json:"status"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName returns the table name for the Table model
func (Table) TableName() string {
	return "venue_tables"
}

// DisplayNumber falls back to the numeric ID when no table number was set.
func (t *Table) DisplayNumber() string {
	if t.TableNumber != "" {
		return t.TableNumber
	}
	return strconv.FormatInt(t.ID, 10)
}
