package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores the response of a processed checkout request so a
// duplicate submission with the same key replays it instead of re-running.
// Uniqueness is scoped per cashier and endpoint: the terminal sends one token
// to both the sale and stock endpoints, so the key alone is not unique.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idem_key_scope;size:255;not null"` // the Idempotency-Key header value
	CashierID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idem_key_scope;index"`
	Endpoint     string    `gorm:"size:255;not null;uniqueIndex:idx_idem_key_scope"` // e.g. "POST /api/v1/sales"
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
