package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit-row states for a settlement attempt. These are internal to the
// settlement worker; the transaction's public status lives in the read model.
const (
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
)

// Payment is the durable record of a settlement attempt. One row is created
// when a TransactionCreated event is picked up and updated once the gateway
// outcome is known. The broker event stream remains the source of truth for
// the read model; this table exists for audit and reconciliation.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount        int64     `gorm:"not null"`
	Currency      string    `gorm:"type:varchar(10);not null"`
	MerchantID    string    `gorm:"type:varchar(64);not null"`
	CustomerID    string    `gorm:"type:varchar(64);not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	GatewayRef    *string   `gorm:"type:varchar(255)"`
	FailureReason *string   `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
