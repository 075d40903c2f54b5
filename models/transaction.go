package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the externally visible lifecycle of a transaction.
// The string values are part of the wire format for both the broker events
// and the HTTP responses.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusCompleted TransactionStatus = "Completed"
	StatusFailed    TransactionStatus = "Failed"
	StatusRefunded  TransactionStatus = "Refunded"
)

// CreateTransactionRequest is the command payload accepted on
// POST /api/v1/transaction. Amount is in minor currency units.
type CreateTransactionRequest struct {
	Amount     uint64 `json:"amount" binding:"required" validate:"required,gt=0"`
	Currency   string `json:"currency" binding:"required" validate:"required,len=3,alpha,uppercase"`
	MerchantID string `json:"merchant_id" binding:"required" validate:"required"`
	CustomerID string `json:"customer_id" binding:"required" validate:"required"`
}

// CreateTransactionResponse is returned for an accepted command and replayed
// verbatim for idempotent retries of the same key.
type CreateTransactionResponse struct {
	ID     uuid.UUID         `json:"id"`
	Status TransactionStatus `json:"status"`
}

// PaymentStatusResponse is the query-side view of a transaction.
type PaymentStatusResponse struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	GatewayRef    string            `json:"gateway_ref,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}

// IdempotencyRecord caches the exact response produced for an idempotency
// key so that client retries observe byte-identical output.
type IdempotencyRecord struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

// TransactionStatusRecord is the read-model entry maintained by the status
// projection. UpdatedAt carries the timestamp of the event that produced it
// and drives the monotonic merge rule.
type TransactionStatusRecord struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	GatewayRef    string            `json:"gateway_ref,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Supersedes reports whether r may overwrite existing. Re-delivered events
// arrive at least once and possibly out of order; a record only loses to a
// strictly newer one, so replaying the same event is a no-op write and a
// stale redelivery never regresses a terminal status.
func (r *TransactionStatusRecord) Supersedes(existing *TransactionStatusRecord) bool {
	if existing == nil {
		return true
	}
	return !r.UpdatedAt.Before(existing.UpdatedAt)
}
