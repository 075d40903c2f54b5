package models

import (
	"time"

	"github.com/google/uuid"
)

// Event type tags carried in every envelope.
const (
	EventTypeTransactionCreated  = "TRANSACTION.CREATED"
	EventTypePaymentStatusUpdate = "PAYMENT.STATUS_UPDATED"
)

// TransactionCreatedEvent is the immutable fact published to the
// transactions topic once per accepted command.
type TransactionCreatedEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     string    `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        uint64    `json:"amount"`
	Currency      string    `json:"currency"`
	MerchantID    string    `json:"merchant_id"`
	CustomerID    string    `json:"customer_id"`
}

func NewTransactionCreatedEvent(transactionID uuid.UUID, amount uint64, currency, merchantID, customerID string) TransactionCreatedEvent {
	return TransactionCreatedEvent{
		EventID:       uuid.New(),
		EventType:     EventTypeTransactionCreated,
		Timestamp:     time.Now().UTC(),
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		MerchantID:    merchantID,
		CustomerID:    customerID,
	}
}

// PaymentStatusUpdatedEvent is published to the payment-status topic once
// per settlement attempt outcome. GatewayRef is empty on failure.
type PaymentStatusUpdatedEvent struct {
	EventID       uuid.UUID         `json:"event_id"`
	EventType     string            `json:"event_type"`
	Timestamp     time.Time         `json:"timestamp"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	GatewayRef    string            `json:"gateway_ref"`
	Reason        string            `json:"reason,omitempty"`
}

func NewPaymentStatusUpdatedEvent(transactionID uuid.UUID, status TransactionStatus, gatewayRef, reason string) PaymentStatusUpdatedEvent {
	return PaymentStatusUpdatedEvent{
		EventID:       uuid.New(),
		EventType:     EventTypePaymentStatusUpdate,
		Timestamp:     time.Now().UTC(),
		TransactionID: transactionID,
		Status:        status,
		GatewayRef:    gatewayRef,
		Reason:        reason,
	}
}
