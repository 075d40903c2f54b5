package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"payflow/models"
)

// PaymentRepository persists the settlement audit trail.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	RecordOutcome(ctx context.Context, transactionID uuid.UUID, status string, gatewayRef, failureReason *string) error
	FindByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.Payment, error)
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepo) RecordOutcome(ctx context.Context, transactionID uuid.UUID, status string, gatewayRef, failureReason *string) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if gatewayRef != nil {
		updates["gateway_ref"] = gatewayRef
	}
	if failureReason != nil {
		updates["failure_reason"] = failureReason
	}
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("transaction_id = ?", transactionID).
		Updates(updates).Error
}

func (r *gormPaymentRepo) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
