package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"payflow/kafka"
	"payflow/metrics"
	"payflow/models"
	"payflow/repository"
)

// PaymentStatusPublisher publishes settlement outcomes to the
// payment-status topic.
type PaymentStatusPublisher interface {
	PublishPaymentStatusUpdated(ctx context.Context, event models.PaymentStatusUpdatedEvent) error
}

// SettlementProcessor settles a single TransactionCreated event: audit row,
// gateway call, outcome event. Split from the consume loop so the per-message
// logic is testable without a broker.
type SettlementProcessor struct {
	gateway   PaymentGateway
	publisher PaymentStatusPublisher
	payments  repository.PaymentRepository
	logger    *zap.Logger
}

func NewSettlementProcessor(gateway PaymentGateway, publisher PaymentStatusPublisher, payments repository.PaymentRepository, logger *zap.Logger) *SettlementProcessor {
	return &SettlementProcessor{
		gateway:   gateway,
		publisher: publisher,
		payments:  payments,
		logger:    logger,
	}
}

// Process handles one delivery. Malformed payloads are logged and skipped;
// a poisoned message must never wedge the consume loop.
func (p *SettlementProcessor) Process(ctx context.Context, payload []byte) {
	var event models.TransactionCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		p.logger.Warn("invalid transaction event, skipping",
			zap.Error(err),
			zap.String("payload", string(payload)),
		)
		metrics.MalformedEvents.WithLabelValues(kafka.TopicTransactions).Inc()
		return
	}
	if event.TransactionID == uuid.Nil {
		p.logger.Warn("transaction event missing transaction id, skipping",
			zap.String("event_id", event.EventID.String()),
		)
		metrics.MalformedEvents.WithLabelValues(kafka.TopicTransactions).Inc()
		return
	}

	// Audit row is best effort; the event stream stays authoritative.
	payment := &models.Payment{
		ID:            uuid.New(),
		TransactionID: event.TransactionID,
		Amount:        int64(event.Amount),
		Currency:      event.Currency,
		MerchantID:    event.MerchantID,
		CustomerID:    event.CustomerID,
		Status:        models.PaymentProcessing,
	}
	if err := p.payments.Create(ctx, payment); err != nil {
		p.logger.Error("failed to create settlement audit record",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.Error(err),
		)
	}

	gatewayRef, err := p.gateway.CreatePaymentIntent(ctx,
		int64(event.Amount),
		strings.ToLower(event.Currency),
		map[string]string{
			"transaction_id": event.TransactionID.String(),
			"merchant_id":    event.MerchantID,
			"customer_id":    event.CustomerID,
		},
	)

	var statusEvent models.PaymentStatusUpdatedEvent
	if err != nil {
		reason := GatewayFailureReason(err)
		p.logger.Warn("gateway settlement failed",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.String("reason", reason),
		)
		statusEvent = models.NewPaymentStatusUpdatedEvent(event.TransactionID, models.StatusFailed, "", reason)
		metrics.SettlementAttempts.WithLabelValues("failed").Inc()

		if dbErr := p.payments.RecordOutcome(ctx, event.TransactionID, models.PaymentFailed, nil, &reason); dbErr != nil {
			p.logger.Error("failed to record settlement failure",
				zap.String("transaction_id", event.TransactionID.String()),
				zap.Error(dbErr),
			)
		}
	} else {
		p.logger.Info("gateway settlement succeeded",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.String("gateway_ref", gatewayRef),
		)
		statusEvent = models.NewPaymentStatusUpdatedEvent(event.TransactionID, models.StatusCompleted, gatewayRef, "")
		metrics.SettlementAttempts.WithLabelValues("completed").Inc()

		if dbErr := p.payments.RecordOutcome(ctx, event.TransactionID, models.PaymentCompleted, &gatewayRef, nil); dbErr != nil {
			p.logger.Error("failed to record settlement success",
				zap.String("transaction_id", event.TransactionID.String()),
				zap.Error(dbErr),
			)
		}
	}

	// Publish failures are logged only; the transaction stays without a
	// status update until the topic is replayed.
	if err := p.publisher.PublishPaymentStatusUpdated(ctx, statusEvent); err != nil {
		p.logger.Warn("failed to publish payment status event",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.Error(err),
		)
	}
}

// SettlementConsumer is a long-lived consumer-group member on the
// transactions topic.
type SettlementConsumer struct {
	reader    *kafkago.Reader
	processor *SettlementProcessor
	logger    *zap.Logger
	topic     string
}

func NewSettlementConsumer(brokers []string, topic, groupID string, processor *SettlementProcessor, logger *zap.Logger) *SettlementConsumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	logger.Info("settlement consumer initialized",
		zap.String("topic", topic),
		zap.String("group_id", groupID),
		zap.Strings("brokers", brokers),
	)
	return &SettlementConsumer{reader: r, processor: processor, logger: logger, topic: topic}
}

// Start consumes until ctx is cancelled.
func (c *SettlementConsumer) Start(ctx context.Context) {
	c.logger.Info("settlement consumer started", zap.String("topic", c.topic))
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("settlement consumer shutting down")
				return
			}
			c.logger.Warn("error reading transaction event", zap.Error(err))
			continue
		}
		c.processor.Process(ctx, m.Value)
	}
}

func (c *SettlementConsumer) Close() {
	_ = c.reader.Close()
}
