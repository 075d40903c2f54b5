package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"payflow/kafka"
	"payflow/metrics"
	"payflow/models"
	"payflow/repository"
)

// StatusProjector applies one PaymentStatusUpdated event to the read model
// under the monotonic merge rule.
type StatusProjector struct {
	statuses repository.StatusStore
	logger   *zap.Logger
}

func NewStatusProjector(statuses repository.StatusStore, logger *zap.Logger) *StatusProjector {
	return &StatusProjector{statuses: statuses, logger: logger}
}

func (p *StatusProjector) Process(ctx context.Context, payload []byte) {
	var event models.PaymentStatusUpdatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		p.logger.Warn("invalid payment status event, skipping",
			zap.Error(err),
			zap.String("payload", string(payload)),
		)
		metrics.MalformedEvents.WithLabelValues(kafka.TopicPaymentStatus).Inc()
		return
	}
	if event.TransactionID == uuid.Nil {
		p.logger.Warn("payment status event missing transaction id, skipping",
			zap.String("event_id", event.EventID.String()),
		)
		metrics.MalformedEvents.WithLabelValues(kafka.TopicPaymentStatus).Inc()
		return
	}

	rec := models.TransactionStatusRecord{
		TransactionID: event.TransactionID,
		Status:        event.Status,
		GatewayRef:    event.GatewayRef,
		Reason:        event.Reason,
		UpdatedAt:     event.Timestamp,
	}

	applied, err := p.statuses.Apply(ctx, rec)
	if err != nil {
		// Leave the message to redelivery; the merge rule makes the retry safe.
		p.logger.Error("failed to apply status update",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.Error(err),
		)
		return
	}
	if !applied {
		p.logger.Debug("stale status update skipped",
			zap.String("transaction_id", event.TransactionID.String()),
			zap.Time("event_time", event.Timestamp),
		)
		metrics.ProjectionStale.Inc()
		return
	}

	p.logger.Info("status projected",
		zap.String("transaction_id", event.TransactionID.String()),
		zap.String("status", string(event.Status)),
		zap.String("gateway_ref", event.GatewayRef),
	)
	metrics.ProjectionApplied.Inc()
}

// StatusConsumer is a long-lived consumer-group member on the
// payment-status topic.
type StatusConsumer struct {
	reader    *kafkago.Reader
	projector *StatusProjector
	logger    *zap.Logger
	topic     string
}

func NewStatusConsumer(brokers []string, topic, groupID string, projector *StatusProjector, logger *zap.Logger) *StatusConsumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	logger.Info("status consumer initialized",
		zap.String("topic", topic),
		zap.String("group_id", groupID),
		zap.Strings("brokers", brokers),
	)
	return &StatusConsumer{reader: r, projector: projector, logger: logger, topic: topic}
}

func (c *StatusConsumer) Start(ctx context.Context) {
	c.logger.Info("status consumer started", zap.String("topic", c.topic))
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("status consumer shutting down")
				return
			}
			c.logger.Warn("error reading payment status event", zap.Error(err))
			continue
		}
		c.projector.Process(ctx, m.Value)
	}
}

func (c *StatusConsumer) Close() {
	_ = c.reader.Close()
}
