package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"payflow/models"
)

// Topic names. Messages on both live topics are keyed by transaction id so
// that per-transaction ordering holds within a partition.
const (
	TopicTransactions  = "transactions"
	TopicPaymentStatus = "payment-status"

	// Reserved for a synchronous status-query-over-broker path; no producer
	// or consumer in the current flow.
	TopicPaymentStatusRequests = "payment-status-requests"
)

// Producer publishes JSON event envelopes to a single topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("kafka producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &Producer{writer: w, topic: topic, logger: logger}
}

func (p *Producer) PublishTransactionCreated(ctx context.Context, event models.TransactionCreatedEvent) error {
	return p.publish(ctx, event.TransactionID.String(), event)
}

func (p *Producer) PublishPaymentStatusUpdated(ctx context.Context, event models.PaymentStatusUpdatedEvent) error {
	return p.publish(ctx, event.TransactionID.String(), event)
}

func (p *Producer) publish(ctx context.Context, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
