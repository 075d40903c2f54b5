package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"payflow/models"
	"payflow/services"
)

// ---- fakes ----

type fakeGateway struct {
	ref      string
	err      error
	lastMeta map[string]string
	calls    int
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (string, error) {
	g.calls++
	g.lastMeta = metadata
	if g.err != nil {
		return "", g.err
	}
	return g.ref, nil
}

type capturingStatusPublisher struct {
	events []models.PaymentStatusUpdatedEvent
	err    error
}

func (p *capturingStatusPublisher) PublishPaymentStatusUpdated(_ context.Context, event models.PaymentStatusUpdatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakePaymentRepo struct {
	created   []*models.Payment
	outcomes  map[uuid.UUID]string
	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{outcomes: make(map[uuid.UUID]string)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, payment)
	return nil
}

func (r *fakePaymentRepo) RecordOutcome(_ context.Context, transactionID uuid.UUID, status string, _, _ *string) error {
	r.outcomes[transactionID] = status
	return nil
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, _ uuid.UUID) (*models.Payment, error) {
	return nil, nil
}

// ---- tests ----

func encodeEvent(t *testing.T, event models.TransactionCreatedEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	assert.NoError(t, err)
	return data
}

func TestSettlementProcess_GatewaySuccess(t *testing.T) {
	gateway := &fakeGateway{ref: "pi_123"}
	publisher := &capturingStatusPublisher{}
	payments := newFakePaymentRepo()
	processor := services.NewSettlementProcessor(gateway, publisher, payments, zap.NewNop())

	event := models.NewTransactionCreatedEvent(uuid.New(), 1000, "USD", "m1", "c1")
	processor.Process(context.Background(), encodeEvent(t, event))

	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, event.TransactionID.String(), gateway.lastMeta["transaction_id"])

	assert.Len(t, publisher.events, 1)
	published := publisher.events[0]
	assert.Equal(t, event.TransactionID, published.TransactionID)
	assert.Equal(t, models.StatusCompleted, published.Status)
	assert.Equal(t, "pi_123", published.GatewayRef)
	assert.Empty(t, published.Reason)

	assert.Len(t, payments.created, 1)
	assert.Equal(t, models.PaymentProcessing, payments.created[0].Status)
	assert.Equal(t, models.PaymentCompleted, payments.outcomes[event.TransactionID])
}

func TestSettlementProcess_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("card_declined")}
	publisher := &capturingStatusPublisher{}
	payments := newFakePaymentRepo()
	processor := services.NewSettlementProcessor(gateway, publisher, payments, zap.NewNop())

	event := models.NewTransactionCreatedEvent(uuid.New(), 1000, "USD", "m1", "c1")
	processor.Process(context.Background(), encodeEvent(t, event))

	assert.Len(t, publisher.events, 1)
	published := publisher.events[0]
	assert.Equal(t, models.StatusFailed, published.Status)
	assert.Empty(t, published.GatewayRef)
	assert.Equal(t, "card_declined", published.Reason)

	assert.Equal(t, models.PaymentFailed, payments.outcomes[event.TransactionID])
}

func TestSettlementProcess_MalformedPayload(t *testing.T) {
	gateway := &fakeGateway{ref: "pi_123"}
	publisher := &capturingStatusPublisher{}
	payments := newFakePaymentRepo()
	processor := services.NewSettlementProcessor(gateway, publisher, payments, zap.NewNop())

	processor.Process(context.Background(), []byte("{not json"))

	assert.Zero(t, gateway.calls)
	assert.Empty(t, publisher.events)
	assert.Empty(t, payments.created)
}

func TestSettlementProcess_MissingTransactionID(t *testing.T) {
	gateway := &fakeGateway{ref: "pi_123"}
	publisher := &capturingStatusPublisher{}
	payments := newFakePaymentRepo()
	processor := services.NewSettlementProcessor(gateway, publisher, payments, zap.NewNop())

	processor.Process(context.Background(), []byte(`{"event_type":"TRANSACTION.CREATED","amount":1000}`))

	assert.Zero(t, gateway.calls)
	assert.Empty(t, publisher.events)
}

func TestSettlementProcess_AuditFailureDoesNotBlockSettlement(t *testing.T) {
	gateway := &fakeGateway{ref: "pi_123"}
	publisher := &capturingStatusPublisher{}
	payments := newFakePaymentRepo()
	payments.createErr = errors.New("db down")
	processor := services.NewSettlementProcessor(gateway, publisher, payments, zap.NewNop())

	event := models.NewTransactionCreatedEvent(uuid.New(), 1000, "USD", "m1", "c1")
	processor.Process(context.Background(), encodeEvent(t, event))

	assert.Equal(t, 1, gateway.calls)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, models.StatusCompleted, publisher.events[0].Status)
}
