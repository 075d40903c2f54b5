package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"payflow/models"
	"payflow/services"
)

// memStatusStore applies the same monotonic rule as the Redis store.
type memStatusStore struct {
	records map[uuid.UUID]models.TransactionStatusRecord
	applies int
}

func newMemStatusStore() *memStatusStore {
	return &memStatusStore{records: make(map[uuid.UUID]models.TransactionStatusRecord)}
}

func (s *memStatusStore) Get(_ context.Context, id uuid.UUID) (*models.TransactionStatusRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memStatusStore) Apply(_ context.Context, rec models.TransactionStatusRecord) (bool, error) {
	s.applies++
	existing, ok := s.records[rec.TransactionID]
	if ok && !rec.Supersedes(&existing) {
		return false, nil
	}
	s.records[rec.TransactionID] = rec
	return true, nil
}

func TestStatusProjector_AppliesUpdate(t *testing.T) {
	store := newMemStatusStore()
	projector := services.NewStatusProjector(store, zap.NewNop())

	event := models.NewPaymentStatusUpdatedEvent(uuid.New(), models.StatusCompleted, "pi_123", "")
	payload, err := json.Marshal(event)
	assert.NoError(t, err)

	projector.Process(context.Background(), payload)

	rec, err := store.Get(context.Background(), event.TransactionID)
	assert.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, "pi_123", rec.GatewayRef)
	assert.True(t, rec.UpdatedAt.Equal(event.Timestamp))
}

func TestStatusProjector_StaleRedeliveryIsNoOp(t *testing.T) {
	store := newMemStatusStore()
	projector := services.NewStatusProjector(store, zap.NewNop())

	transactionID := uuid.New()

	older := models.NewPaymentStatusUpdatedEvent(transactionID, models.StatusFailed, "", "card_declined")
	newer := models.NewPaymentStatusUpdatedEvent(transactionID, models.StatusCompleted, "pi_456", "")
	newer.Timestamp = older.Timestamp.Add(time.Second)

	newerPayload, _ := json.Marshal(newer)
	olderPayload, _ := json.Marshal(older)

	projector.Process(context.Background(), newerPayload)
	projector.Process(context.Background(), olderPayload)

	rec, err := store.Get(context.Background(), transactionID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, "pi_456", rec.GatewayRef)
}

func TestStatusProjector_MalformedPayload(t *testing.T) {
	store := newMemStatusStore()
	projector := services.NewStatusProjector(store, zap.NewNop())

	projector.Process(context.Background(), []byte("{not json"))

	assert.Zero(t, store.applies)
}
