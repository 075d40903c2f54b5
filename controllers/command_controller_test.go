package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"payflow/controllers"
	"payflow/models"
)

// ---- fakes ----

type capturingPublisher struct {
	events []models.TransactionCreatedEvent
	err    error
}

func (p *capturingPublisher) PublishTransactionCreated(_ context.Context, event models.TransactionCreatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type memIdempotencyStore struct {
	records map[string]*models.IdempotencyRecord
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{records: make(map[string]*models.IdempotencyRecord)}
}

func (s *memIdempotencyStore) GetResponse(_ context.Context, key string) (*models.IdempotencyRecord, error) {
	return s.records[key], nil
}

func (s *memIdempotencyStore) PutResponse(_ context.Context, key string, rec *models.IdempotencyRecord, _ time.Duration) error {
	s.records[key] = rec
	return nil
}

// ---- helpers ----

func newCommandRouter(publisher *capturingPublisher, store *memIdempotencyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cc := controllers.NewCommandController(publisher, store, time.Hour, zap.NewNop())
	r := gin.New()
	r.POST("/api/v1/transaction", cc.CreateTransaction)
	return r
}

func postTransaction(r *gin.Engine, key string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transaction", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("x-idempotency-key", key)
	}
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder
}

const validBody = `{"amount":1000,"currency":"USD","merchant_id":"m1","customer_id":"c1"}`

// ---- tests ----

func TestCreateTransaction_FreshKey(t *testing.T) {
	publisher := &capturingPublisher{}
	store := newMemIdempotencyStore()
	r := newCommandRouter(publisher, store)

	recorder := postTransaction(r, "k1", validBody)

	assert.Equal(t, http.StatusAccepted, recorder.Code)

	var resp models.CreateTransactionResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusPending, resp.Status)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, resp.ID, publisher.events[0].TransactionID)
	assert.Equal(t, uint64(1000), publisher.events[0].Amount)
	assert.Equal(t, models.EventTypeTransactionCreated, publisher.events[0].EventType)
}

func TestCreateTransaction_IdempotentReplay(t *testing.T) {
	publisher := &capturingPublisher{}
	store := newMemIdempotencyStore()
	r := newCommandRouter(publisher, store)

	first := postTransaction(r, "k2", validBody)
	second := postTransaction(r, "k2", validBody)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Len(t, publisher.events, 1)
}

func TestCreateTransaction_MissingIdempotencyKey(t *testing.T) {
	publisher := &capturingPublisher{}
	store := newMemIdempotencyStore()
	r := newCommandRouter(publisher, store)

	recorder := postTransaction(r, "", validBody)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, publisher.events)
	assert.Empty(t, store.records)
}

func TestCreateTransaction_MalformedBody(t *testing.T) {
	publisher := &capturingPublisher{}
	r := newCommandRouter(publisher, newMemIdempotencyStore())

	recorder := postTransaction(r, "k3", `{"amount":1000}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, publisher.events)
}

func TestCreateTransaction_InvalidCurrency(t *testing.T) {
	publisher := &capturingPublisher{}
	r := newCommandRouter(publisher, newMemIdempotencyStore())

	recorder := postTransaction(r, "k4", `{"amount":1000,"currency":"usdollar","merchant_id":"m1","customer_id":"c1"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, publisher.events)
}

func TestCreateTransaction_PublishFailureStillPending(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker down")}
	store := newMemIdempotencyStore()
	r := newCommandRouter(publisher, store)

	recorder := postTransaction(r, "k5", validBody)

	assert.Equal(t, http.StatusAccepted, recorder.Code)

	var resp models.CreateTransactionResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusPending, resp.Status)
}
