package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"payflow/apperrors"
	"payflow/metrics"
	"payflow/models"
	"payflow/repository"
)

// IdempotencyKeyHeader carries the mandatory client-supplied key.
const IdempotencyKeyHeader = "x-idempotency-key"

// TransactionEventPublisher is the command side's view of the event bus.
type TransactionEventPublisher interface {
	PublishTransactionCreated(ctx context.Context, event models.TransactionCreatedEvent) error
}

// CommandController accepts transaction-creation commands, deduplicates them
// by idempotency key, and records intent on the transactions topic.
type CommandController struct {
	Publisher      TransactionEventPublisher
	Idempotency    repository.IdempotencyStore
	IdempotencyTTL time.Duration
	Logger         *zap.Logger

	validate *validator.Validate
}

func NewCommandController(publisher TransactionEventPublisher, idempotency repository.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *CommandController {
	return &CommandController{
		Publisher:      publisher,
		Idempotency:    idempotency,
		IdempotencyTTL: ttl,
		Logger:         logger,
		validate:       validator.New(),
	}
}

// CreateTransaction handles POST /api/v1/transaction.
//
// The idempotency key is checked before anything else: no store lookup and
// no publish may happen for a request that is going to be rejected.
func (cc *CommandController) CreateTransaction(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrMissingIdempotencyKey.Message})
		return
	}

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := cc.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	// Cache hit: replay the original response verbatim, publish nothing.
	cached, err := cc.Idempotency.GetResponse(ctx, key)
	if err != nil {
		// Store trouble degrades to a miss; availability of the command path
		// wins over strict dedup here.
		cc.Logger.Warn("idempotency lookup failed, treating as miss",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
	}
	if cached != nil {
		metrics.IdempotentReplays.Inc()
		c.Data(cached.StatusCode, "application/json; charset=utf-8", cached.Body)
		return
	}

	transactionID := uuid.New()
	event := models.NewTransactionCreatedEvent(transactionID, req.Amount, req.Currency, req.MerchantID, req.CustomerID)

	// A publish failure still yields a Pending response: the broker owns
	// delivery, and an orphaned Pending transaction is reconciled externally.
	if err := cc.Publisher.PublishTransactionCreated(ctx, event); err != nil {
		cc.Logger.Error("failed to publish transaction created event",
			zap.String("transaction_id", transactionID.String()),
			zap.Error(err),
		)
	}

	resp := models.CreateTransactionResponse{ID: transactionID, Status: models.StatusPending}
	body, err := json.Marshal(resp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalServer.Message})
		return
	}

	rec := &models.IdempotencyRecord{StatusCode: http.StatusAccepted, Body: body}
	if err := cc.Idempotency.PutResponse(ctx, key, rec, cc.IdempotencyTTL); err != nil {
		cc.Logger.Warn("failed to cache idempotent response",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
	}

	metrics.TransactionsAccepted.Inc()
	c.Data(http.StatusAccepted, "application/json; charset=utf-8", body)
}
