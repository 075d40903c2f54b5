package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"payflow/models"
	"payflow/repository"
)

// QueryController serves eventually-consistent status reads from the
// projected read model.
type QueryController struct {
	Statuses repository.StatusStore
	Logger   *zap.Logger
}

func NewQueryController(statuses repository.StatusStore, logger *zap.Logger) *QueryController {
	return &QueryController{Statuses: statuses, Logger: logger}
}

// GetPaymentStatus handles GET /api/v1/queries/status/:id. A transaction
// that has not been projected yet reads as Pending rather than 404 — it may
// simply not have settled.
func (qc *QueryController) GetPaymentStatus(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	rec, err := qc.Statuses.Get(c.Request.Context(), transactionID)
	if err != nil {
		qc.Logger.Error("failed to read payment status",
			zap.String("transaction_id", transactionID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payment status"})
		return
	}

	if rec == nil {
		c.JSON(http.StatusOK, models.PaymentStatusResponse{
			TransactionID: transactionID,
			Status:        models.StatusPending,
		})
		return
	}

	c.JSON(http.StatusOK, models.PaymentStatusResponse{
		TransactionID: rec.TransactionID,
		Status:        rec.Status,
		GatewayRef:    rec.GatewayRef,
		Reason:        rec.Reason,
	})
}
