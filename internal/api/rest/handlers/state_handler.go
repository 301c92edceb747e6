package handlers

import (
	"net/http"

	"github.com/Garic-Che/cinema-theatre/internal/service"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StateHandler обработчик запросов состояния операций на стороне шлюза
type StateHandler struct {
	billing service.BillingService
	log     *logger.Logger
}

// NewStateHandler создает новый обработчик запросов состояния
func NewStateHandler(billing service.BillingService, log *logger.Logger) *StateHandler {
	return &StateHandler{
		billing: billing,
		log:     log,
	}
}

// GetPayment возвращает состояние платежа по идентификатору транзакции
func (h *StateHandler) GetPayment(c *gin.Context) {
	transactionID, ok := h.parseTransactionID(c)
	if !ok {
		return
	}

	state, err := h.billing.PaymentState(c.Request.Context(), transactionID)
	if err != nil {
		h.log.Error("Failed to get payment state: %v", err)
		respondError(c, err)
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "the transaction seems to relate to a refund"})
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetRefund возвращает состояние возврата по идентификатору транзакции
func (h *StateHandler) GetRefund(c *gin.Context) {
	transactionID, ok := h.parseTransactionID(c)
	if !ok {
		return
	}

	state, err := h.billing.RefundState(c.Request.Context(), transactionID)
	if err != nil {
		h.log.Error("Failed to get refund state: %v", err)
		respondError(c, err)
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "the transaction seems to relate to a payment"})
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetPaymentMethod возвращает состояние метода оплаты по идентификатору транзакции
func (h *StateHandler) GetPaymentMethod(c *gin.Context) {
	transactionID, ok := h.parseTransactionID(c)
	if !ok {
		return
	}

	state, err := h.billing.PaymentMethodState(c.Request.Context(), transactionID)
	if err != nil {
		h.log.Error("Failed to get payment method state: %v", err)
		respondError(c, err)
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *StateHandler) parseTransactionID(c *gin.Context) (uuid.UUID, bool) {
	transactionID, err := uuid.Parse(c.Param("transaction_id"))
	if err != nil {
		h.log.Warn("Invalid transaction ID format: %s", c.Param("transaction_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id format"})
		return uuid.Nil, false
	}
	return transactionID, true
}
