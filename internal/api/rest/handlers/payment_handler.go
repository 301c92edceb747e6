package handlers

import (
	"net/http"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/internal/service"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
)

// PaymentHandler обработчик биллинговых операций
type PaymentHandler struct {
	billing service.BillingService
	log     *logger.Logger
}

// NewPaymentHandler создает новый обработчик биллинговых операций
func NewPaymentHandler(billing service.BillingService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		billing: billing,
		log:     log,
	}
}

// PayForSubscription создает платеж за подписку
func (h *PaymentHandler) PayForSubscription(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redirectURL, err := h.billing.PayForSubscription(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to create subscription payment: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redirect_url": redirectURL})
}

// MakeAutopayment запускает автоматическую оплату пользовательской подписки
func (h *PaymentHandler) MakeAutopayment(c *gin.Context) {
	var req domain.AutopaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactionID, err := h.billing.MakeAutopayment(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to make autopayment: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "payment_id": transactionID.String()})
}

// RefundPayment создает возврат средств по завершенной транзакции
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	var req domain.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.billing.RefundPayment(c.Request.Context(), req); err != nil {
		h.log.Error("Failed to refund payment: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "refunded successfully"})
}

// CreatePaymentMethod привязывает метод оплаты к пользовательской подписке
func (h *PaymentHandler) CreatePaymentMethod(c *gin.Context) {
	var req domain.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmationURL, err := h.billing.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to create payment method: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmation_url": confirmationURL})
}

// RemovePaymentMethod отключает метод оплаты от пользовательской подписки
func (h *PaymentHandler) RemovePaymentMethod(c *gin.Context) {
	var req domain.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.billing.RemovePaymentMethod(c.Request.Context(), req); err != nil {
		h.log.Error("Failed to remove payment method: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
