package handlers

import (
	"net/http"

	"github.com/Garic-Che/cinema-theatre/internal/service"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InformationHandler обработчик справочных запросов биллинга
type InformationHandler struct {
	information service.InformationService
	log         *logger.Logger
}

// NewInformationHandler создает новый обработчик справочных запросов
func NewInformationHandler(information service.InformationService, log *logger.Logger) *InformationHandler {
	return &InformationHandler{
		information: information,
		log:         log,
	}
}

// GetSubscriptions возвращает актуальный каталог подписок
func (h *InformationHandler) GetSubscriptions(c *gin.Context) {
	subscriptions, err := h.information.ListSubscriptions(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list subscriptions: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": subscriptions})
}

// GetUserSubscriptions возвращает подписки пользователя
func (h *InformationHandler) GetUserSubscriptions(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id format"})
		return
	}

	userSubscriptions, err := h.information.ListUserSubscriptions(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list user subscriptions: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": userSubscriptions})
}

// GetTransactions возвращает транзакции по пользовательской подписке
func (h *InformationHandler) GetTransactions(c *gin.Context) {
	userSubscriptionID, err := uuid.Parse(c.Param("user_subscription_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user subscription id format"})
		return
	}

	transactions, err := h.information.ListTransactions(c.Request.Context(), userSubscriptionID)
	if err != nil {
		h.log.Error("Failed to list transactions: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": transactions})
}
