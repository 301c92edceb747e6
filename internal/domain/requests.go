package domain

import "github.com/google/uuid"

// PaymentRequest запрос на оплату подписки
type PaymentRequest struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	SubscriptionID uuid.UUID `json:"subscription_id" binding:"required"`
}

// AutopaymentRequest запрос на автоматическую оплату пользовательской подписки
type AutopaymentRequest struct {
	UserSubscriptionID uuid.UUID `json:"user_subscription_id" binding:"required"`
}

// RefundRequest запрос на возврат средств по завершенной транзакции
type RefundRequest struct {
	UserID        uuid.UUID `json:"user_id" binding:"required"`
	TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Currency      string    `json:"currency" binding:"required"`
}

// PaymentMethodRequest запрос на подключение или отключение метода оплаты
type PaymentMethodRequest struct {
	UserSubscriptionID uuid.UUID `json:"user_subscription_id" binding:"required"`
}
