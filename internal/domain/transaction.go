package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusCode статус транзакции
type StatusCode int

const (
	StatusProcessing StatusCode = 1
	StatusCompleted  StatusCode = 2
	StatusFailed     StatusCode = 3
	StatusRefunded   StatusCode = 4
)

// String возвращает текстовое представление статуса
func (s StatusCode) String() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// IsTerminal проверяет, является ли статус конечным
func (s StatusCode) IsTerminal() bool {
	return s != StatusProcessing
}

// TransactionType тип транзакции
type TransactionType int

const (
	TypePayment             TransactionType = 0
	TypeAutopayment         TransactionType = 1
	TypeRefund              TransactionType = 2
	TypePaymentMethodAdd    TransactionType = 3
	TypePaymentMethodRemove TransactionType = 4
)

// String возвращает текстовое представление типа транзакции
func (t TransactionType) String() string {
	switch t {
	case TypePayment:
		return "payment"
	case TypeAutopayment:
		return "autopayment"
	case TypeRefund:
		return "refund"
	case TypePaymentMethodAdd:
		return "payment_method_add"
	case TypePaymentMethodRemove:
		return "payment_method_remove"
	default:
		return "unknown"
	}
}

// Transaction представляет собой транзакцию по пользовательской подписке
type Transaction struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	// PaymentID идентификатор платежа (или возврата) на стороне шлюза
	PaymentID          string          `json:"payment_id"`
	UserSubscriptionID uuid.UUID       `json:"user_subscription_id"`
	Amount             float64         `json:"amount"`
	Currency           string          `json:"currency"`
	StatusCode         StatusCode      `json:"status_code"`
	TransactionType    TransactionType `json:"transaction_type"`
	// Starts и Ends окно действия подписки, оплаченное транзакцией
	Starts   time.Time `json:"starts"`
	Ends     time.Time `json:"ends"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// PaymentState состояние платежа в словаре движка
type PaymentState struct {
	Status          StatusCode `json:"status"`
	PaymentID       string     `json:"payment_id"`
	ConfirmationURL string     `json:"confirmation_url,omitempty"`
	PaymentMethodID string     `json:"payment_method_id,omitempty"`
}

// RefundState состояние возврата в словаре движка
type RefundState struct {
	Status    StatusCode `json:"status"`
	PaymentID string     `json:"payment_id"`
	RefundID  string     `json:"refund_id"`
	Amount    float64    `json:"amount,omitempty"`
	Currency  string     `json:"currency,omitempty"`
}

// PaymentMethodState состояние сохраненного метода оплаты
type PaymentMethodState struct {
	Status          StatusCode `json:"status"`
	MethodID        string     `json:"id"`
	ConfirmationURL string     `json:"confirmation_url,omitempty"`
}
