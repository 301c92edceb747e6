package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription представляет собой тарифный план подписки
type Subscription struct {
	ID          uuid.UUID `json:"id"`
	RoleID      uuid.UUID `json:"role_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	// Period количество дней подписки за полную стоимость Amount
	Period   int       `json:"period"`
	Actual   bool      `json:"actual"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// UserSubscription представляет собой подписку пользователя
type UserSubscription struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	// AutoPayID идентификатор сохраненного метода оплаты в платежном шлюзе
	AutoPayID *string   `json:"auto_pay_id,omitempty"`
	Expires   time.Time `json:"expires"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
}

// HasAutoPay проверяет, подключен ли автоплатеж
func (us *UserSubscription) HasAutoPay() bool {
	return us.AutoPayID != nil && *us.AutoPayID != ""
}
