package service

import (
	"context"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/internal/repository"
	"github.com/google/uuid"
)

// TransactionRepository интерфейс репозитория транзакций
type TransactionRepository interface {
	Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	GetByPaymentID(ctx context.Context, paymentID string) (domain.Transaction, error)
	GetByStatus(ctx context.Context, status domain.StatusCode) ([]domain.Transaction, error)
	GetByUserSubscriptionID(ctx context.Context, userSubscriptionID uuid.UUID) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StatusCode) error
	UpdateWindow(ctx context.Context, id uuid.UUID, starts, ends time.Time) error
	MarkRefunded(ctx context.Context, id uuid.UUID, ends time.Time) error
	ShiftPaymentWindows(ctx context.Context, userSubscriptionID uuid.UUID, from time.Time, days int) error
}

// UserSubscriptionRepository интерфейс репозитория пользовательских подписок
type UserSubscriptionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.UserSubscription, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.UserSubscription, error)
	GetOrCreate(ctx context.Context, userID, subscriptionID uuid.UUID) (domain.UserSubscription, error)
	UpdateExpires(ctx context.Context, id uuid.UUID, expires time.Time) error
	UpdateAutoPayID(ctx context.Context, id uuid.UUID, autoPayID *string) error
	GetSoonExpiring(ctx context.Context, days int) ([]domain.UserSubscription, error)
	GetExpired(ctx context.Context, days int) ([]domain.UserSubscription, error)
}

// SubscriptionRepository интерфейс репозитория каталога подписок
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error)
	GetAll(ctx context.Context) ([]domain.Subscription, error)
	GetActiveRoleIDs(ctx context.Context) ([]uuid.UUID, error)
	DeactivateByRoleID(ctx context.Context, roleID uuid.UUID) error
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	CreatePayment(ctx context.Context, amount float64, currency, description string, idempotencyKey uuid.UUID) (*domain.PaymentState, error)
	CreateAutopayment(ctx context.Context, amount float64, currency, paymentMethodID string, idempotencyKey uuid.UUID) (*domain.PaymentState, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.PaymentState, error)
	CreateRefund(ctx context.Context, amount float64, currency, paymentID string, idempotencyKey uuid.UUID) (*domain.RefundState, error)
	GetRefund(ctx context.Context, refundID string) (*domain.RefundState, error)
	CreatePaymentMethod(ctx context.Context, idempotencyKey uuid.UUID) (*domain.PaymentMethodState, error)
	GetPaymentMethod(ctx context.Context, methodID string) (*domain.PaymentMethodState, error)
}

// AuthService интерфейс клиента сервиса авторизации
type AuthService interface {
	GetRoles(ctx context.Context) ([]domain.Role, error)
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error
}

// NotificationSender интерфейс клиента сервиса уведомлений
type NotificationSender interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// DedupStore интерфейс хранилища дедупликации побочных эффектов
type DedupStore interface {
	Seen(ctx context.Context, key repository.DedupKey) (bool, error)
	Mark(ctx context.Context, key repository.DedupKey, ttl time.Duration) error
}

// EventProducer интерфейс издателя событий жизненного цикла транзакций
type EventProducer interface {
	TransactionCompleted(ctx context.Context, transaction domain.Transaction) error
	TransactionFailed(ctx context.Context, transaction domain.Transaction) error
	TransactionTimeout(ctx context.Context, transaction domain.Transaction) error
}
