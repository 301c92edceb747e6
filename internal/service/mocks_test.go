package service

import (
	"context"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/internal/repository"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.ERROR)
}

// MockTransactionRepository мок репозитория транзакций
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	args := m.Called(ctx, transaction)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByPaymentID(ctx context.Context, paymentID string) (domain.Transaction, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByStatus(ctx context.Context, status domain.StatusCode) ([]domain.Transaction, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByUserSubscriptionID(ctx context.Context, userSubscriptionID uuid.UUID) ([]domain.Transaction, error) {
	args := m.Called(ctx, userSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StatusCode) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateWindow(ctx context.Context, id uuid.UUID, starts, ends time.Time) error {
	args := m.Called(ctx, id, starts, ends)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkRefunded(ctx context.Context, id uuid.UUID, ends time.Time) error {
	args := m.Called(ctx, id, ends)
	return args.Error(0)
}

func (m *MockTransactionRepository) ShiftPaymentWindows(ctx context.Context, userSubscriptionID uuid.UUID, from time.Time, days int) error {
	args := m.Called(ctx, userSubscriptionID, from, days)
	return args.Error(0)
}

// MockUserSubscriptionRepository мок репозитория пользовательских подписок
type MockUserSubscriptionRepository struct {
	mock.Mock
}

func (m *MockUserSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.UserSubscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.UserSubscription), args.Error(1)
}

func (m *MockUserSubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.UserSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSubscription), args.Error(1)
}

func (m *MockUserSubscriptionRepository) GetOrCreate(ctx context.Context, userID, subscriptionID uuid.UUID) (domain.UserSubscription, error) {
	args := m.Called(ctx, userID, subscriptionID)
	return args.Get(0).(domain.UserSubscription), args.Error(1)
}

func (m *MockUserSubscriptionRepository) UpdateExpires(ctx context.Context, id uuid.UUID, expires time.Time) error {
	args := m.Called(ctx, id, expires)
	return args.Error(0)
}

func (m *MockUserSubscriptionRepository) UpdateAutoPayID(ctx context.Context, id uuid.UUID, autoPayID *string) error {
	args := m.Called(ctx, id, autoPayID)
	return args.Error(0)
}

func (m *MockUserSubscriptionRepository) GetSoonExpiring(ctx context.Context, days int) ([]domain.UserSubscription, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSubscription), args.Error(1)
}

func (m *MockUserSubscriptionRepository) GetExpired(ctx context.Context, days int) ([]domain.UserSubscription, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSubscription), args.Error(1)
}

// MockSubscriptionRepository мок репозитория каталога подписок
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) GetAll(ctx context.Context) ([]domain.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) GetActiveRoleIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSubscriptionRepository) DeactivateByRoleID(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

// MockPaymentGateway мок платежного шлюза
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePayment(ctx context.Context, amount float64, currency, description string, idempotencyKey uuid.UUID) (*domain.PaymentState, error) {
	args := m.Called(ctx, amount, currency, description, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentState), args.Error(1)
}

func (m *MockPaymentGateway) CreateAutopayment(ctx context.Context, amount float64, currency, paymentMethodID string, idempotencyKey uuid.UUID) (*domain.PaymentState, error) {
	args := m.Called(ctx, amount, currency, paymentMethodID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentState), args.Error(1)
}

func (m *MockPaymentGateway) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentState, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentState), args.Error(1)
}

func (m *MockPaymentGateway) CreateRefund(ctx context.Context, amount float64, currency, paymentID string, idempotencyKey uuid.UUID) (*domain.RefundState, error) {
	args := m.Called(ctx, amount, currency, paymentID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundState), args.Error(1)
}

func (m *MockPaymentGateway) GetRefund(ctx context.Context, refundID string) (*domain.RefundState, error) {
	args := m.Called(ctx, refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundState), args.Error(1)
}

func (m *MockPaymentGateway) CreatePaymentMethod(ctx context.Context, idempotencyKey uuid.UUID) (*domain.PaymentMethodState, error) {
	args := m.Called(ctx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethodState), args.Error(1)
}

func (m *MockPaymentGateway) GetPaymentMethod(ctx context.Context, methodID string) (*domain.PaymentMethodState, error) {
	args := m.Called(ctx, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethodState), args.Error(1)
}

// MockAuthService мок клиента сервиса авторизации
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) GetRoles(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *MockAuthService) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *MockAuthService) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

// MockNotificationSender мок клиента сервиса уведомлений
type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) Send(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockDedupStore мок хранилища дедупликации
type MockDedupStore struct {
	mock.Mock
}

func (m *MockDedupStore) Seen(ctx context.Context, key repository.DedupKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockDedupStore) Mark(ctx context.Context, key repository.DedupKey, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

// MockEventProducer мок издателя событий транзакций
type MockEventProducer struct {
	mock.Mock
}

func (m *MockEventProducer) TransactionCompleted(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockEventProducer) TransactionFailed(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockEventProducer) TransactionTimeout(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// MockBillingMetrics мок метрик сверки
type MockBillingMetrics struct {
	mock.Mock
}

func (m *MockBillingMetrics) IncReconcileOutcome(transactionType, outcome string) {
	m.Called(transactionType, outcome)
}

func (m *MockBillingMetrics) IncCompensationRefundFailure() {
	m.Called()
}

func (m *MockBillingMetrics) IncNotificationSent(contentKey string) {
	m.Called(contentKey)
}

func (m *MockBillingMetrics) ObservePhaseDuration(phase string, duration time.Duration) {
	m.Called(phase, duration)
}

func (m *MockBillingMetrics) IncPhaseError(phase string) {
	m.Called(phase)
}
