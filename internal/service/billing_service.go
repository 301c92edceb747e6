package service

import (
	"context"
	"fmt"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
)

// BillingService интерфейс сервиса биллинговых операций
type BillingService interface {
	// Операции над подписками и методами оплаты
	PayForSubscription(ctx context.Context, req domain.PaymentRequest) (string, error)
	MakeAutopayment(ctx context.Context, req domain.AutopaymentRequest) (uuid.UUID, error)
	RefundPayment(ctx context.Context, req domain.RefundRequest) error
	CreatePaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) (string, error)
	RemovePaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) error

	// Текущее состояние операций на стороне шлюза
	PaymentState(ctx context.Context, transactionID uuid.UUID) (*domain.PaymentState, error)
	RefundState(ctx context.Context, transactionID uuid.UUID) (*domain.RefundState, error)
	PaymentMethodState(ctx context.Context, transactionID uuid.UUID) (*domain.PaymentMethodState, error)
}

type billingService struct {
	transactionRepo  TransactionRepository
	userSubsRepo     UserSubscriptionRepository
	subscriptionRepo SubscriptionRepository
	gateway          PaymentGateway
	log              *logger.Logger
}

// NewBillingService создает новый сервис биллинговых операций
func NewBillingService(
	transactionRepo TransactionRepository,
	userSubsRepo UserSubscriptionRepository,
	subscriptionRepo SubscriptionRepository,
	gateway PaymentGateway,
	log *logger.Logger,
) BillingService {
	return &billingService{
		transactionRepo:  transactionRepo,
		userSubsRepo:     userSubsRepo,
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
		log:              log,
	}
}

// PayForSubscription создает платеж за подписку и возвращает URL подтверждения
func (s *billingService) PayForSubscription(ctx context.Context, req domain.PaymentRequest) (string, error) {
	s.log.Debug("Creating subscription payment for user: %s, subscription: %s", req.UserID, req.SubscriptionID)

	subscription, err := s.subscriptionRepo.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return "", fmt.Errorf("failed to get subscription: %w", err)
	}

	transactionID := uuid.New()
	state, err := s.gateway.CreatePayment(ctx, subscription.Amount, subscription.Currency, subscription.Name, transactionID)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway payment: %w", err)
	}

	userSubs, err := s.userSubsRepo.GetOrCreate(ctx, req.UserID, req.SubscriptionID)
	if err != nil {
		return "", fmt.Errorf("failed to get or create user subscription: %w", err)
	}

	_, err = s.transactionRepo.Create(ctx, domain.Transaction{
		ID:                 transactionID,
		UserID:             req.UserID,
		PaymentID:          state.PaymentID,
		UserSubscriptionID: userSubs.ID,
		Amount:             subscription.Amount,
		Currency:           subscription.Currency,
		StatusCode:         domain.StatusProcessing,
		TransactionType:    domain.TypePayment,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Infow("Subscription payment created",
		"transaction_id", transactionID, "payment_id", state.PaymentID, "user_id", req.UserID)
	return state.ConfirmationURL, nil
}

// MakeAutopayment списывает стоимость подписки по сохраненному методу оплаты
func (s *billingService) MakeAutopayment(ctx context.Context, req domain.AutopaymentRequest) (uuid.UUID, error) {
	s.log.Debug("Creating autopayment for user subscription: %s", req.UserSubscriptionID)

	userSubs, err := s.userSubsRepo.GetByID(ctx, req.UserSubscriptionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get user subscription: %w", err)
	}
	if !userSubs.HasAutoPay() {
		return uuid.Nil, domain.ErrNoPaymentMethod
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, userSubs.SubscriptionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	transactionID := uuid.New()
	state, err := s.gateway.CreateAutopayment(ctx, subscription.Amount, subscription.Currency, *userSubs.AutoPayID, transactionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create gateway autopayment: %w", err)
	}

	_, err = s.transactionRepo.Create(ctx, domain.Transaction{
		ID:                 transactionID,
		UserID:             userSubs.UserID,
		PaymentID:          state.PaymentID,
		UserSubscriptionID: userSubs.ID,
		Amount:             subscription.Amount,
		Currency:           subscription.Currency,
		StatusCode:         domain.StatusProcessing,
		TransactionType:    domain.TypeAutopayment,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Infow("Autopayment created",
		"transaction_id", transactionID, "payment_id", state.PaymentID, "user_subscription_id", userSubs.ID)
	return transactionID, nil
}

// RefundPayment создает возврат средств по ранее завершенной транзакции
func (s *billingService) RefundPayment(ctx context.Context, req domain.RefundRequest) error {
	s.log.Debug("Creating refund for transaction: %s", req.TransactionID)

	transaction, err := s.transactionRepo.GetByID(ctx, req.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to get transaction to refund: %w", err)
	}
	if err := validateRefundTarget(transaction, req); err != nil {
		return err
	}

	refundTransactionID := uuid.New()
	state, err := s.gateway.CreateRefund(ctx, req.Amount, req.Currency, transaction.PaymentID, refundTransactionID)
	if err != nil {
		return fmt.Errorf("failed to create gateway refund: %w", err)
	}

	_, err = s.transactionRepo.Create(ctx, domain.Transaction{
		ID:                 refundTransactionID,
		UserID:             transaction.UserID,
		PaymentID:          state.RefundID,
		UserSubscriptionID: transaction.UserSubscriptionID,
		Amount:             req.Amount,
		Currency:           req.Currency,
		StatusCode:         domain.StatusProcessing,
		TransactionType:    domain.TypeRefund,
	})
	if err != nil {
		return fmt.Errorf("failed to create refund transaction: %w", err)
	}

	s.log.Infow("Refund created",
		"transaction_id", refundTransactionID, "refund_id", state.RefundID, "refunded_transaction_id", transaction.ID)
	return nil
}

func validateRefundTarget(transaction domain.Transaction, req domain.RefundRequest) error {
	if transaction.StatusCode != domain.StatusCompleted {
		return fmt.Errorf("%w: only completed transactions can be refunded", domain.ErrInvalidOperation)
	}
	if transaction.TransactionType == domain.TypeRefund {
		return fmt.Errorf("%w: only payment transactions can be refunded", domain.ErrInvalidOperation)
	}
	if transaction.Currency != req.Currency {
		return fmt.Errorf("%w: source and target currencies do not match", domain.ErrInvalidOperation)
	}
	return nil
}

// CreatePaymentMethod привязывает метод оплаты и возвращает URL подтверждения
func (s *billingService) CreatePaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) (string, error) {
	s.log.Debug("Creating payment method for user subscription: %s", req.UserSubscriptionID)

	userSubs, err := s.userSubsRepo.GetByID(ctx, req.UserSubscriptionID)
	if err != nil {
		return "", fmt.Errorf("failed to get user subscription: %w", err)
	}

	transactionID := uuid.New()
	state, err := s.gateway.CreatePaymentMethod(ctx, transactionID)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway payment method: %w", err)
	}

	_, err = s.transactionRepo.Create(ctx, domain.Transaction{
		ID:                 transactionID,
		UserID:             userSubs.UserID,
		PaymentID:          state.MethodID,
		UserSubscriptionID: userSubs.ID,
		StatusCode:         domain.StatusProcessing,
		TransactionType:    domain.TypePaymentMethodAdd,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Infow("Payment method creation started",
		"transaction_id", transactionID, "method_id", state.MethodID, "user_subscription_id", userSubs.ID)
	return state.ConfirmationURL, nil
}

// RemovePaymentMethod отключает метод оплаты от пользовательской подписки.
// Сам метод снимается с подписки асинхронно при сверке транзакции
func (s *billingService) RemovePaymentMethod(ctx context.Context, req domain.PaymentMethodRequest) error {
	s.log.Debug("Removing payment method for user subscription: %s", req.UserSubscriptionID)

	userSubs, err := s.userSubsRepo.GetByID(ctx, req.UserSubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to get user subscription: %w", err)
	}
	if !userSubs.HasAutoPay() {
		return domain.ErrNoPaymentMethod
	}

	transactionID := uuid.New()
	_, err = s.transactionRepo.Create(ctx, domain.Transaction{
		ID:                 transactionID,
		UserID:             userSubs.UserID,
		PaymentID:          *userSubs.AutoPayID,
		UserSubscriptionID: userSubs.ID,
		StatusCode:         domain.StatusProcessing,
		TransactionType:    domain.TypePaymentMethodRemove,
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Infow("Payment method removal started",
		"transaction_id", transactionID, "user_subscription_id", userSubs.ID)
	return nil
}

// PaymentState возвращает состояние платежа по идентификатору транзакции.
// Если платеж еще не известен шлюзу, возвращает (nil, nil)
func (s *billingService) PaymentState(ctx context.Context, transactionID uuid.UUID) (*domain.PaymentState, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return s.gateway.GetPayment(ctx, transaction.PaymentID)
}

// RefundState возвращает состояние возврата по идентификатору транзакции.
// Если возврат еще не известен шлюзу, возвращает (nil, nil)
func (s *billingService) RefundState(ctx context.Context, transactionID uuid.UUID) (*domain.RefundState, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return s.gateway.GetRefund(ctx, transaction.PaymentID)
}

// PaymentMethodState возвращает состояние метода оплаты по идентификатору транзакции.
// Если метод оплаты еще не известен шлюзу, возвращает (nil, nil)
func (s *billingService) PaymentMethodState(ctx context.Context, transactionID uuid.UUID) (*domain.PaymentMethodState, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return s.gateway.GetPaymentMethod(ctx, transaction.PaymentID)
}
