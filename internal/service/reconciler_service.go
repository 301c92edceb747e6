package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/internal/metrics"
	"github.com/Garic-Che/cinema-theatre/internal/repository"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
)

const (
	outcomeCompleted = "completed"
	outcomeFailed    = "failed"
	outcomeTimeout   = "timeout"
)

// ReconcilerService интерфейс сверки незавершенных транзакций с платежным шлюзом
type ReconcilerService interface {
	CheckTransactions(ctx context.Context) error
}

type reconcilerService struct {
	transactionRepo  TransactionRepository
	userSubsRepo     UserSubscriptionRepository
	subscriptionRepo SubscriptionRepository
	gateway          PaymentGateway
	auth             AuthService
	notifier         NotificationSender
	events           EventProducer
	metrics          metrics.BillingMetrics
	timeout          time.Duration
	log              *logger.Logger
	now              func() time.Time
}

// NewReconcilerService создает новый сервис сверки транзакций
func NewReconcilerService(
	transactionRepo TransactionRepository,
	userSubsRepo UserSubscriptionRepository,
	subscriptionRepo SubscriptionRepository,
	gateway PaymentGateway,
	auth AuthService,
	notifier NotificationSender,
	events EventProducer,
	billingMetrics metrics.BillingMetrics,
	timeout time.Duration,
	log *logger.Logger,
) ReconcilerService {
	return &reconcilerService{
		transactionRepo:  transactionRepo,
		userSubsRepo:     userSubsRepo,
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
		auth:             auth,
		notifier:         notifier,
		events:           events,
		metrics:          billingMetrics,
		timeout:          timeout,
		log:              log,
		now:              time.Now,
	}
}

// gatewayStatus нормализованный статус операции на стороне шлюза
type gatewayStatus struct {
	code domain.StatusCode
	// paymentID идентификатор исходного платежа шлюза, заполняется для возвратов
	paymentID string
	// methodID идентификатор сохраненного метода оплаты, заполняется для привязок
	methodID string
}

// CheckTransactions сверяет все необработанные транзакции с платежным шлюзом.
// Ошибка обработки одной транзакции не прерывает обработку остальных
func (s *reconcilerService) CheckTransactions(ctx context.Context) error {
	transactions, err := s.transactionRepo.GetByStatus(ctx, domain.StatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to get processing transactions: %w", err)
	}

	s.log.Debug("Found %d processing transactions", len(transactions))
	for _, transaction := range transactions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.reconcileTransaction(ctx, transaction); err != nil {
			s.log.Errorw("Failed to reconcile transaction",
				"transaction_id", transaction.ID, "transaction_type", transaction.TransactionType.String(), "error", err)
		}
	}

	return nil
}

func (s *reconcilerService) reconcileTransaction(ctx context.Context, transaction domain.Transaction) error {
	// Удаление метода оплаты не требует участия шлюза
	if transaction.TransactionType == domain.TypePaymentMethodRemove {
		return s.completeMethodRemove(ctx, transaction)
	}

	status, err := s.resolveGatewayStatus(ctx, transaction)
	if err != nil {
		return err
	}
	if status == nil {
		s.log.Warn("Transaction %s is not visible on the gateway side yet", transaction.ID)
		return nil
	}

	s.log.Debug("Transaction %s gateway status: %s", transaction.ID, status.code)
	switch {
	case status.code == domain.StatusCompleted:
		return s.completeByType(ctx, transaction, status)
	case status.code == domain.StatusFailed:
		return s.failTransaction(ctx, transaction)
	case transaction.Created.Add(s.timeout).Before(s.now()):
		return s.timeoutTransaction(ctx, transaction)
	default:
		return nil
	}
}

func (s *reconcilerService) resolveGatewayStatus(ctx context.Context, transaction domain.Transaction) (*gatewayStatus, error) {
	switch transaction.TransactionType {
	case domain.TypeRefund:
		state, err := s.gateway.GetRefund(ctx, transaction.PaymentID)
		if err != nil || state == nil {
			return nil, err
		}
		return &gatewayStatus{code: state.Status, paymentID: state.PaymentID}, nil

	case domain.TypePayment, domain.TypeAutopayment:
		state, err := s.gateway.GetPayment(ctx, transaction.PaymentID)
		if err != nil || state == nil {
			return nil, err
		}
		return &gatewayStatus{code: state.Status}, nil

	case domain.TypePaymentMethodAdd:
		state, err := s.gateway.GetPaymentMethod(ctx, transaction.PaymentID)
		if err != nil || state == nil {
			return nil, err
		}
		return &gatewayStatus{code: state.Status, methodID: state.MethodID}, nil

	default:
		return nil, fmt.Errorf("unknown transaction type %d", transaction.TransactionType)
	}
}

func (s *reconcilerService) completeByType(ctx context.Context, transaction domain.Transaction, status *gatewayStatus) error {
	if transaction.TransactionType == domain.TypePaymentMethodAdd {
		return s.completeMethodAdd(ctx, transaction, status.methodID)
	}
	return s.completeTransaction(ctx, transaction, status.paymentID)
}

// completeMethodRemove снимает метод оплаты с подписки и завершает транзакцию
func (s *reconcilerService) completeMethodRemove(ctx context.Context, transaction domain.Transaction) error {
	s.log.Debug("Completing payment method removal: %s", transaction.ID)

	if err := s.userSubsRepo.UpdateAutoPayID(ctx, transaction.UserSubscriptionID, nil); err != nil {
		return fmt.Errorf("failed to clear auto pay id: %w", err)
	}
	if err := s.transactionRepo.UpdateStatus(ctx, transaction.ID, domain.StatusCompleted); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	s.metrics.IncReconcileOutcome(transaction.TransactionType.String(), outcomeCompleted)
	s.publish(ctx, transaction, s.events.TransactionCompleted)
	return nil
}

// completeMethodAdd сохраняет подтвержденный метод оплаты на подписке
func (s *reconcilerService) completeMethodAdd(ctx context.Context, transaction domain.Transaction, methodID string) error {
	s.log.Debug("Completing payment method addition: %s, method: %s", transaction.ID, methodID)

	if err := s.userSubsRepo.UpdateAutoPayID(ctx, transaction.UserSubscriptionID, &methodID); err != nil {
		return fmt.Errorf("failed to set auto pay id: %w", err)
	}
	if err := s.transactionRepo.UpdateStatus(ctx, transaction.ID, domain.StatusCompleted); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	s.metrics.IncReconcileOutcome(transaction.TransactionType.String(), outcomeCompleted)
	s.publish(ctx, transaction, s.events.TransactionCompleted)
	return nil
}

// completeTransaction продлевает или сокращает подписку на пропорциональное
// число дней, выравнивает роль пользователя и окна действия транзакций.
// Для возвратов gatewayPaymentID указывает исходный платеж на стороне шлюза
func (s *reconcilerService) completeTransaction(ctx context.Context, transaction domain.Transaction, gatewayPaymentID string) error {
	userSubs, err := s.userSubsRepo.GetByID(ctx, transaction.UserSubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("User subscription %s not found for transaction %s", transaction.UserSubscriptionID, transaction.ID)
			return nil
		}
		return fmt.Errorf("failed to get user subscription: %w", err)
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, userSubs.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Subscription %s not found for transaction %s", userSubs.SubscriptionID, transaction.ID)
			return nil
		}
		return fmt.Errorf("failed to get subscription: %w", err)
	}

	now := s.now()
	expiresFrom := userSubs.Expires
	if expiresFrom.Before(now) {
		expiresFrom = now
	}

	delta := DeltaDays(transaction.Amount, subscription.Amount, subscription.Period)
	sign := 1
	if transaction.TransactionType == domain.TypeRefund {
		sign = -1
	}
	newExpires := expiresFrom.AddDate(0, 0, sign*delta)

	s.log.Debug("New expiration for user subscription %s: %s", userSubs.ID, newExpires)
	if err := s.userSubsRepo.UpdateExpires(ctx, userSubs.ID, newExpires); err != nil {
		return fmt.Errorf("failed to update user subscription expiration: %w", err)
	}

	if err := s.reconcileRole(ctx, transaction.UserID, subscription.RoleID, newExpires, now); err != nil {
		return err
	}

	if transaction.TransactionType == domain.TypeRefund {
		if err := s.adjustRefundedWindows(ctx, transaction, gatewayPaymentID, delta, now); err != nil {
			return err
		}
	} else {
		starts := newExpires.AddDate(0, 0, -delta)
		if err := s.transactionRepo.UpdateWindow(ctx, transaction.ID, starts, newExpires); err != nil {
			return fmt.Errorf("failed to update transaction window: %w", err)
		}
	}

	if err := s.transactionRepo.UpdateStatus(ctx, transaction.ID, domain.StatusCompleted); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	s.finishCompleted(ctx, transaction)
	return nil
}

// reconcileRole назначает или отзывает роль в зависимости от нового срока подписки
func (s *reconcilerService) reconcileRole(ctx context.Context, userID, roleID uuid.UUID, newExpires, now time.Time) error {
	if !newExpires.Before(now) {
		if err := s.auth.AssignRole(ctx, userID, roleID); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
		return nil
	}

	if err := s.auth.RevokeRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// adjustRefundedWindows помечает исходную платежную транзакцию возвращенной,
// сокращает ее окно действия и сдвигает назад окна последующих платежей
func (s *reconcilerService) adjustRefundedWindows(ctx context.Context, transaction domain.Transaction, gatewayPaymentID string, delta int, now time.Time) error {
	paymentTransaction, err := s.transactionRepo.GetByPaymentID(ctx, gatewayPaymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Refunded payment transaction not found by payment id %s", gatewayPaymentID)
			return nil
		}
		return fmt.Errorf("failed to get refunded payment transaction: %w", err)
	}

	newEnds := paymentTransaction.Ends.AddDate(0, 0, -delta)
	if newEnds.Before(now) {
		// Окно не может закончиться в прошлом, урезаем дельту сдвига
		delta -= int(now.Sub(newEnds).Hours() / 24)
		newEnds = now
	}

	s.log.Debug("Marking payment transaction %s refunded, new window end: %s", paymentTransaction.ID, newEnds)
	if err := s.transactionRepo.MarkRefunded(ctx, paymentTransaction.ID, newEnds); err != nil {
		return fmt.Errorf("failed to mark payment transaction refunded: %w", err)
	}

	if err := s.transactionRepo.ShiftPaymentWindows(ctx, transaction.UserSubscriptionID, newEnds, -delta); err != nil {
		return fmt.Errorf("failed to shift payment windows: %w", err)
	}

	return nil
}

// failTransaction помечает транзакцию неуспешной и уведомляет пользователя
func (s *reconcilerService) failTransaction(ctx context.Context, transaction domain.Transaction) error {
	s.log.Debug("Failing transaction %s", transaction.ID)

	if err := s.transactionRepo.UpdateStatus(ctx, transaction.ID, domain.StatusFailed); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	s.metrics.IncReconcileOutcome(transaction.TransactionType.String(), outcomeFailed)
	s.notify(ctx, transaction, domain.NotifyTransactionFailed)
	s.publish(ctx, transaction, s.events.TransactionFailed)
	return nil
}

// timeoutTransaction гасит зависшую транзакцию. Для платежей перед этим
// запускается компенсирующий возврат, его неуспех не блокирует гашение
func (s *reconcilerService) timeoutTransaction(ctx context.Context, transaction domain.Transaction) error {
	s.log.Warn("Transaction %s timed out", transaction.ID)

	if transaction.TransactionType != domain.TypeRefund {
		_, err := s.gateway.CreateRefund(ctx, transaction.Amount, transaction.Currency, transaction.PaymentID, uuid.New())
		if err != nil {
			s.metrics.IncCompensationRefundFailure()
			s.log.Errorw("Compensating refund failed",
				"transaction_id", transaction.ID, "payment_id", transaction.PaymentID, "error", err)
		}
	}

	if err := s.transactionRepo.UpdateStatus(ctx, transaction.ID, domain.StatusFailed); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	s.metrics.IncReconcileOutcome(transaction.TransactionType.String(), outcomeTimeout)
	s.notify(ctx, transaction, domain.NotifyTransactionTimeout)
	s.publish(ctx, transaction, s.events.TransactionTimeout)
	return nil
}

// finishCompleted фиксирует успешный исход денежной транзакции
func (s *reconcilerService) finishCompleted(ctx context.Context, transaction domain.Transaction) {
	s.metrics.IncReconcileOutcome(transaction.TransactionType.String(), outcomeCompleted)
	s.notify(ctx, transaction, domain.NotifyTransactionCompleted)
	s.publish(ctx, transaction, s.events.TransactionCompleted)
}

func (s *reconcilerService) notify(ctx context.Context, transaction domain.Transaction, contentKey string) {
	notification := domain.NewNotification(transaction.UserID.String(), contentKey, transaction.ID.String())
	if err := s.notifier.Send(ctx, notification); err != nil {
		s.log.Warnw("Failed to send notification",
			"transaction_id", transaction.ID, "content_key", contentKey, "error", err)
		return
	}
	s.metrics.IncNotificationSent(contentKey)
}

func (s *reconcilerService) publish(ctx context.Context, transaction domain.Transaction, publishFn func(context.Context, domain.Transaction) error) {
	if err := publishFn(ctx, transaction); err != nil {
		s.log.Warnw("Failed to publish transaction event", "transaction_id", transaction.ID, "error", err)
	}
}
