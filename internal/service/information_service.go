package service

import (
	"context"
	"fmt"

	"github.com/Garic-Che/cinema-theatre/internal/domain"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/google/uuid"
)

// InformationService интерфейс справочных запросов биллинга
type InformationService interface {
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	ListUserSubscriptions(ctx context.Context, userID uuid.UUID) ([]domain.UserSubscription, error)
	ListTransactions(ctx context.Context, userSubscriptionID uuid.UUID) ([]domain.Transaction, error)
}

type informationService struct {
	subscriptionRepo SubscriptionRepository
	userSubsRepo     UserSubscriptionRepository
	transactionRepo  TransactionRepository
	log              *logger.Logger
}

// NewInformationService создает новый справочный сервис
func NewInformationService(
	subscriptionRepo SubscriptionRepository,
	userSubsRepo UserSubscriptionRepository,
	transactionRepo TransactionRepository,
	log *logger.Logger,
) InformationService {
	return &informationService{
		subscriptionRepo: subscriptionRepo,
		userSubsRepo:     userSubsRepo,
		transactionRepo:  transactionRepo,
		log:              log,
	}
}

// ListSubscriptions возвращает актуальный каталог подписок
func (s *informationService) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	subscriptions, err := s.subscriptionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subscriptions, nil
}

// ListUserSubscriptions возвращает подписки пользователя
func (s *informationService) ListUserSubscriptions(ctx context.Context, userID uuid.UUID) ([]domain.UserSubscription, error) {
	userSubscriptions, err := s.userSubsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user subscriptions: %w", err)
	}
	return userSubscriptions, nil
}

// ListTransactions возвращает транзакции по пользовательской подписке
func (s *informationService) ListTransactions(ctx context.Context, userSubscriptionID uuid.UUID) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.GetByUserSubscriptionID(ctx, userSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
