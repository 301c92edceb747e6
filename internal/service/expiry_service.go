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
	"golang.org/x/sync/errgroup"
)

// ExpiryService интерфейс обслуживания сроков действия пользовательских подписок
type ExpiryService interface {
	// CheckExpiringSubscriptions обходит подписки, истекающие в ближайшем
	// горизонте: запускает автоплатеж или предупреждает пользователя
	CheckExpiringSubscriptions(ctx context.Context) error

	// DeleteExpiredSubscriptions отзывает роли по истекшим подпискам
	DeleteExpiredSubscriptions(ctx context.Context) error

	// CheckRoleExistence деактивирует подписки, роли которых исчезли
	// из сервиса авторизации
	CheckRoleExistence(ctx context.Context) error
}

type expiryService struct {
	userSubsRepo     UserSubscriptionRepository
	subscriptionRepo SubscriptionRepository
	billing          BillingService
	auth             AuthService
	notifier         NotificationSender
	dedup            DedupStore
	metrics          metrics.BillingMetrics
	soonDays         int
	autoPayCooldown  time.Duration
	horizonTTL       time.Duration
	concurrency      int
	log              *logger.Logger
}

// NewExpiryService создает новый сервис обслуживания сроков подписок
func NewExpiryService(
	userSubsRepo UserSubscriptionRepository,
	subscriptionRepo SubscriptionRepository,
	billing BillingService,
	auth AuthService,
	notifier NotificationSender,
	dedup DedupStore,
	billingMetrics metrics.BillingMetrics,
	soonDays int,
	autoPayCooldown time.Duration,
	concurrency int,
	log *logger.Logger,
) ExpiryService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &expiryService{
		userSubsRepo:     userSubsRepo,
		subscriptionRepo: subscriptionRepo,
		billing:          billing,
		auth:             auth,
		notifier:         notifier,
		dedup:            dedup,
		metrics:          billingMetrics,
		soonDays:         soonDays,
		autoPayCooldown:  autoPayCooldown,
		horizonTTL:       time.Duration(soonDays) * 24 * time.Hour,
		concurrency:      concurrency,
		log:              log,
	}
}

// CheckExpiringSubscriptions обходит скоро истекающие подписки с ограничением
// числа одновременных исходящих вызовов
func (s *expiryService) CheckExpiringSubscriptions(ctx context.Context) error {
	userSubscriptions, err := s.userSubsRepo.GetSoonExpiring(ctx, s.soonDays)
	if err != nil {
		return fmt.Errorf("failed to get soon expiring subscriptions: %w", err)
	}
	s.log.Debug("Found %d soon expiring subscriptions", len(userSubscriptions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userSubs := range userSubscriptions {
		userSubs := userSubs
		g.Go(func() error {
			if userSubs.HasAutoPay() {
				s.tryAutopayment(gctx, userSubs)
			} else {
				s.tryExpirationNotice(gctx, userSubs)
			}
			return nil
		})
	}

	return g.Wait()
}

// tryAutopayment запускает автоплатеж, если по этому сроку истечения он
// еще не запускался. Повторная попытка возможна после истечения кулдауна
func (s *expiryService) tryAutopayment(ctx context.Context, userSubs domain.UserSubscription) {
	key := repository.AutoPayKey(userSubs.ID, userSubs.Expires)
	seen, err := s.dedup.Seen(ctx, key)
	if err != nil {
		s.log.Errorw("Failed to check autopayment dedup key", "key", key, "error", err)
		return
	}
	if seen {
		return
	}

	transactionID, err := s.billing.MakeAutopayment(ctx, domain.AutopaymentRequest{UserSubscriptionID: userSubs.ID})
	if err != nil {
		s.log.Errorw("Failed to make autopayment", "user_subscription_id", userSubs.ID, "error", err)
	} else {
		s.log.Infow("Autopayment started", "user_subscription_id", userSubs.ID, "transaction_id", transactionID)
	}

	// Ключ ставится и при неуспехе: гасим шторм повторов до истечения кулдауна
	if err := s.dedup.Mark(ctx, key, s.autoPayCooldown); err != nil {
		s.log.Errorw("Failed to mark autopayment dedup key", "key", key, "error", err)
	}
}

// tryExpirationNotice отправляет предупреждение о скором истечении подписки,
// не более одного раза на каждый срок истечения
func (s *expiryService) tryExpirationNotice(ctx context.Context, userSubs domain.UserSubscription) {
	key := repository.ExpirationKey(userSubs.ID, userSubs.Expires)
	seen, err := s.dedup.Seen(ctx, key)
	if err != nil {
		s.log.Errorw("Failed to check expiration dedup key", "key", key, "error", err)
		return
	}
	if seen {
		return
	}

	s.log.Debug("Sending expiration notice to user %s", userSubs.UserID)
	notification := domain.NewNotification(
		userSubs.UserID.String(),
		domain.NotifySubscriptionExpiration,
		userSubs.Expires.Format(time.RFC3339),
	)
	if err := s.notifier.Send(ctx, notification); err != nil {
		s.log.Errorw("Failed to send expiration notice", "user_subscription_id", userSubs.ID, "error", err)
		return
	}
	s.metrics.IncNotificationSent(domain.NotifySubscriptionExpiration)

	// Ключ живет весь горизонт истечения, дальше срок либо продлен, либо прошел
	if err := s.dedup.Mark(ctx, key, s.horizonTTL); err != nil {
		s.log.Errorw("Failed to mark expiration dedup key", "key", key, "error", err)
	}
}

// DeleteExpiredSubscriptions отзывает роли пользователей по истекшим подпискам
func (s *expiryService) DeleteExpiredSubscriptions(ctx context.Context) error {
	userSubscriptions, err := s.userSubsRepo.GetExpired(ctx, s.soonDays)
	if err != nil {
		return fmt.Errorf("failed to get expired subscriptions: %w", err)
	}
	s.log.Debug("Found %d expired subscriptions", len(userSubscriptions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userSubs := range userSubscriptions {
		userSubs := userSubs
		g.Go(func() error {
			s.revokeExpired(gctx, userSubs)
			return nil
		})
	}

	return g.Wait()
}

func (s *expiryService) revokeExpired(ctx context.Context, userSubs domain.UserSubscription) {
	key := repository.ExpiredKey(userSubs.ID, userSubs.Expires)
	seen, err := s.dedup.Seen(ctx, key)
	if err != nil {
		s.log.Errorw("Failed to check expired dedup key", "key", key, "error", err)
		return
	}
	if seen {
		return
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, userSubs.SubscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Subscription %s not found for expired user subscription %s", userSubs.SubscriptionID, userSubs.ID)
		} else {
			s.log.Errorw("Failed to get subscription", "subscription_id", userSubs.SubscriptionID, "error", err)
		}
		return
	}

	s.log.Infow("Revoking role for expired subscription",
		"user_subscription_id", userSubs.ID, "user_id", userSubs.UserID, "role_id", subscription.RoleID)
	if err := s.auth.RevokeRole(ctx, userSubs.UserID, subscription.RoleID); err != nil {
		s.log.Errorw("Failed to revoke role", "user_subscription_id", userSubs.ID, "error", err)
		return
	}

	if err := s.dedup.Mark(ctx, key, s.horizonTTL); err != nil {
		s.log.Errorw("Failed to mark expired dedup key", "key", key, "error", err)
	}
}

// CheckRoleExistence деактивирует подписки, чья роль больше не существует
// в сервисе авторизации
func (s *expiryService) CheckRoleExistence(ctx context.Context) error {
	roles, err := s.auth.GetRoles(ctx)
	if err != nil {
		return fmt.Errorf("failed to get roles from auth service: %w", err)
	}

	known := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		known[role.ID] = struct{}{}
	}
	s.log.Debug("Found %d roles in auth service", len(roles))

	roleIDs, err := s.subscriptionRepo.GetActiveRoleIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active role ids: %w", err)
	}

	for _, roleID := range roleIDs {
		if _, ok := known[roleID.String()]; ok {
			continue
		}
		s.log.Warn("Role %s no longer exists in auth service, deactivating subscriptions", roleID)
		if err := s.subscriptionRepo.DeactivateByRoleID(ctx, roleID); err != nil {
			s.log.Errorw("Failed to deactivate subscriptions by role", "role_id", roleID, "error", err)
		}
	}

	return nil
}
