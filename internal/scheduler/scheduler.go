package scheduler

import (
	"context"
	"time"

	"github.com/Garic-Che/cinema-theatre/internal/metrics"
	"github.com/Garic-Che/cinema-theatre/internal/service"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
)

// Имена фаз цикла планировщика
const (
	PhaseReconcileTransactions = "reconcile_transactions"
	PhaseCheckExpiring         = "check_expiring_subscriptions"
	PhaseDeleteExpired         = "delete_expired_subscriptions"
	PhaseCheckRoles            = "check_role_existence"
)

// Scheduler периодически запускает фазы обслуживания биллинга.
// Паника или ошибка одной фазы не прерывает ни цикл, ни остальные фазы
type Scheduler struct {
	reconciler service.ReconcilerService
	expiry     service.ExpiryService
	metrics    metrics.BillingMetrics
	interval   time.Duration
	log        *logger.Logger
}

// New создает новый планировщик
func New(
	reconciler service.ReconcilerService,
	expiry service.ExpiryService,
	billingMetrics metrics.BillingMetrics,
	interval time.Duration,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		reconciler: reconciler,
		expiry:     expiry,
		metrics:    billingMetrics,
		interval:   interval,
		log:        log,
	}
}

// Run крутит цикл планировщика до отмены контекста
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Infow("Scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("Scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	s.safeExecute(ctx, PhaseReconcileTransactions, s.reconciler.CheckTransactions)
	s.safeExecute(ctx, PhaseCheckExpiring, s.expiry.CheckExpiringSubscriptions)
	s.safeExecute(ctx, PhaseDeleteExpired, s.expiry.DeleteExpiredSubscriptions)
	s.safeExecute(ctx, PhaseCheckRoles, s.expiry.CheckRoleExistence)
}

// safeExecute выполняет фазу, перехватывая панику и фиксируя метрики
func (s *Scheduler) safeExecute(ctx context.Context, phase string, fn func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	defer func() {
		s.metrics.ObservePhaseDuration(phase, time.Since(start))
		if r := recover(); r != nil {
			s.metrics.IncPhaseError(phase)
			s.log.Errorw("Scheduler phase panicked", "phase", phase, "panic", r)
		}
	}()

	if err := fn(ctx); err != nil {
		s.metrics.IncPhaseError(phase)
		s.log.Errorw("Scheduler phase failed", "phase", phase, "error", err)
	}
}
