package metrics

import (
	"time"

	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BillingMetrics интерфейс для метрик сверки транзакций
type BillingMetrics interface {
	IncReconcileOutcome(transactionType, outcome string)
	IncCompensationRefundFailure()
	IncNotificationSent(contentKey string)
	ObservePhaseDuration(phase string, duration time.Duration)
	IncPhaseError(phase string)
}

type billingMetrics struct {
	log                  *logger.Logger
	reconcileOutcomes    *prometheus.CounterVec
	compensationFailures prometheus.Counter
	notificationsSent    *prometheus.CounterVec
	phaseDuration        *prometheus.HistogramVec
	phaseErrors          *prometheus.CounterVec
}

// NewBillingMetrics создает новые метрики сверки транзакций
func NewBillingMetrics(registry *prometheus.Registry, log *logger.Logger) BillingMetrics {
	reconcileOutcomes := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_reconcile_outcomes_total",
			Help: "The total number of reconciled transactions by type and outcome",
		},
		[]string{"transaction_type", "outcome"},
	)

	compensationFailures := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "billing_compensation_refund_failures_total",
			Help: "The total number of failed compensating refunds on transaction timeout",
		},
	)

	notificationsSent := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_notifications_sent_total",
			Help: "The total number of notifications sent by content key",
		},
		[]string{"content_key"},
	)

	phaseDuration := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_scheduler_phase_duration_seconds",
			Help:    "Scheduler phase durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	phaseErrors := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_scheduler_phase_errors_total",
			Help: "The total number of scheduler phase failures",
		},
		[]string{"phase"},
	)

	return &billingMetrics{
		log:                  log,
		reconcileOutcomes:    reconcileOutcomes,
		compensationFailures: compensationFailures,
		notificationsSent:    notificationsSent,
		phaseDuration:        phaseDuration,
		phaseErrors:          phaseErrors,
	}
}

// IncReconcileOutcome увеличивает счетчик исходов сверки транзакций
func (m *billingMetrics) IncReconcileOutcome(transactionType, outcome string) {
	m.reconcileOutcomes.WithLabelValues(transactionType, outcome).Inc()
}

// IncCompensationRefundFailure увеличивает счетчик неудавшихся компенсирующих возвратов
func (m *billingMetrics) IncCompensationRefundFailure() {
	m.compensationFailures.Inc()
}

// IncNotificationSent увеличивает счетчик отправленных уведомлений
func (m *billingMetrics) IncNotificationSent(contentKey string) {
	m.notificationsSent.WithLabelValues(contentKey).Inc()
}

// ObservePhaseDuration записывает длительность фазы планировщика
func (m *billingMetrics) ObservePhaseDuration(phase string, duration time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// IncPhaseError увеличивает счетчик ошибок фаз планировщика
func (m *billingMetrics) IncPhaseError(phase string) {
	m.phaseErrors.WithLabelValues(phase).Inc()
}
