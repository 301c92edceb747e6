package metrics

import (
	"runtime"
	"time"

	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SystemMetrics интерфейс для системных метрик
type SystemMetrics interface {
	Record()
	StartRecording(interval time.Duration)
	Stop()
}

type systemMetrics struct {
	log         *logger.Logger
	startedAt   time.Time
	uptime      prometheus.Gauge
	goroutines  prometheus.Gauge
	memoryAlloc prometheus.Gauge
	memorySys   prometheus.Gauge
	gcRuns      prometheus.Gauge
	stopCh      chan struct{}
}

// NewSystemMetrics создает новые системные метрики
func NewSystemMetrics(registry *prometheus.Registry, log *logger.Logger) SystemMetrics {
	return &systemMetrics{
		log:       log,
		startedAt: time.Now(),
		uptime: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "system_uptime_seconds",
			Help: "Time since the process started in seconds",
		}),
		goroutines: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "system_goroutines",
			Help: "Current number of goroutines",
		}),
		memoryAlloc: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "system_memory_alloc_bytes",
			Help: "Currently allocated heap memory in bytes",
		}),
		memorySys: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "system_memory_system_bytes",
			Help: "Total memory obtained from the OS in bytes",
		}),
		gcRuns: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "system_gc_runs_total",
			Help: "Number of completed GC cycles since process start",
		}),
		stopCh: make(chan struct{}),
	}
}

// Record записывает текущие значения системных метрик
func (m *systemMetrics) Record() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.uptime.Set(time.Since(m.startedAt).Seconds())
	m.goroutines.Set(float64(runtime.NumGoroutine()))
	m.memoryAlloc.Set(float64(memStats.Alloc))
	m.memorySys.Set(float64(memStats.Sys))
	m.gcRuns.Set(float64(memStats.NumGC))
}

// StartRecording начинает периодическую запись метрик
func (m *systemMetrics) StartRecording(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Record()
			case <-m.stopCh:
				return
			}
		}
	}()
	m.log.Info("System metrics recording started with interval %s", interval)
}

// Stop останавливает запись метрик
func (m *systemMetrics) Stop() {
	close(m.stopCh)
	m.log.Info("System metrics recording stopped")
}
