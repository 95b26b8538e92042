package workers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exports pool events as Prometheus series labelled by pool name and
// keeps an in-memory copy for GetSnapshot.
type PrometheusMetrics struct {
	*InMemoryMetrics

	pool string

	workers  *prometheus.GaugeVec
	panics   *prometheus.CounterVec
	tasks    *prometheus.CounterVec
	checkout *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the worker series on reg. Pools sharing a registry must
// share one PrometheusMetrics per pool name, created with the same reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace, pool string) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		InMemoryMetrics: NewInMemoryMetrics(),
		pool:            pool,
		workers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "active",
			Help:      "Workers currently running.",
		}, []string{"pool"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "panics_total",
			Help:      "Panics recovered in workers.",
		}, []string{"pool"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "tasks_total",
			Help:      "Tasks settled, by outcome.",
		}, []string{"pool", "outcome"}),
		checkout: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "checkout_errors_total",
			Help:      "Checkouts that returned no task.",
		}, []string{"pool"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "retries_total",
			Help:      "Retry events, by kind.",
		}, []string{"pool", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "Time from checkout to settle.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pool"}),
	}

	for _, c := range []prometheus.Collector{m.workers, m.panics, m.tasks, m.checkout, m.retries, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) Start(ctx context.Context, _ string) {
	m.InMemoryMetrics.Start(ctx, m.pool)
}

func (m *PrometheusMetrics) RecordWorkerStarted() {
	m.InMemoryMetrics.RecordWorkerStarted()
	m.workers.WithLabelValues(m.pool).Inc()
}

func (m *PrometheusMetrics) RecordWorkerStopped() {
	m.InMemoryMetrics.RecordWorkerStopped()
	m.workers.WithLabelValues(m.pool).Dec()
}

func (m *PrometheusMetrics) RecordWorkerPanic() {
	m.InMemoryMetrics.RecordWorkerPanic()
	m.panics.WithLabelValues(m.pool).Inc()
}

func (m *PrometheusMetrics) RecordTaskCompleted(d time.Duration) {
	m.InMemoryMetrics.RecordTaskCompleted(d)
	m.tasks.WithLabelValues(m.pool, "completed").Inc()
	m.duration.WithLabelValues(m.pool).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordTaskFailed(d time.Duration) {
	m.InMemoryMetrics.RecordTaskFailed(d)
	m.tasks.WithLabelValues(m.pool, "failed").Inc()
	m.duration.WithLabelValues(m.pool).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordCheckoutError() {
	m.InMemoryMetrics.RecordCheckoutError()
	m.checkout.WithLabelValues(m.pool).Inc()
}

func (m *PrometheusMetrics) RecordRetryAttempt() {
	m.InMemoryMetrics.RecordRetryAttempt()
	m.retries.WithLabelValues(m.pool, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordRetrySuccess() {
	m.InMemoryMetrics.RecordRetrySuccess()
	m.retries.WithLabelValues(m.pool, "success").Inc()
}

func (m *PrometheusMetrics) RecordRetryExhausted() {
	m.InMemoryMetrics.RecordRetryExhausted()
	m.retries.WithLabelValues(m.pool, "exhausted").Inc()
}
