// Package metrics holds the HTTP counters exported to Prometheus. The middleware stores
// the Metrics value in the request context so handlers deeper in the chain can record
// against it without an extra dependency.
package metrics

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the set of HTTP series for one registry.
type Metrics struct {
	requests   *prometheus.CounterVec
	errors     prometheus.Counter
	panics     prometheus.Counter
	goroutines prometheus.Gauge
	latency    *prometheus.HistogramVec
	seen       atomic.Int64
}

// New registers the HTTP series on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests handled, by method and status.",
		}, []string{"method", "status"}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Requests that ended in an error response.",
		}),
		panics: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Panics recovered in handlers.",
		}),
		goroutines: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Goroutines, sampled every hundred requests.",
		}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

type ctxKey int

const key ctxKey = 1

// Set stores m in ctx.
func (m *Metrics) Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, m)
}

func from(ctx context.Context) *Metrics {
	m, _ := ctx.Value(key).(*Metrics)
	return m
}

// AddRequest records one finished request and samples the goroutine count on every
// hundredth.
func AddRequest(ctx context.Context, method string, status int, took time.Duration) {
	m := from(ctx)
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method).Observe(took.Seconds())

	if m.seen.Add(1)%100 == 1 {
		m.goroutines.Set(float64(runtime.NumGoroutine()))
	}
}

func AddErrors(ctx context.Context) {
	if m := from(ctx); m != nil {
		m.errors.Inc()
	}
}

func AddPanics(ctx context.Context) {
	if m := from(ctx); m != nil {
		m.panics.Inc()
	}
}
