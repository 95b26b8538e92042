package postgresdb

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// MultiQueryTracer fans each trace event out to several tracers. pgx accepts only one.
type MultiQueryTracer []pgx.QueryTracer

func NewMultiQueryTracer(tracers ...pgx.QueryTracer) MultiQueryTracer {
	return MultiQueryTracer(tracers)
}

func (m MultiQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range m {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (m MultiQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range m {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

type queryStartKey struct{}

type queryStart struct {
	at  time.Time
	sql string
}

func startQuery(ctx context.Context, sql string) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), sql: sql})
}

func queryStarted(ctx context.Context) (queryStart, bool) {
	s, ok := ctx.Value(queryStartKey{}).(queryStart)
	return s, ok
}

// LoggingQueryTracer logs every statement at Debug with its duration. Statements slower
// than the threshold log at Warn and failures at Error.
type LoggingQueryTracer struct {
	log  *slog.Logger
	slow time.Duration
}

// NewLoggingQueryTracer returns a tracer logging to log. A zero slow disables the Warn
// promotion.
func NewLoggingQueryTracer(log *slog.Logger, slow time.Duration) *LoggingQueryTracer {
	return &LoggingQueryTracer{log: log, slow: slow}
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return startQuery(ctx, data.SQL)
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := queryStarted(ctx)
	if !ok {
		return
	}
	elapsed := time.Since(start.at)
	attrs := []any{"sql", compactSQL(start.sql), "duration", elapsed, "command_tag", data.CommandTag.String()}

	switch {
	case data.Err != nil:
		l.log.ErrorContext(ctx, "query failed", append(attrs, "error", data.Err)...)
	case l.slow > 0 && elapsed >= l.slow:
		l.log.WarnContext(ctx, "slow query", attrs...)
	default:
		l.log.DebugContext(ctx, "query", attrs...)
	}
}

// MetricsQueryTracer records statement latency and failures by statement kind.
type MetricsQueryTracer struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewMetricsQueryTracer registers the database series on reg.
func NewMetricsQueryTracer(reg prometheus.Registerer, namespace string) (*MetricsQueryTracer, error) {
	m := &MetricsQueryTracer{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Statement latency, by statement kind.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"statement"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Statements that returned an error, by statement kind.",
		}, []string{"statement"}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return startQuery(ctx, data.SQL)
}

func (m *MetricsQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := queryStarted(ctx)
	if !ok {
		return
	}
	kind := statementKind(start.sql)
	m.duration.WithLabelValues(kind).Observe(time.Since(start.at).Seconds())
	if data.Err != nil {
		m.failures.WithLabelValues(kind).Inc()
	}
}

// statementKind is the leading keyword of sql, limited to a fixed label set.
func statementKind(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other"
	}
	switch kw := strings.ToLower(fields[0]); kw {
	case "select", "insert", "update", "delete", "with", "begin", "commit", "rollback":
		return kw
	}
	return "other"
}

// compactSQL collapses the whitespace of a multi-line statement onto one line.
func compactSQL(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	s = strings.ReplaceAll(s, "( ", "(")
	return strings.ReplaceAll(s, " )", ")")
}
