package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/bridge/scaffolding/metrics"
)

// counter sums every series of the named counter.
func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecordAgainstContext(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")
	ctx := m.Set(context.Background())

	metrics.AddRequest(ctx, "GET", 200, 5*time.Millisecond)
	metrics.AddRequest(ctx, "POST", 400, time.Millisecond)
	metrics.AddErrors(ctx)
	metrics.AddPanics(ctx)

	assert.Equal(t, 2.0, counter(t, reg, "test_http_requests_total"))
	assert.Equal(t, 1.0, counter(t, reg, "test_http_errors_total"))
	assert.Equal(t, 1.0, counter(t, reg, "test_http_panics_total"))
}

func TestNoMetricsInContext(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.AddRequest(ctx, "GET", 200, time.Millisecond)
		metrics.AddErrors(ctx)
		metrics.AddPanics(ctx)
	})
}
