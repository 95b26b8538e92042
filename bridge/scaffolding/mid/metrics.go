package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/jrazmi/eventhub/bridge/scaffolding/metrics"
	"github.com/jrazmi/eventhub/infrastructure/web"
)

// Metrics updates program counters.
func Metrics(m *metrics.Metrics) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = m.Set(ctx)
			start := time.Now()

			resp := next(ctx, r)

			metrics.AddRequest(ctx, r.Method, statusOf(resp), time.Since(start))
			if isError(resp) != nil {
				metrics.AddErrors(ctx)
			}

			return resp
		}
	}
}
