package mid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
	"github.com/jrazmi/eventhub/sdk/telemetry"
)

// Logger writes information about the request to the logs.
func Logger(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			now := time.Now()

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
			}
			traceID := telemetry.TraceID(ctx)

			log.InfoContext(ctx, "request started",
				"trace_id", traceID,
				"method", r.Method,
				"path", path,
				"remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			log.InfoContext(ctx, "request completed",
				"trace_id", traceID,
				"method", r.Method,
				"path", path,
				"statuscode", statusOf(resp),
				"since", time.Since(now).String())

			return resp
		}
	}
}
