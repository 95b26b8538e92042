// Package telemetry attaches a trace id to each request context. The id reuses the
// router's request id when one is present so log lines and response headers agree.
package telemetry

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jrazmi/eventhub/sdk/cryptids"
)

type telKey int

const traceIDKey telKey = iota + 1

const noTrace = "--------NOTRACE--------"

// Telemetry implements web.Telemetry.
type Telemetry struct{}

func NewTelemetry() Telemetry {
	return Telemetry{}
}

func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	if id := middleware.GetReqID(ctx); id != "" {
		return context.WithValue(ctx, traceIDKey, id)
	}
	tid, err := cryptids.GenerateID()
	if err != nil {
		return context.WithValue(ctx, traceIDKey, noTrace)
	}
	return context.WithValue(ctx, traceIDKey, tid)
}

func (t Telemetry) GetTraceID(ctx context.Context) string {
	return TraceID(ctx)
}

// TraceID returns the id set by SetTraceID.
func TraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return noTrace
	}
	return v
}
