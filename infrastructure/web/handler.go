package web

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/jrazmi/eventhub/sdk/environment"
)

// WebHandler routes requests to HandlerFuncs through the global middleware.
type WebHandler struct {
	Routes
	mux        *http.ServeMux
	log        *slog.Logger
	telemetry  Telemetry
	headers    map[string]string
	middleware []Middleware
}

// HandlerOptions is read from the environment.
type HandlerOptions struct {
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*"`
}

type handlerOptions struct {
	HandlerOptions
	log        *slog.Logger
	telemetry  Telemetry
	headers    map[string]string
	middleware []Middleware
}

type HandlerOption func(*handlerOptions)

// WithLogging sets the logger used for write failures.
func WithLogging(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.log = log
	}
}

func WithTelemetry(tel Telemetry) HandlerOption {
	return func(o *handlerOptions) {
		o.telemetry = tel
	}
}

// WithCORS replaces the configured origins. An empty list disables CORS.
func WithCORS(origins []string) HandlerOption {
	return func(o *handlerOptions) {
		o.CORSOrigins = origins
	}
}

// WithDefaultHeaders sets headers on every response.
func WithDefaultHeaders(headers map[string]string) HandlerOption {
	return func(o *handlerOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.headers, headers)
	}
}

// WithGlobalMiddleware appends middleware that wraps every route, in order.
func WithGlobalMiddleware(mw ...Middleware) HandlerOption {
	return func(o *handlerOptions) {
		o.middleware = append(o.middleware, mw...)
	}
}

// NewWebHandlerFromEnv reads HandlerOptions under prefix and applies opts over them.
func NewWebHandlerFromEnv(prefix string, opts ...HandlerOption) (*WebHandler, error) {
	var cfg HandlerOptions
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing webhandler config: %w", err)
	}
	return newWebHandler(cfg, opts...), nil
}

func newWebHandler(cfg HandlerOptions, opts ...HandlerOption) *WebHandler {
	o := &handlerOptions{HandlerOptions: cfg}
	for _, opt := range opts {
		opt(o)
	}

	wh := &WebHandler{
		mux:        http.NewServeMux(),
		log:        o.log,
		telemetry:  o.telemetry,
		headers:    o.headers,
		middleware: o.middleware,
	}
	wh.Routes = Routes{handle: wh.Handle}

	if len(o.CORSOrigins) > 0 {
		// CORS runs before everything else so rejected requests still carry its headers.
		wh.middleware = slices.Insert(wh.middleware, 0, cors(o.CORSOrigins))
		// Method patterns never match OPTIONS, so preflight gets its own route.
		wh.Handle(http.MethodOptions, "/", func(ctx context.Context, r *http.Request) Encoder {
			return nil
		})
	}
	return wh
}

// Handle registers handler for method and path, wrapped by the global middleware and
// then mw.
func (wh *WebHandler) Handle(method, path string, handler HandlerFunc, mw ...Middleware) {
	h := chain(handler, slices.Concat(wh.middleware, mw))

	wh.mux.HandleFunc(method+" "+path, func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wh.telemetry != nil {
			ctx = wh.telemetry.SetTraceID(ctx)
		}
		ctx = setWriter(ctx, w)
		for k, v := range wh.headers {
			w.Header().Set(k, v)
		}

		if err := Respond(ctx, w, h(ctx, r)); err != nil && wh.log != nil {
			wh.log.ErrorContext(ctx, "respond", "method", method, "path", path, "error", err)
		}
	})
}

func (wh *WebHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wh.mux.ServeHTTP(w, r)
}
