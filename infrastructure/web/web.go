// Package web is a small framework over http.ServeMux. Handlers return an Encoder and
// the framework writes it, so status codes and bodies are decided in one place.
package web

import (
	"context"
	"net/http"
)

// Encoder is anything a handler can return. Values that also implement
// HTTPStatus() int choose their status code.
type Encoder interface {
	Encode() (data []byte, contentType string, err error)
}

// HandlerFunc handles a request and returns what to send back.
type HandlerFunc func(ctx context.Context, r *http.Request) Encoder

// Middleware wraps a HandlerFunc.
type Middleware func(HandlerFunc) HandlerFunc

// Telemetry stamps each request context with a trace id.
type Telemetry interface {
	SetTraceID(ctx context.Context) context.Context
	GetTraceID(ctx context.Context) string
}

type writerKey struct{}

func setWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

// GetWriter returns the response writer for middleware that must set headers. Handlers
// return an Encoder instead of writing.
func GetWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(writerKey{}).(http.ResponseWriter)
	return w
}
