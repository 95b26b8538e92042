package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jrazmi/eventhub/sdk/environment"
)

// WebServer is an http.Server with its configuration and a context-driven lifecycle.
type WebServer struct {
	*http.Server
	Config ServerConfig
}

// ServerConfig is read from the environment.
type ServerConfig struct {
	Port              string        `env:"PORT" default:":8080"`
	APIRoute          string        `env:"API_ROUTE" default:"/api/v1"`
	EnableDebug       bool          `env:"ENABLE_DEBUG" default:"false"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" default:"30s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" default:"20s"`
}

type serverOptions struct {
	ServerConfig
	handler  http.Handler
	errorLog *log.Logger
}

type ServerOption func(*serverOptions)

func WithHandler(handler http.Handler) ServerOption {
	return func(o *serverOptions) {
		o.handler = handler
	}
}

// WithErrorLog sets the logger for connection-level errors.
func WithErrorLog(errorLog *log.Logger) ServerOption {
	return func(o *serverOptions) {
		o.errorLog = errorLog
	}
}

func WithPort(port string) ServerOption {
	return func(o *serverOptions) {
		o.Port = port
	}
}

// WithTimeouts overrides the read, write, idle and shutdown timeouts.
func WithTimeouts(read, write, idle, shutdown time.Duration) ServerOption {
	return func(o *serverOptions) {
		o.ReadTimeout = read
		o.WriteTimeout = write
		o.IdleTimeout = idle
		o.ShutdownTimeout = shutdown
	}
}

func WithDebug(enabled bool) ServerOption {
	return func(o *serverOptions) {
		o.EnableDebug = enabled
	}
}

// NewServerFromEnv reads ServerConfig under prefix and applies opts over it.
func NewServerFromEnv(prefix string, opts ...ServerOption) (*WebServer, error) {
	var cfg ServerConfig
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing webserver config: %w", err)
	}

	o := &serverOptions{ServerConfig: cfg}
	for _, opt := range opts {
		opt(o)
	}

	return &WebServer{
		Server: &http.Server{
			Addr:              o.Port,
			Handler:           o.handler,
			ReadTimeout:       o.ReadTimeout,
			ReadHeaderTimeout: o.ReadHeaderTimeout,
			WriteTimeout:      o.WriteTimeout,
			IdleTimeout:       o.IdleTimeout,
			ErrorLog:          o.errorLog,
		},
		Config: o.ServerConfig,
	}, nil
}

// Serve listens on the configured address and serves until ctx is done, then shuts down
// within ShutdownTimeout. It returns nil after a clean shutdown.
func (s *WebServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.Config.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		s.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	return nil
}
