// Package logger configures the process-wide slog logger from the environment.
package logger

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jrazmi/eventhub/sdk/environment"
)

// Logger is a wrapper around the standard slog.Logger.
type Logger struct {
	*slog.Logger
}

// Options is the environment configuration. Format is json, text or tint. TimeFormat is
// RFC3339, RFC3339Nano, Unix, UnixMilli or any time layout.
type Options struct {
	Level      slog.Level `env:"LOG_LEVEL" default:"INFO"`
	Output     string     `env:"LOG_OUTPUT" default:"STDOUT"`
	Format     string     `env:"LOG_FORMAT" default:"json"`
	TimeFormat string     `env:"LOG_TIME_FORMAT" default:"RFC3339"`
	AddSource  bool       `env:"LOG_SOURCE" default:"false"`
}

type options struct {
	Options
	output io.Writer
}

type Option func(*options)

func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.Level = level
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

func WithFormat(format string) Option {
	return func(o *options) {
		o.Format = format
	}
}

func WithSource() Option {
	return func(o *options) {
		o.AddSource = true
	}
}

// NewDefault returns an INFO json logger on stderr.
func NewDefault(opts ...Option) *Logger {
	return newLogger(Options{
		Level:      slog.LevelInfo,
		Output:     "STDERR",
		Format:     "json",
		TimeFormat: "RFC3339",
	}, opts...)
}

// NewFromEnv reads Options under prefix, e.g. EVENTHUB_LOG_LEVEL.
func NewFromEnv(prefix string, opts ...Option) (*Logger, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing logger config: %w", err)
	}
	return newLogger(cfg, opts...), nil
}

// NewStdLogger adapts l for APIs that want a *log.Logger, such as http.Server.ErrorLog.
func NewStdLogger(l *Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(l.Handler(), level)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

func newLogger(cfg Options, opts ...Option) *Logger {
	o := &options{Options: cfg, output: parseOutput(cfg.Output)}
	for _, opt := range opts {
		opt(o)
	}
	return &Logger{Logger: slog.New(o.handler())}
}

func (o *options) handler() slog.Handler {
	switch strings.ToLower(o.Format) {
	case "tint":
		return tint.NewHandler(o.output, &tint.Options{
			Level:      o.Level,
			AddSource:  o.AddSource,
			TimeFormat: tintLayout(o.TimeFormat),
		})
	case "text":
		return slog.NewTextHandler(o.output, o.handlerOptions())
	default:
		return slog.NewJSONHandler(o.output, o.handlerOptions())
	}
}

func (o *options) handlerOptions() *slog.HandlerOptions {
	format := o.TimeFormat
	return &slog.HandlerOptions{
		Level:     o.Level,
		AddSource: o.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.TimeKey || len(groups) > 0 || format == "" {
				return a
			}
			t := a.Value.Time()
			switch format {
			case "Unix":
				return slog.Int64(slog.TimeKey, t.Unix())
			case "UnixMilli":
				return slog.Int64(slog.TimeKey, t.UnixMilli())
			}
			return slog.String(slog.TimeKey, t.Format(layout(format)))
		},
	}
}

func layout(format string) string {
	switch format {
	case "RFC3339":
		return time.RFC3339
	case "RFC3339Nano":
		return time.RFC3339Nano
	}
	return format
}

// tintLayout maps the configured format to a layout. tint only accepts layouts.
func tintLayout(format string) string {
	switch format {
	case "", "Unix", "UnixMilli":
		return time.Kitchen
	}
	return layout(format)
}
