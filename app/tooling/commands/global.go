// Package commands holds the eventhub-admin subcommands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/infrastructure/postgresdb"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Events is what the stats command reads.
type Events interface {
	Get(ctx context.Context, id string) (eventsrepo.Event, error)
	GetBySlug(ctx context.Context, slug string) (eventsrepo.Event, error)
	Stats(ctx context.Context, eventID string) (eventsrepo.EventStats, error)
}

// Expirer deletes rows that expired before a point in time.
type Expirer interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Deps are the database backed pieces a command may need.
type Deps struct {
	Pool               *postgresdb.Pool
	Events             Events
	Sessions           Expirer
	VerificationTokens Expirer
}

// Global carries state shared by every subcommand.
type Global struct {
	Log *logger.Logger

	// Open connects to the database. It is called once per command run and the returned
	// close func releases the connection.
	Open func(ctx context.Context) (Deps, func(), error)

	Timeout time.Duration
	JSON    bool
}

func (g *Global) context(parent context.Context) (context.Context, context.CancelFunc) {
	if g.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, g.Timeout)
}

func (g *Global) open(ctx context.Context) (Deps, func(), error) {
	if g.Open == nil {
		return Deps{}, nil, fmt.Errorf("no database configured")
	}
	deps, closeFn, err := g.Open(ctx)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open database: %w", err)
	}
	return deps, closeFn, nil
}

func (g *Global) slogger() *slog.Logger {
	if g.Log == nil {
		return logger.Discard().Logger
	}
	return g.Log.Logger
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
