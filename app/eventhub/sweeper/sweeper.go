// Package sweeper removes expired auth sessions and verification tokens. It runs as a
// workers.Processor whose Checkout hands out at most one sweep per interval.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jrazmi/eventhub/infrastructure/workers"
	"github.com/jrazmi/eventhub/sdk/environment"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Expirer deletes rows that expired before a point in time.
type Expirer interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Options is read from <PREFIX>_SWEEP_INTERVAL.
type Options struct {
	Interval time.Duration `env:"SWEEP_INTERVAL" default:"10m"`
}

// Sweep is one pass. The counts are filled in by Process.
type Sweep struct {
	ID       string
	Before   time.Time
	Sessions int64
	Tokens   int64
}

func (s Sweep) GetID() string { return s.ID }

// Processor implements workers.Processor[Sweep].
type Processor struct {
	log      *logger.Logger
	sessions Expirer
	tokens   Expirer
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

// New returns a processor whose first sweep is due immediately.
func New(log *logger.Logger, sessions, tokens Expirer, interval time.Duration) *Processor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Processor{
		log:      log,
		sessions: sessions,
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
	}
}

// NewFromEnv reads the interval from the environment.
func NewFromEnv(prefix string, log *logger.Logger, sessions, tokens Expirer) (*Processor, error) {
	var opts Options
	if err := environment.ParseEnvTags(prefix, &opts); err != nil {
		return nil, fmt.Errorf("parsing sweeper config: %w", err)
	}
	return New(log, sessions, tokens, opts.Interval), nil
}

// Checkout returns ErrNoWorkAvailable until the interval since the last sweep has passed.
func (p *Processor) Checkout(ctx context.Context, workerID string) (Sweep, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Before(p.next) {
		return Sweep{}, workers.ErrNoWorkAvailable
	}
	p.next = now.Add(p.interval)

	return Sweep{ID: uuid.NewString(), Before: now.UTC()}, nil
}

func (p *Processor) Process(ctx context.Context, sweep Sweep) (Sweep, error) {
	n, err := p.sessions.DeleteExpired(ctx, sweep.Before)
	if err != nil {
		return sweep, fmt.Errorf("sweep sessions: %w", err)
	}
	sweep.Sessions = n

	n, err = p.tokens.DeleteExpired(ctx, sweep.Before)
	if err != nil {
		return sweep, fmt.Errorf("sweep verification tokens: %w", err)
	}
	sweep.Tokens = n

	return sweep, nil
}

func (p *Processor) Complete(ctx context.Context, sweep Sweep, processingTimeMS int) error {
	p.log.InfoContext(ctx, "sweep complete",
		"sweep_id", sweep.ID,
		"sessions", sweep.Sessions,
		"tokens", sweep.Tokens,
		"took_ms", processingTimeMS)
	return nil
}

// Fail makes the next sweep due immediately.
func (p *Processor) Fail(ctx context.Context, sweep Sweep, err error) error {
	p.log.ErrorContext(ctx, "sweep failed", "sweep_id", sweep.ID, "error", err)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.next = time.Time{}
	return nil
}

// NewPool runs p on a single worker that polls at a tenth of the interval. Retry
// settings are read from the WORKER_ variables under prefix.
func NewPool(prefix string, log *logger.Logger, p *Processor, opts ...workers.Option) (*workers.WorkerPool[Sweep], error) {
	poll := max(p.interval/10, time.Second)
	base := []workers.Option{
		workers.WithName("sweeper"),
		workers.WithWorkerCount(1),
		workers.WithLogger(log.Logger),
		workers.WithPollInterval(poll),
		workers.WithIdleInterval(poll),
	}
	return workers.NewFromEnv[Sweep](prefix, p, append(base, opts...)...)
}
