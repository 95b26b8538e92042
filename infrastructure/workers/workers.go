// Package workers runs a pool of goroutines that repeatedly check out, process and
// settle tasks supplied by a Processor. Workers poll quickly while work is available and
// back off to an idle interval when the processor reports ErrNoWorkAvailable.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jrazmi/eventhub/sdk/environment"
)

var (
	ErrWorkerShutdown  = errors.New("worker should shutdown")
	ErrPoolShutdown    = errors.New("pool should shutdown")
	ErrNoWorkAvailable = errors.New("no work available")
)

// Options represents the exportable worker configuration
type Options struct {
	Name         string        `env:"WORKER_NAME" default:"worker"`
	WorkerCount  int           `env:"WORKER_COUNT" default:"1"`
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" default:"5s"`
	IdleInterval time.Duration `env:"WORKER_IDLE_INTERVAL" default:"1m"`
	MaxRetries   int           `env:"WORKER_MAX_RETRIES" default:"3"`
	RetryDelay   time.Duration `env:"WORKER_RETRY_DELAY" default:"1s"`
}

type options struct {
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryDelay   time.Duration
	middlewares  []Middleware
	metrics      WorkerPoolMetrics
	logger       *slog.Logger
}

// Option is a function that configures the worker pool options
type Option func(*options)

// WorkerPool runs tasks from a Processor on a fixed number of workers.
type WorkerPool[T Task] struct {
	processor    Processor[T]
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryDelay   time.Duration
	log          *slog.Logger
	metrics      WorkerPoolMetrics

	workFunc         WorkFunc
	middlewares      []Middleware
	preProcessHooks  []PreProcessHook[T]
	postProcessHooks []PostProcessHook[T]

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	workers sync.WaitGroup
	fatal   chan error
}

func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func WithWorkerCount(count int) Option {
	return func(o *options) {
		o.workerCount = count
	}
}

// WithPollInterval sets the delay between cycles while work is available.
func WithPollInterval(interval time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
	}
}

// WithIdleInterval sets the delay between cycles after ErrNoWorkAvailable.
func WithIdleInterval(interval time.Duration) Option {
	return func(o *options) {
		o.idleInterval = interval
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxRetries sets how many times Process is attempted before the task fails.
func WithMaxRetries(maxRetries int) Option {
	return func(o *options) {
		o.maxRetries = maxRetries
	}
}

// WithRetryDelay sets the first backoff delay. It doubles on every further attempt.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		o.retryDelay = delay
	}
}

func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

func WithMetrics(metrics WorkerPoolMetrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// NewFromEnv creates a new worker pool using environment variables
func NewFromEnv[T Task](prefix string, processor Processor[T], opts ...Option) (*WorkerPool[T], error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing worker config: %w", err)
	}
	return newWorkerPool(processor, cfg, opts...)
}

// NewWorkerPool creates a pool with the given name and size and default timings.
func NewWorkerPool[T Task](name string, workerCount int, processor Processor[T], opts ...Option) (*WorkerPool[T], error) {
	cfg := Options{
		Name:         name,
		WorkerCount:  workerCount,
		PollInterval: time.Second,
		IdleInterval: 30 * time.Second,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
	return newWorkerPool(processor, cfg, opts...)
}

func newWorkerPool[T Task](processor Processor[T], cfg Options, opts ...Option) (*WorkerPool[T], error) {
	if processor == nil {
		return nil, errors.New("worker pool requires a processor")
	}

	o := &options{
		name:         cfg.Name,
		workerCount:  cfg.WorkerCount,
		pollInterval: cfg.PollInterval,
		idleInterval: cfg.IdleInterval,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		metrics:      NewNoOpMetrics(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.workerCount <= 0 {
		o.workerCount = 1
	}
	if o.pollInterval <= 0 {
		o.pollInterval = 5 * time.Second
	}
	if o.idleInterval <= 0 {
		o.idleInterval = 30 * time.Second
	}
	if o.maxRetries <= 0 {
		o.maxRetries = 1
	}
	if o.retryDelay <= 0 {
		o.retryDelay = time.Second
	}

	pool := &WorkerPool[T]{
		processor:    processor,
		name:         o.name,
		workerCount:  o.workerCount,
		pollInterval: o.pollInterval,
		idleInterval: o.idleInterval,
		maxRetries:   o.maxRetries,
		retryDelay:   o.retryDelay,
		log:          o.logger,
		metrics:      o.metrics,
		middlewares:  o.middlewares,
		fatal:        make(chan error, o.workerCount),
	}
	pool.buildMiddlewareChain()

	return pool, nil
}

// Start runs the workers and blocks until ctx is canceled, Stop is called, or every
// worker has exited. It returns the first ErrPoolShutdown reported by a worker.
func (wp *WorkerPool[T]) Start(ctx context.Context) error {
	wp.mu.Lock()
	if wp.running {
		wp.mu.Unlock()
		return fmt.Errorf("worker pool %s already running", wp.name)
	}
	ctx, wp.cancel = context.WithCancel(ctx)
	wp.running = true
	wp.mu.Unlock()

	started := time.Now()
	wp.log.InfoContext(ctx, "starting worker pool",
		"name", wp.name,
		"worker_count", wp.workerCount,
		"poll_interval", wp.pollInterval,
		"idle_interval", wp.idleInterval)
	wp.metrics.Start(ctx, wp.name)

	for i := range wp.workerCount {
		wp.workers.Add(1)
		go wp.worker(ctx, fmt.Sprintf("%s-worker-%d", wp.name, i+1))
	}

	var poolErr error
	done := make(chan struct{})
	go func() {
		wp.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		select {
		case poolErr = <-wp.fatal:
		default:
		}
	case poolErr = <-wp.fatal:
		wp.cancel()
		<-done
	}

	wp.metrics.Stop(context.WithoutCancel(ctx))

	wp.mu.Lock()
	wp.running = false
	wp.cancel()
	wp.mu.Unlock()

	wp.log.InfoContext(ctx, "worker pool stopped", "name", wp.name, "runtime", time.Since(started))
	return poolErr
}

// Stop cancels the workers. Start returns once they have finished their current cycle.
func (wp *WorkerPool[T]) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return
	}
	wp.log.Info("stopping worker pool", "name", wp.name)
	wp.cancel()
}

func (wp *WorkerPool[T]) worker(ctx context.Context, workerID string) {
	defer wp.workers.Done()

	wp.metrics.RecordWorkerStarted()
	defer wp.metrics.RecordWorkerStopped()

	wp.log.DebugContext(ctx, "worker started", "worker_id", workerID, "pool", wp.name)

	interval := time.Millisecond
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			wp.log.DebugContext(context.WithoutCancel(ctx), "worker stopped", "worker_id", workerID)
			return
		case <-timer.C:
		}

		err := wp.workWithPanicRecovery(ctx, workerID)

		switch {
		case err == nil:
			interval = wp.pollInterval

		case errors.Is(err, ErrWorkerShutdown):
			wp.log.InfoContext(ctx, "worker shutting down as requested", "worker_id", workerID)
			return

		case errors.Is(err, ErrPoolShutdown):
			wp.log.ErrorContext(ctx, "worker requesting pool shutdown", "worker_id", workerID, "error", err)
			select {
			case wp.fatal <- fmt.Errorf("worker %s: %w", workerID, err):
			default:
			}
			return

		case errors.Is(err, ErrNoWorkAvailable):
			interval = wp.idleInterval

		default:
			interval = wp.pollInterval
			wp.log.ErrorContext(ctx, "work cycle failed", "worker_id", workerID, "error", err)
		}

		timer.Reset(interval)
	}
}

// workWithPanicRecovery turns a panic anywhere in the middleware chain into an error.
func (wp *WorkerPool[T]) workWithPanicRecovery(ctx context.Context, workerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.ErrorContext(ctx, "panic recovered in worker",
				"worker_id", workerID,
				"panic", r,
				"stack_trace", string(debug.Stack()))
			wp.metrics.RecordWorkerPanic()
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	return wp.workFunc(ctx, workerID)
}

// work runs Checkout, the hooks, Process with retries and then Complete or Fail. A
// panic in Process is recovered here so the task is still settled.
func (wp *WorkerPool[T]) work(ctx context.Context, workerID string) (err error) {
	task, err := wp.processor.Checkout(ctx, workerID)
	if err != nil {
		wp.metrics.RecordCheckoutError()
		if errors.Is(err, ErrNoWorkAvailable) {
			return err
		}
		return fmt.Errorf("checkout failed: %w", err)
	}
	wp.metrics.RecordTaskCheckedOut()

	var (
		processed  T
		processErr error
		started    = time.Now()
	)

	defer func() {
		if r := recover(); r != nil {
			wp.log.ErrorContext(ctx, "panic recovered in task",
				"worker_id", workerID,
				"task_id", task.GetID(),
				"panic", r,
				"stack_trace", string(debug.Stack()))
			wp.metrics.RecordWorkerPanic()
			processErr = fmt.Errorf("panic: %v", r)
			err = fmt.Errorf("task processing error: %w", processErr)
		}
		wp.settle(ctx, task, processed, processErr, time.Since(started))
	}()

	for _, hook := range wp.preProcessHooks {
		if hookErr := hook(ctx, task); hookErr != nil {
			wp.log.ErrorContext(ctx, "pre-process hook failed", "task_id", task.GetID(), "error", hookErr)
		}
	}

	processed, processErr = wp.processWithRetry(ctx, task)
	if processErr != nil {
		return fmt.Errorf("task processing error: %w", processErr)
	}
	return nil
}

func (wp *WorkerPool[T]) settle(ctx context.Context, task, processed T, processErr error, duration time.Duration) {
	hookTask := processed
	if processErr != nil {
		hookTask = task
	}
	for _, hook := range wp.postProcessHooks {
		if err := hook(ctx, hookTask, processErr); err != nil {
			wp.log.ErrorContext(ctx, "post-process hook failed", "task_id", task.GetID(), "error", err)
		}
	}

	if processErr != nil {
		wp.metrics.RecordTaskFailed(duration)
		if err := wp.processor.Fail(ctx, task, processErr); err != nil {
			wp.log.ErrorContext(ctx, "failed to mark task as failed", "task_id", task.GetID(), "error", err)
		}
		return
	}

	wp.metrics.RecordTaskCompleted(duration)
	if err := wp.processor.Complete(ctx, processed, int(duration.Milliseconds())); err != nil {
		wp.log.ErrorContext(ctx, "failed to mark task as complete", "task_id", task.GetID(), "error", err)
	}
}

// processWithRetry calls Process up to maxRetries times with exponential backoff.
func (wp *WorkerPool[T]) processWithRetry(ctx context.Context, task T) (T, error) {
	var (
		processed T
		lastErr   error
	)

	for attempt := 1; attempt <= wp.maxRetries; attempt++ {
		if attempt > 1 {
			wp.metrics.RecordRetryAttempt()
			delay := wp.retryDelay << (attempt - 2)
			wp.log.InfoContext(ctx, "retrying task",
				"task_id", task.GetID(),
				"attempt", attempt,
				"delay", delay)

			select {
			case <-ctx.Done():
				return processed, ctx.Err()
			case <-time.After(delay):
			}
		}

		processed, lastErr = wp.processor.Process(ctx, task)
		if lastErr == nil {
			if attempt > 1 {
				wp.metrics.RecordRetrySuccess()
			}
			return processed, nil
		}
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		wp.log.WarnContext(ctx, "task attempt failed",
			"task_id", task.GetID(),
			"attempt", attempt,
			"error", lastErr)
	}

	if wp.maxRetries > 1 {
		wp.metrics.RecordRetryExhausted()
	}
	return processed, fmt.Errorf("failed after %d attempts: %w", wp.maxRetries, lastErr)
}

// GetMetrics returns the current metrics snapshot.
func (wp *WorkerPool[T]) GetMetrics() MetricsSnapshot {
	return wp.metrics.GetSnapshot()
}
