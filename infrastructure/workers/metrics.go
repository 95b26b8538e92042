package workers

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPoolMetrics receives the pool's lifecycle and task events. Implementations must
// be safe for concurrent use.
type WorkerPoolMetrics interface {
	RecordWorkerStarted()
	RecordWorkerStopped()
	RecordWorkerPanic()

	RecordTaskCheckedOut()
	RecordTaskCompleted(duration time.Duration)
	RecordTaskFailed(duration time.Duration)
	RecordCheckoutError()

	RecordRetryAttempt()
	RecordRetrySuccess()
	RecordRetryExhausted()

	GetSnapshot() MetricsSnapshot

	Start(ctx context.Context, poolName string)
	Stop(ctx context.Context)
}

// MetricsSnapshot is a point-in-time view of a pool.
type MetricsSnapshot struct {
	Pool string `json:"pool"`

	WorkersStarted int64 `json:"workers_started"`
	WorkersStopped int64 `json:"workers_stopped"`
	WorkersActive  int64 `json:"workers_active"`
	WorkerPanics   int64 `json:"worker_panics"`

	TasksCheckedOut int64 `json:"tasks_checked_out"`
	TasksCompleted  int64 `json:"tasks_completed"`
	TasksFailed     int64 `json:"tasks_failed"`
	TasksInProgress int64 `json:"tasks_in_progress"`
	CheckoutErrors  int64 `json:"checkout_errors"`

	RetryAttempts    int64 `json:"retry_attempts"`
	RetrySuccesses   int64 `json:"retry_successes"`
	RetriesExhausted int64 `json:"retries_exhausted"`

	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	MinDuration     time.Duration `json:"min_duration"`
	MaxDuration     time.Duration `json:"max_duration"`

	// ErrorRate is failed tasks as a percentage of settled tasks.
	ErrorRate float64 `json:"error_rate"`

	CollectedAt time.Time     `json:"collected_at"`
	Uptime      time.Duration `json:"uptime"`
}

// NoOpMetrics discards every event.
type NoOpMetrics struct{}

func NewNoOpMetrics() WorkerPoolMetrics {
	return NoOpMetrics{}
}

func (NoOpMetrics) RecordWorkerStarted()              {}
func (NoOpMetrics) RecordWorkerStopped()              {}
func (NoOpMetrics) RecordWorkerPanic()                {}
func (NoOpMetrics) RecordTaskCheckedOut()             {}
func (NoOpMetrics) RecordTaskCompleted(time.Duration) {}
func (NoOpMetrics) RecordTaskFailed(time.Duration)    {}
func (NoOpMetrics) RecordCheckoutError()              {}
func (NoOpMetrics) RecordRetryAttempt()               {}
func (NoOpMetrics) RecordRetrySuccess()               {}
func (NoOpMetrics) RecordRetryExhausted()             {}
func (NoOpMetrics) GetSnapshot() MetricsSnapshot      { return MetricsSnapshot{} }
func (NoOpMetrics) Start(context.Context, string)     {}
func (NoOpMetrics) Stop(context.Context)              {}

// InMemoryMetrics counts events in process memory.
type InMemoryMetrics struct {
	workersStarted atomic.Int64
	workersStopped atomic.Int64
	workerPanics   atomic.Int64

	tasksCheckedOut atomic.Int64
	tasksCompleted  atomic.Int64
	tasksFailed     atomic.Int64
	checkoutErrors  atomic.Int64

	retryAttempts    atomic.Int64
	retrySuccesses   atomic.Int64
	retriesExhausted atomic.Int64

	mu       sync.Mutex
	pool     string
	started  time.Time
	total    time.Duration
	shortest time.Duration
	longest  time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{shortest: math.MaxInt64}
}

func (m *InMemoryMetrics) Start(_ context.Context, poolName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pool = poolName
	m.started = time.Now()
}

func (m *InMemoryMetrics) Stop(context.Context) {}

func (m *InMemoryMetrics) RecordWorkerStarted()  { m.workersStarted.Add(1) }
func (m *InMemoryMetrics) RecordWorkerStopped()  { m.workersStopped.Add(1) }
func (m *InMemoryMetrics) RecordWorkerPanic()    { m.workerPanics.Add(1) }
func (m *InMemoryMetrics) RecordTaskCheckedOut() { m.tasksCheckedOut.Add(1) }
func (m *InMemoryMetrics) RecordCheckoutError()  { m.checkoutErrors.Add(1) }
func (m *InMemoryMetrics) RecordRetryAttempt()   { m.retryAttempts.Add(1) }
func (m *InMemoryMetrics) RecordRetrySuccess()   { m.retrySuccesses.Add(1) }
func (m *InMemoryMetrics) RecordRetryExhausted() { m.retriesExhausted.Add(1) }

func (m *InMemoryMetrics) RecordTaskCompleted(duration time.Duration) {
	m.tasksCompleted.Add(1)
	m.observe(duration)
}

func (m *InMemoryMetrics) RecordTaskFailed(duration time.Duration) {
	m.tasksFailed.Add(1)
	m.observe(duration)
}

func (m *InMemoryMetrics) observe(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total += d
	m.shortest = min(m.shortest, d)
	m.longest = max(m.longest, d)
}

func (m *InMemoryMetrics) GetSnapshot() MetricsSnapshot {
	now := time.Now()

	m.mu.Lock()
	s := MetricsSnapshot{
		Pool:          m.pool,
		TotalDuration: m.total,
		MinDuration:   m.shortest,
		MaxDuration:   m.longest,
		CollectedAt:   now,
	}
	if !m.started.IsZero() {
		s.Uptime = now.Sub(m.started)
	}
	m.mu.Unlock()

	s.WorkersStarted = m.workersStarted.Load()
	s.WorkersStopped = m.workersStopped.Load()
	s.WorkersActive = s.WorkersStarted - s.WorkersStopped
	s.WorkerPanics = m.workerPanics.Load()

	s.TasksCheckedOut = m.tasksCheckedOut.Load()
	s.TasksCompleted = m.tasksCompleted.Load()
	s.TasksFailed = m.tasksFailed.Load()
	s.CheckoutErrors = m.checkoutErrors.Load()

	s.RetryAttempts = m.retryAttempts.Load()
	s.RetrySuccesses = m.retrySuccesses.Load()
	s.RetriesExhausted = m.retriesExhausted.Load()

	settled := s.TasksCompleted + s.TasksFailed
	s.TasksInProgress = s.TasksCheckedOut - settled
	if settled == 0 {
		s.MinDuration = 0
		return s
	}
	s.AverageDuration = s.TotalDuration / time.Duration(settled)
	s.ErrorRate = float64(s.TasksFailed) / float64(settled) * 100
	return s
}
