package workers

import "context"

// Task is a unit of work. The ID only needs to be unique within a pool.
type Task interface {
	GetID() string
}

// Processor supplies and settles tasks for a pool.
type Processor[T Task] interface {
	// Checkout claims the next task or returns ErrNoWorkAvailable. It must be safe for
	// concurrent workers.
	Checkout(ctx context.Context, workerID string) (T, error)

	// Process runs the task and returns its updated form.
	Process(ctx context.Context, task T) (T, error)

	// Complete settles a task that processed successfully.
	Complete(ctx context.Context, task T, processingTimeMS int) error

	// Fail settles a task whose retries were exhausted.
	Fail(ctx context.Context, task T, err error) error
}

// WorkFunc runs one checkout/process/settle cycle.
type WorkFunc func(ctx context.Context, workerID string) error

// Middleware wraps a WorkFunc.
type Middleware func(WorkFunc) WorkFunc

// PreProcessHook runs after Checkout and before Process.
type PreProcessHook[T Task] func(ctx context.Context, task T) error

// PostProcessHook runs after Process and before Complete or Fail.
type PostProcessHook[T Task] func(ctx context.Context, task T, err error) error
