package workers

import (
	"context"
	"errors"
	"sync"
)

// buildMiddlewareChain wraps work so the first middleware added is the outermost.
func (wp *WorkerPool[T]) buildMiddlewareChain() {
	wp.workFunc = wp.work
	for i := len(wp.middlewares) - 1; i >= 0; i-- {
		wp.workFunc = wp.middlewares[i](wp.workFunc)
	}
}

// ConsecutiveErrorShutdown stops a worker after more than count failures in a row. Idle
// polls neither count nor reset the streak.
func ConsecutiveErrorShutdown(count int) Middleware {
	var mu sync.Mutex
	streaks := make(map[string]int)

	return func(next WorkFunc) WorkFunc {
		return func(ctx context.Context, workerID string) error {
			err := next(ctx, workerID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				streaks[workerID] = 0
			case errors.Is(err, ErrNoWorkAvailable):
			default:
				streaks[workerID]++
				if streaks[workerID] > count {
					return ErrWorkerShutdown
				}
			}
			return err
		}
	}
}
