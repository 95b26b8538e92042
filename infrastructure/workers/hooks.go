package workers

import (
	"context"
	"log/slog"
)

// AddPreProcessHooks registers hooks that run between Checkout and Process.
func (wp *WorkerPool[T]) AddPreProcessHooks(hooks ...PreProcessHook[T]) {
	wp.preProcessHooks = append(wp.preProcessHooks, hooks...)
}

// AddPostProcessHooks registers hooks that run between Process and Complete/Fail.
func (wp *WorkerPool[T]) AddPostProcessHooks(hooks ...PostProcessHook[T]) {
	wp.postProcessHooks = append(wp.postProcessHooks, hooks...)
}

// LogStartHook logs every task as it starts at debug level.
func LogStartHook[T Task](log *slog.Logger) PreProcessHook[T] {
	return func(ctx context.Context, task T) error {
		log.DebugContext(ctx, "task starting", "task_id", task.GetID())
		return nil
	}
}

// LogEndHook logs every task outcome at debug level.
func LogEndHook[T Task](log *slog.Logger) PostProcessHook[T] {
	return func(ctx context.Context, task T, err error) error {
		if err != nil {
			log.DebugContext(ctx, "task ended", "task_id", task.GetID(), "error", err)
			return nil
		}
		log.DebugContext(ctx, "task ended", "task_id", task.GetID())
		return nil
	}
}
