package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/infrastructure/workers"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type expirer struct {
	mu     sync.Mutex
	calls  []time.Time
	result int64
	err    error
}

func (e *expirer) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, before)
	return e.result, e.err
}

func (e *expirer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func TestCheckoutHonorsInterval(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := New(logger.Discard(), &expirer{}, &expirer{}, time.Minute)
	p.now = func() time.Time { return clock }

	first, err := p.Checkout(context.Background(), "w1")
	require.NoError(t, err)
	require.Equal(t, clock, first.Before)
	require.NotEmpty(t, first.GetID())

	_, err = p.Checkout(context.Background(), "w1")
	require.ErrorIs(t, err, workers.ErrNoWorkAvailable)

	clock = clock.Add(59 * time.Second)
	_, err = p.Checkout(context.Background(), "w1")
	require.ErrorIs(t, err, workers.ErrNoWorkAvailable)

	clock = clock.Add(time.Second)
	_, err = p.Checkout(context.Background(), "w1")
	require.NoError(t, err)
}

func TestProcessDeletesBoth(t *testing.T) {
	sessions := &expirer{result: 4}
	tokens := &expirer{result: 2}
	p := New(logger.Discard(), sessions, tokens, time.Minute)

	before := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sweep, err := p.Process(context.Background(), Sweep{ID: "s", Before: before})
	require.NoError(t, err)
	require.EqualValues(t, 4, sweep.Sessions)
	require.EqualValues(t, 2, sweep.Tokens)
	require.Equal(t, []time.Time{before}, sessions.calls)
	require.Equal(t, []time.Time{before}, tokens.calls)
}

func TestProcessStopsOnSessionError(t *testing.T) {
	boom := errors.New("boom")
	tokens := &expirer{}
	p := New(logger.Discard(), &expirer{err: boom}, tokens, time.Minute)

	_, err := p.Process(context.Background(), Sweep{ID: "s"})
	require.ErrorIs(t, err, boom)
	require.Zero(t, tokens.count())
}

func TestFailMakesNextSweepDue(t *testing.T) {
	p := New(logger.Discard(), &expirer{}, &expirer{}, time.Hour)

	sweep, err := p.Checkout(context.Background(), "w1")
	require.NoError(t, err)
	_, err = p.Checkout(context.Background(), "w1")
	require.ErrorIs(t, err, workers.ErrNoWorkAvailable)

	require.NoError(t, p.Fail(context.Background(), sweep, errors.New("db down")))

	_, err = p.Checkout(context.Background(), "w1")
	require.NoError(t, err)
}

func TestPoolRunsSweep(t *testing.T) {
	sessions := &expirer{result: 1}
	tokens := &expirer{}
	p := New(logger.Discard(), sessions, tokens, time.Hour)

	pool, err := NewPool("SWEEPERTEST", logger.Discard(), p)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Start(ctx) }()

	require.Eventually(t, func() bool { return tokens.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.Equal(t, 1, sessions.count())
}
