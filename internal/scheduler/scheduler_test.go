package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_tracker/internal/domain"
)

type runnerFunc func(ctx context.Context) (*domain.CycleStats, error)

func (f runnerFunc) RunCycle(ctx context.Context) (*domain.CycleStats, error) {
	return f(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestTrigger_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	s := NewScheduler(runnerFunc(func(ctx context.Context) (*domain.CycleStats, error) {
		calls.Add(1)
		close(started)
		<-release
		return &domain.CycleStats{}, nil
	}), time.Hour, time.Minute, testLogger())

	done := make(chan bool)
	go func() { done <- s.Trigger(context.Background()) }()

	<-started
	assert.False(t, s.Trigger(context.Background()), "overlapping trigger is a no-op")

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTrigger_RecoversPanics(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler(runnerFunc(func(ctx context.Context) (*domain.CycleStats, error) {
		if calls.Add(1) == 1 {
			panic("selector exploded")
		}
		return &domain.CycleStats{}, nil
	}), time.Hour, time.Minute, testLogger())

	assert.True(t, s.Trigger(context.Background()))
	assert.True(t, s.Trigger(context.Background()), "guard released after panic")
	assert.Equal(t, int32(2), calls.Load())
}

func TestTrigger_WatchdogCancelsCycle(t *testing.T) {
	var cancelled atomic.Bool
	s := NewScheduler(runnerFunc(func(ctx context.Context) (*domain.CycleStats, error) {
		<-ctx.Done()
		cancelled.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return nil, ctx.Err()
	}), time.Hour, 20*time.Millisecond, testLogger())

	start := time.Now()
	require.True(t, s.Trigger(context.Background()))
	assert.True(t, cancelled.Load())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStart_RunsSequentiallyUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inFlight, maxInFlight, calls atomic.Int32
	s := NewScheduler(runnerFunc(func(ctx context.Context) (*domain.CycleStats, error) {
		n := inFlight.Add(1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		if calls.Add(1) == 3 {
			cancel()
		}
		return &domain.CycleStats{}, errors.New("cycle errors never stop the loop")
	}), time.Millisecond, time.Minute, testLogger())

	err := s.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
	assert.Equal(t, int32(1), maxInFlight.Load())
}
