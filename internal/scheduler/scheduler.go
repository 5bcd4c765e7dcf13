package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"trade_tracker/internal/domain"
)

// Runner defines the interface for one polling cycle.
type Runner interface {
	RunCycle(ctx context.Context) (*domain.CycleStats, error)
}

// Scheduler runs cycles one at a time. The next cycle starts interval after
// the previous one finished, and each cycle is bounded by maxRuntime.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	maxRuntime time.Duration
	running    atomic.Bool
	logger     *slog.Logger
}

func NewScheduler(runner Runner, interval, maxRuntime time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		maxRuntime: maxRuntime,
		logger:     logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "max_runtime", s.maxRuntime)

	for {
		s.Trigger(ctx)

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Trigger runs one cycle unless another is in progress. It reports whether a
// cycle ran.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous cycle still running, skipping")
		return false
	}
	defer s.running.Store(false)

	s.runCycle(ctx)
	return true
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cycle panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	cycleCtx, cancel := context.WithTimeout(ctx, s.maxRuntime)
	defer cancel()

	if _, err := s.runner.RunCycle(cycleCtx); err != nil {
		s.logger.Error("cycle failed", "error", err)
	}

	if cycleCtx.Err() == context.DeadlineExceeded {
		s.logger.Warn("cycle exceeded max runtime", "max_runtime", s.maxRuntime)
	}
}
