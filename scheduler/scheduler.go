// Package scheduler runs the periodic advance-balance sweep.
//
// Balance persists that fail at advance write time leave the denormalised
// farmer balance stale (the write itself is never rolled back). The sweep
// re-runs the reconciler over every farmer on a cron schedule so drift
// never outlives a day.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/panchamrit/milkbook/dairy"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *dairy.Reconciler
	schedule   string
	logger     *zap.Logger
}

// New creates a scheduler that sweeps on the given 5-field cron schedule.
func New(schedule string, reconciler *dairy.Reconciler, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		schedule:   schedule,
		logger:     logger,
	}
}

// Start registers the sweep and starts the cron loop. An empty schedule
// disables the sweep entirely.
func (s *Scheduler) Start() {
	if s.schedule == "" {
		s.logger.Info("reconcile sweep disabled")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		s.logger.Error("failed to schedule reconcile sweep", zap.Error(err))
		return
	}
	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sweep() {
	s.logger.Info("running advance balance sweep")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	failed, err := s.reconciler.ReconcileAll(ctx)
	if err != nil {
		s.logger.Error("advance balance sweep failed", zap.Error(err))
		return
	}
	if failed > 0 {
		s.logger.Warn("advance balance sweep finished with failures", zap.Int("failed", failed))
	} else {
		s.logger.Info("advance balance sweep complete")
	}
}
