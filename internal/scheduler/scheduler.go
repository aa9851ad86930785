// Package scheduler runs background jobs on cron schedules. When a lease
// locker is configured each tick first takes a Redis lease, so a job runs on
// at most one replica at a time.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/momentum/internal/constants"
	"github.com/julianstephens/momentum/internal/lease"
	"github.com/julianstephens/momentum/internal/logger"
	"github.com/julianstephens/momentum/internal/retention"
)

// JobFunc is the body of a scheduled job
type JobFunc func(ctx context.Context) error

type job struct {
	name string
	fn   JobFunc
}

// Scheduler wraps a cron runner
type Scheduler struct {
	cron     *cron.Cron
	locker   *lease.Locker
	leaseTTL time.Duration

	mu   sync.Mutex
	jobs map[string]job

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. locker may be nil, in which case every tick runs
// locally.
func New(locker *lease.Locker) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		locker:   locker,
		leaseTTL: constants.PurgeLeaseTTLMin * time.Minute,
		jobs:     make(map[string]job),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddJob registers fn under name on a standard cron spec or descriptor
func (s *Scheduler) AddJob(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}
	j := job{name: name, fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.run(s.ctx, j) }); err != nil {
		return fmt.Errorf("invalid schedule for %s: %w", name, err)
	}
	s.jobs[name] = j
	logger.Debug("Job registered", "job", name, "schedule", spec)
	return nil
}

// AddPurge registers the retention purge
func (s *Scheduler) AddPurge(spec string, purger *retention.Purger) error {
	return s.AddJob(constants.PurgeJobName, spec, func(ctx context.Context) error {
		_, err := purger.Purge(ctx)
		return err
	})
}

// RunNow executes a registered job immediately, honoring the lease
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	return s.run(ctx, j)
}

func (s *Scheduler) run(ctx context.Context, j job) error {
	if s.locker != nil {
		held, err := s.locker.Acquire(ctx, j.name, s.leaseTTL)
		if err != nil {
			logger.Error("Failed to acquire job lease", "job", j.name, "error", err)
			return err
		}
		if held == nil {
			logger.Debug("Job lease held elsewhere, skipping", "job", j.name)
			return nil
		}
		defer func() {
			if err := held.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release job lease", "job", j.name, "error", err)
			}
		}()
	}

	start := time.Now()
	err := j.fn(ctx)
	if err != nil {
		logger.Error("Job failed", "job", j.name, "duration", time.Since(start), "error", err)
		return err
	}
	logger.Info("Job finished", "job", j.name, "duration", time.Since(start))
	return nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels running jobs and waits for them to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes cron's internal logging through the app logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
