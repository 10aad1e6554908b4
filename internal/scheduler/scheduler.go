package scheduler

import (
	"context"
	"sync"
	"time"

	"smoketrack/internal/config"
	"smoketrack/internal/services"
	"smoketrack/pkg/logger"
)

// Scheduler runs the background compliance sweeps on fixed intervals.
type Scheduler struct {
	sweepSvc services.SweepService
	config   *config.SchedulerConfig
	log      *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(sweepSvc services.SweepService, cfg *config.SchedulerConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{
		sweepSvc: sweepSvc,
		config:   cfg,
		log:      log,
	}
}

// Start launches the sweep loops. Each job also runs once immediately so a
// restarted server catches up without waiting a full interval.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.config.Enabled {
		s.log.Info("Scheduler disabled, background sweeps will not run")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.runLoop(ctx, "refresh_statuses", s.config.StatusRefreshInterval, func(ctx context.Context) error {
		_, err := s.sweepSvc.RefreshStatuses(ctx, services.SweepScope{})
		return err
	})

	s.runLoop(ctx, "generate_reminders", s.config.ReminderSweepInterval, func(ctx context.Context) error {
		_, err := s.sweepSvc.GenerateUpcomingReminders(ctx)
		return err
	})

	s.runLoop(ctx, "dispatch_reminders", s.config.DispatchSweepInterval, func(ctx context.Context) error {
		_, err := s.sweepSvc.DispatchDueReminders(ctx)
		return err
	})

	s.log.Info("Scheduler started")
}

// Stop cancels the loops and waits for in-flight sweeps to finish, up to
// the configured grace period.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.config.ShutdownGracePeriod):
		s.log.Warn("Scheduler shutdown grace period elapsed with sweeps still running")
	}
}

func (s *Scheduler) runLoop(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.runJob(ctx, name, job)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runJob(ctx, name, job)
			}
		}
	}()
}

func (s *Scheduler) runJob(ctx context.Context, name string, job func(context.Context) error) {
	if err := job(ctx); err != nil {
		s.log.WithError(err).Errorf("Sweep job %s failed", name)
	}
}
