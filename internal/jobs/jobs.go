// Package jobs runs the portfolio's periodic housekeeping on a gocron
// scheduler.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
)

const (
	VisitorCleanup = "visitor-cleanup"
	NavSweep       = "nav-session-sweep"
)

// VisitorPurger deletes visitor rows older than a cutoff.
type VisitorPurger interface {
	CleanupVisitors(ctx context.Context, before time.Time) (int64, error)
}

// SessionSweeper closes idle navigation sessions.
type SessionSweeper interface {
	Sweep(idle time.Duration) int
	Len() int
}

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	now       func() time.Time
	// observers for metrics; all optional
	OnPurged   func(n int64)
	OnSessions func(n int)
}

func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, now: time.Now}, nil
}

func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleVisitorCleanup removes visitors older than retention every
// interval, starting immediately.
func (s *Scheduler) ScheduleVisitorCleanup(p VisitorPurger, retention, interval time.Duration) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.purgeVisitors, p, retention),
		gocron.WithName(VisitorCleanup),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", VisitorCleanup, err)
	}
	return nil
}

// ScheduleNavSweep closes sessions idle for longer than idle every interval.
func (s *Scheduler) ScheduleNavSweep(r SessionSweeper, idle, interval time.Duration) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.sweepSessions, r, idle),
		gocron.WithName(NavSweep),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", NavSweep, err)
	}
	return nil
}

func (s *Scheduler) purgeVisitors(p VisitorPurger, retention time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := p.CleanupVisitors(ctx, s.now().Add(-retention))
	if err != nil {
		slog.Error("Visitor cleanup failed", logfields.Job(VisitorCleanup), logfields.Error(err))
		return
	}
	if n > 0 {
		slog.Info("Privacy cleanup removed old visitor records",
			logfields.Job(VisitorCleanup), slog.Int64("rows", n))
	}
	if s.OnPurged != nil {
		s.OnPurged(n)
	}
}

func (s *Scheduler) sweepSessions(r SessionSweeper, idle time.Duration) {
	if n := r.Sweep(idle); n > 0 {
		slog.Debug("Closed idle nav sessions", logfields.Job(NavSweep), slog.Int("closed", n))
	}
	if s.OnSessions != nil {
		s.OnSessions(r.Len())
	}
}
