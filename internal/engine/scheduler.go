package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ActiveWindow restricts scheduled checks to a daily time range.
// Windows may wrap past midnight (e.g. 22:00 to 06:00). The zero value
// means always active.
type ActiveWindow struct {
	from time.Duration // offset from midnight
	to   time.Duration
	set  bool
}

// ParseActiveWindow builds an ActiveWindow from "HH:MM" bounds. Both
// empty yields an always-active window.
func ParseActiveWindow(from, until string) (ActiveWindow, error) {
	if from == "" && until == "" {
		return ActiveWindow{}, nil
	}

	parse := func(v string) (time.Duration, error) {
		t, err := time.Parse("15:04", v)
		if err != nil {
			return 0, fmt.Errorf("active window time %q: want HH:MM", v)
		}
		return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
	}

	f, err := parse(from)
	if err != nil {
		return ActiveWindow{}, err
	}
	u, err := parse(until)
	if err != nil {
		return ActiveWindow{}, err
	}
	return ActiveWindow{from: f, to: u, set: true}, nil
}

// Contains reports whether t falls within the window. The lower bound
// is inclusive, the upper exclusive.
func (w ActiveWindow) Contains(t time.Time) bool {
	if !w.set {
		return true
	}
	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second

	if w.from <= w.to {
		return offset >= w.from && offset < w.to
	}
	// Wraps past midnight.
	return offset >= w.from || offset < w.to
}

// Scheduler runs periodic availability checks and history pruning.
type Scheduler struct {
	cron      *cron.Cron
	engine    *Engine
	window    ActiveWindow
	retention time.Duration
	log       *slog.Logger
	nowFunc   func() time.Time
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerNowFunc overrides the time function for testing.
func WithSchedulerNowFunc(f func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.nowFunc = f
	}
}

// NewScheduler creates a Scheduler that runs checks every checkInterval
// and prunes history older than retention every pruneInterval.
func NewScheduler(
	eng *Engine,
	checkInterval time.Duration,
	pruneInterval time.Duration,
	retention time.Duration,
	window ActiveWindow,
	log *slog.Logger,
	opts ...SchedulerOption,
) (*Scheduler, error) {
	// A slow check must not overlap the next tick; skip instead.
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		engine:    eng,
		window:    window,
		retention: retention,
		log:       log,
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.cron.AddFunc("@every "+checkInterval.String(), s.runCheck); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc("@every "+pruneInterval.String(), s.runPrune); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runCheck() {
	now := s.nowFunc()
	if !s.window.Contains(now) {
		s.log.Debug("outside active window, skipping check")
		return
	}

	s.log.Info("scheduled check starting")
	if _, err := s.engine.RunCheck(context.Background()); err != nil {
		s.log.Error("scheduled check failed", "error", err)
	}
}

func (s *Scheduler) runPrune() {
	ctx := context.Background()
	before := s.nowFunc().Add(-s.retention)

	pruned, err := s.engine.store.PruneHistory(ctx, before)
	if err != nil {
		s.log.Error("history prune failed", "error", err)
		return
	}
	s.log.Info("history pruned", "removed", pruned, "before", before)
}
