package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyBudgetExhausted is returned when the daily page fetch budget
// has been used up.
var ErrDailyBudgetExhausted = errors.New("daily fetch budget exhausted")

// Pacer controls page fetch rate and the daily fetch budget. It uses a
// token bucket for per-minute pacing and a rolling 24-hour window for
// the daily budget.
type Pacer struct {
	limiter  *rate.Limiter
	daily    atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// PacerOption configures the Pacer.
type PacerOption func(*Pacer)

// WithPacerNowFunc overrides the time function for testing.
func WithPacerNowFunc(f func() time.Time) PacerOption {
	return func(p *Pacer) {
		p.nowFunc = f
	}
}

// NewPacer creates a pacer with the given per-minute fetch rate, burst
// size, and daily budget. The budget uses a rolling 24-hour window that
// resets 24 hours after the window opens.
func NewPacer(perMinute float64, burst int, maxDaily int64, opts ...PacerOption) *Pacer {
	p := &Pacer{
		limiter:  rate.NewLimiter(rate.Limit(perMinute/60.0), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resetAt = p.nowFunc().Add(24 * time.Hour)
	return p
}

// Wait blocks until pacing allows the next fetch, or the context is
// canceled. Returns ErrDailyBudgetExhausted when the budget is spent.
func (p *Pacer) Wait(ctx context.Context) error {
	p.checkDailyReset()

	if p.daily.Load() >= p.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyBudgetExhausted, p.daily.Load(), p.maxDaily)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacer wait: %w", err)
	}

	p.daily.Add(1)
	return nil
}

// DailyCount returns the number of fetches in the current window.
func (p *Pacer) DailyCount() int64 {
	return p.daily.Load()
}

// Remaining returns the number of fetches left in the current window.
func (p *Pacer) Remaining() int64 {
	remaining := p.maxDaily - p.daily.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAt returns when the current 24-hour window expires.
func (p *Pacer) ResetAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resetAt
}

func (p *Pacer) checkDailyReset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.nowFunc()
	if now.After(p.resetAt) {
		p.daily.Store(0)
		p.resetAt = now.Add(24 * time.Hour)
	}
}
