// Package browser drives headless Chrome to capture the rendered
// reservation page as HTML. The page builds its availability tables
// with JavaScript, so a plain HTTP GET returns an empty shell.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/hmuraoka/seatwatch/internal/config"
	"github.com/hmuraoka/seatwatch/internal/metrics"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Session fetches the rendered reservation page. Each fetch runs in a
// fresh browser so a wedged tab cannot poison later checks.
type Session struct {
	cfg   config.PageConfig
	pacer *Pacer
	retry *retrier
	log   *slog.Logger
}

// NewSession creates a session for the configured page.
func NewSession(cfg config.PageConfig, log *slog.Logger) *Session {
	return &Session{
		cfg:   cfg,
		pacer: NewPacer(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, cfg.RateLimit.DailyLimit),
		retry: newRetrier(cfg.Retry.Attempts, cfg.Retry.Delay),
		log:   log,
	}
}

// Pacer exposes the fetch pacer for status reporting.
func (s *Session) Pacer() *Pacer {
	return s.pacer
}

// FetchPage navigates to the reservation page, waits for the JS render,
// and returns the full document HTML. Attempts are paced and retried
// per the page configuration.
func (s *Session) FetchPage(ctx context.Context) (string, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		if errors.Is(err, ErrDailyBudgetExhausted) {
			metrics.DailyBudgetHits.Inc()
			s.log.Warn("daily fetch budget exhausted", "reset_at", s.pacer.ResetAt())
		}
		return "", err
	}

	metrics.PageFetchesTotal.Inc()

	var html string
	err := s.retry.do(ctx, func(ctx context.Context) error {
		return s.capture(ctx, &html)
	}, func(attempt int, err error) {
		metrics.PageFetchRetriesTotal.Inc()
		s.log.Warn("page fetch attempt failed",
			"attempt", attempt,
			"url", s.cfg.URL,
			"error", err,
		)
	})
	if err != nil {
		metrics.PageFetchFailuresTotal.Inc()
		return "", fmt.Errorf("fetching reservation page: %w", err)
	}

	s.log.Debug("page captured", "url", s.cfg.URL, "bytes", len(html))
	return html, nil
}

func (s *Session) capture(parent context.Context, out *string) error {
	ctx, cancel := s.newContext(parent)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(s.cfg.URL),
		chromedp.Sleep(s.cfg.RenderWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate and capture: %w", err)
	}
	if strings.TrimSpace(html) == "" {
		return errors.New("captured empty document")
	}

	*out = html
	return nil
}

// newContext creates a fresh chromedp context (one browser, one tab).
func (s *Session) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	headless := s.cfg.Headless == nil || *s.cfg.Headless

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}
