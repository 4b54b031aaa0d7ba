// Package engine orchestrates availability checks: page capture,
// section resolution, persistence, and alerting.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hmuraoka/seatwatch/internal/lookup"
	"github.com/hmuraoka/seatwatch/internal/metrics"
	"github.com/hmuraoka/seatwatch/internal/notify"
	"github.com/hmuraoka/seatwatch/internal/store"
	"github.com/hmuraoka/seatwatch/pkg/resolve"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// PageSource produces the rendered reservation page HTML.
type PageSource interface {
	FetchPage(ctx context.Context) (string, error)
}

// Engine runs availability check cycles.
type Engine struct {
	store    store.Store
	source   PageSource
	notifier notify.Notifier
	log      *slog.Logger

	rooms           []domain.RoomCategory
	trains          []string
	sectionSelector string
	pageURL         string
	windowRadius    int

	reAlertsEnabled  bool
	reAlertsCooldown time.Duration

	nowFunc func() time.Time
	newID   func() string
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithRooms sets the room catalog to resolve.
func WithRooms(rooms []domain.RoomCategory) Option {
	return func(e *Engine) {
		e.rooms = rooms
	}
}

// WithTrains sets the train sections to scan.
func WithTrains(trains []string) Option {
	return func(e *Engine) {
		e.trains = trains
	}
}

// WithSectionSelector sets the CSS selector used to split the page into
// per-train sections.
func WithSectionSelector(sel string) Option {
	return func(e *Engine) {
		e.sectionSelector = sel
	}
}

// WithPageURL sets the page URL included in notifications.
func WithPageURL(url string) Option {
	return func(e *Engine) {
		e.pageURL = url
	}
}

// WithWindowRadius sets the windowed-search radius for the whole-section
// fallback.
func WithWindowRadius(radius int) Option {
	return func(e *Engine) {
		e.windowRadius = radius
	}
}

// WithReAlerts configures repeat alerting. When enabled, a room alerts
// again once its cooldown has elapsed; when disabled, each (train, room)
// pair alerts at most once.
func WithReAlerts(enabled bool, cooldown time.Duration) Option {
	return func(e *Engine) {
		e.reAlertsEnabled = enabled
		e.reAlertsCooldown = cooldown
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(s store.Store, src PageSource, n notify.Notifier, opts ...Option) *Engine {
	e := &Engine{
		store:            s,
		source:           src,
		notifier:         n,
		log:              slog.Default(),
		rooms:            domain.DefaultRooms(),
		trains:           []string{"サンライズ瀬戸", "サンライズ出雲"},
		sectionSelector:  "table",
		windowRadius:     resolve.WindowRadiusMulti,
		reAlertsEnabled:  true,
		reAlertsCooldown: 6 * time.Hour,
		nowFunc:          time.Now,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCheck executes one availability check: fetch, resolve every room
// on every train, persist the outcome, and fire alerts for rooms that
// became bookable. The returned CheckResult is persisted even when the
// cycle fails; the error reports why.
func (e *Engine) RunCheck(ctx context.Context) (*domain.CheckResult, error) {
	start := e.nowFunc()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()

	result := &domain.CheckResult{
		ID:        e.newID(),
		StartedAt: start,
	}

	html, err := e.source.FetchPage(ctx)
	if err != nil {
		return e.finishCheck(ctx, result, domain.CheckFailed), fmt.Errorf("page fetch: %w", err)
	}

	sections, err := lookup.SplitSections(html, e.trains, e.sectionSelector)
	if err != nil {
		return e.finishCheck(ctx, result, domain.CheckFailed), fmt.Errorf("splitting sections: %w", err)
	}

	finder := lookup.NewFinder(e.windowRadius, e.log)
	for _, sec := range sections {
		result.Trains = append(result.Trains, finder.ResolveSection(sec, e.rooms))
	}
	result.Available = collectAvailable(result.Trains, e.rooms)

	status := domain.CheckNoSignal
	if anySignal(result.Trains) {
		status = domain.CheckOK
	}
	e.finishCheck(ctx, result, status)

	e.log.Info("check complete",
		"check_id", result.ID,
		"status", result.Status,
		"available_rooms", len(result.Available),
	)

	if result.HasAvailability() {
		e.processAlerts(ctx, result)
	}

	return result, nil
}

// finishCheck stamps and persists the result. Persistence failures are
// logged, not returned; a full history is not worth losing the check.
func (e *Engine) finishCheck(ctx context.Context, result *domain.CheckResult, status domain.CheckStatus) *domain.CheckResult {
	result.Status = status
	result.CompletedAt = e.nowFunc()

	metrics.ChecksTotal.WithLabelValues(string(status)).Inc()
	metrics.RoomsAvailable.Set(float64(len(result.Available)))

	if err := e.store.CreateCheck(ctx, result); err != nil {
		e.log.Error("persisting check failed", "check_id", result.ID, "error", err)
		return result
	}
	if obs := buildObservations(result); len(obs) > 0 {
		if err := e.store.InsertObservations(ctx, obs); err != nil {
			e.log.Error("persisting observations failed", "check_id", result.ID, "error", err)
		}
	}
	return result
}

// collectAvailable deduplicates available rooms across trains,
// preserving catalog order. The indicator comes from the first train
// the room was available on.
func collectAvailable(trains []domain.TrainResult, rooms []domain.RoomCategory) []domain.AvailableRoom {
	byRoom := make(map[string]*domain.AvailableRoom)
	for _, tr := range trains {
		for _, rr := range tr.Rooms {
			if rr.Status != domain.StatusAvailable {
				continue
			}
			entry, ok := byRoom[rr.Room]
			if !ok {
				entry = &domain.AvailableRoom{Room: rr.Room, Indicator: rr.Indicator}
				byRoom[rr.Room] = entry
			}
			entry.Trains = append(entry.Trains, tr.Train)
		}
	}

	var out []domain.AvailableRoom
	for _, room := range rooms {
		if entry, ok := byRoom[room.Name]; ok {
			out = append(out, *entry)
		}
	}
	return out
}

func anySignal(trains []domain.TrainResult) bool {
	for _, tr := range trains {
		for _, rr := range tr.Rooms {
			if rr.Status != domain.StatusUnknown {
				return true
			}
		}
	}
	return false
}

func buildObservations(result *domain.CheckResult) []domain.Observation {
	var obs []domain.Observation
	for _, tr := range result.Trains {
		for _, rr := range tr.Rooms {
			obs = append(obs, domain.Observation{
				CheckID:   result.ID,
				Train:     tr.Train,
				Room:      rr.Room,
				Status:    rr.Status,
				Indicator: rr.Indicator,
				CreatedAt: result.CompletedAt,
			})
		}
	}
	return obs
}
