// Package store defines the check-history datastore abstraction. The
// engine depends on the Store interface, never on concrete
// implementations; a Postgres store keeps durable history and an
// in-memory store serves one-shot checks and tests.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines all data access operations for seatwatch.
type Store interface {
	// Check history
	CreateCheck(ctx context.Context, c *domain.CheckResult) error
	LatestCheck(ctx context.Context) (*domain.CheckResult, error)
	InsertObservations(ctx context.Context, obs []domain.Observation) error

	// Alert cooldown tracking
	AlertedSince(ctx context.Context, train, room string, since time.Time) (bool, error)
	RecordAlert(ctx context.Context, a *domain.Alert) error

	// Maintenance
	PruneHistory(ctx context.Context, before time.Time) (int64, error)

	Ping(ctx context.Context) error
	Close()
}
