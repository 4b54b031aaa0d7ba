package store

import (
	"context"
	"sync"
	"time"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

const memoryHistoryCap = 256

// MemoryStore implements Store in process memory. It backs one-shot
// checks and deployments without a database; history does not survive a
// restart.
type MemoryStore struct {
	mu     sync.Mutex
	checks []domain.CheckResult
	obs    []domain.Observation
	alerts []domain.Alert
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// CreateCheck appends a check result, evicting the oldest beyond the cap.
func (m *MemoryStore) CreateCheck(_ context.Context, c *domain.CheckResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checks = append(m.checks, *c)
	if len(m.checks) > memoryHistoryCap {
		m.checks = m.checks[len(m.checks)-memoryHistoryCap:]
	}
	return nil
}

// LatestCheck returns the most recent check result.
func (m *MemoryStore) LatestCheck(_ context.Context) (*domain.CheckResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.checks) == 0 {
		return nil, ErrNotFound
	}
	c := m.checks[len(m.checks)-1]
	return &c, nil
}

// InsertObservations appends observations.
func (m *MemoryStore) InsertObservations(_ context.Context, obs []domain.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.obs = append(m.obs, obs...)
	return nil
}

// AlertedSince reports whether an alert for (train, room) was recorded
// at or after the given time.
func (m *MemoryStore) AlertedSince(_ context.Context, train, room string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := m.alerts[i]
		if a.Train == train && a.Room == room && !a.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// RecordAlert appends a sent alert.
func (m *MemoryStore) RecordAlert(_ context.Context, a *domain.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts = append(m.alerts, *a)
	return nil
}

// PruneHistory drops checks and observations older than the cutoff.
func (m *MemoryStore) PruneHistory(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned int64

	kept := m.checks[:0]
	for _, c := range m.checks {
		if c.StartedAt.Before(before) {
			pruned++
			continue
		}
		kept = append(kept, c)
	}
	m.checks = kept

	keptObs := m.obs[:0]
	for _, o := range m.obs {
		if o.CreatedAt.Before(before) {
			continue
		}
		keptObs = append(keptObs, o)
	}
	m.obs = keptObs

	return pruned, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() {}
