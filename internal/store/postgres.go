package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

const defaultPoolSize = 4

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateCheck inserts a completed check run, with the full result as a
// JSON payload.
func (s *PostgresStore) CreateCheck(ctx context.Context, c *domain.CheckResult) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling check payload: %w", err)
	}

	args := pgx.NamedArgs{
		"id":           c.ID,
		"status":       string(c.Status),
		"payload":      payload,
		"started_at":   c.StartedAt,
		"completed_at": c.CompletedAt,
	}

	if _, err := s.pool.Exec(ctx, queryInsertCheck, args); err != nil {
		return fmt.Errorf("inserting check run: %w", err)
	}
	return nil
}

// LatestCheck returns the most recent check result.
func (s *PostgresStore) LatestCheck(ctx context.Context) (*domain.CheckResult, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, queryLatestCheck).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest check: %w", err)
	}

	c := &domain.CheckResult{}
	if err := json.Unmarshal(payload, c); err != nil {
		return nil, fmt.Errorf("unmarshaling check payload: %w", err)
	}
	return c, nil
}

// InsertObservations inserts per-room observations in one batch.
func (s *PostgresStore) InsertObservations(ctx context.Context, obs []domain.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range obs {
		o := &obs[i]
		batch.Queue(queryInsertObservation, pgx.NamedArgs{
			"check_id":   o.CheckID,
			"train":      o.Train,
			"room":       o.Room,
			"status":     string(o.Status),
			"indicator":  o.Indicator,
			"created_at": o.CreatedAt,
		})
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting observations: %w", err)
	}
	return nil
}

// AlertedSince reports whether an alert for (train, room) was recorded
// at or after the given time.
func (s *PostgresStore) AlertedSince(ctx context.Context, train, room string, since time.Time) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, queryAlertedSince, train, room, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("querying alerts: %w", err)
	}
	return exists, nil
}

// RecordAlert inserts a sent alert.
func (s *PostgresStore) RecordAlert(ctx context.Context, a *domain.Alert) error {
	args := pgx.NamedArgs{
		"id":        a.ID,
		"train":     a.Train,
		"room":      a.Room,
		"indicator": a.Indicator,
		"sent_at":   a.SentAt,
	}

	if _, err := s.pool.Exec(ctx, queryInsertAlert, args); err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}

// PruneHistory deletes check runs and observations older than the
// cutoff, returning the number of check runs removed.
func (s *PostgresStore) PruneHistory(ctx context.Context, before time.Time) (int64, error) {
	if _, err := s.pool.Exec(ctx, queryPruneObservations, before); err != nil {
		return 0, fmt.Errorf("pruning observations: %w", err)
	}

	tag, err := s.pool.Exec(ctx, queryPruneChecks, before)
	if err != nil {
		return 0, fmt.Errorf("pruning check runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
