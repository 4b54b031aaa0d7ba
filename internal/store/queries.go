package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Check run queries.
const (
	queryInsertCheck = `
		INSERT INTO check_runs (id, status, payload, started_at, completed_at)
		VALUES (@id, @status, @payload, @started_at, @completed_at)`

	queryLatestCheck = `
		SELECT payload
		FROM check_runs
		ORDER BY started_at DESC
		LIMIT 1`

	queryPruneChecks = `
		DELETE FROM check_runs
		WHERE started_at < $1`
)

// Observation queries.
const (
	queryInsertObservation = `
		INSERT INTO observations (check_id, train, room, status, indicator, created_at)
		VALUES (@check_id, @train, @room, @status, @indicator, @created_at)`

	queryPruneObservations = `
		DELETE FROM observations
		WHERE created_at < $1`
)

// Alert queries.
const (
	queryInsertAlert = `
		INSERT INTO alerts (id, train, room, indicator, sent_at)
		VALUES (@id, @train, @room, @indicator, @sent_at)`

	queryAlertedSince = `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE train = $1 AND room = $2 AND sent_at >= $3
		)`
)
