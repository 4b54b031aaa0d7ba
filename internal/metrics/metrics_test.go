package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, ChecksTotal)
	assert.NotNil(t, CheckDuration)
	assert.NotNil(t, RoomsAvailable)
	assert.NotNil(t, PageFetchesTotal)
	assert.NotNil(t, PageFetchRetriesTotal)
	assert.NotNil(t, PageFetchFailuresTotal)
	assert.NotNil(t, DailyBudgetHits)
	assert.NotNil(t, AlertsFiredTotal)
	assert.NotNil(t, NotificationFailuresTotal)
}
