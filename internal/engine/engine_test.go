package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmuraoka/seatwatch/internal/engine"
	"github.com/hmuraoka/seatwatch/internal/notify"
	"github.com/hmuraoka/seatwatch/internal/store"
	"github.com/hmuraoka/seatwatch/pkg/logger"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

const availablePage = `<html><body>
<table class="resList">
  <caption>サンライズ瀬戸</caption>
  <tr><td>ノビノビ座席</td><td><img src="maru.png" alt="○"></td></tr>
  <tr><td>シングル</td><td>満席</td></tr>
</table>
<table class="resList">
  <caption>サンライズ出雲</caption>
  <tr><td>ノビノビ座席</td><td>満席</td></tr>
  <tr><td>シングル</td><td>空席あり</td></tr>
</table>
</body></html>`

const soldOutPage = `<html><body>
<table class="resList">
  <caption>サンライズ瀬戸</caption>
  <tr><td>ノビノビ座席</td><td>満席</td></tr>
  <tr><td>シングル</td><td>満席</td></tr>
</table>
<table class="resList">
  <caption>サンライズ出雲</caption>
  <tr><td>ノビノビ座席</td><td>満席</td></tr>
  <tr><td>シングル</td><td>満席</td></tr>
</table>
</body></html>`

const maintenancePage = `<html><body><p>ただいまメンテナンス中です</p></body></html>`

type stubSource struct {
	html string
	err  error
}

func (s *stubSource) FetchPage(context.Context) (string, error) {
	return s.html, s.err
}

type stubNotifier struct {
	mu       sync.Mutex
	payloads []*notify.Payload
	err      error
}

func (s *stubNotifier) SendAvailability(_ context.Context, p *notify.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, p)
	return nil
}

func (s *stubNotifier) sent() []*notify.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloads
}

func (s *stubNotifier) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func testRooms() []domain.RoomCategory {
	return []domain.RoomCategory{
		{Name: "ノビノビ座席", Aliases: []string{"ノビノビ"}},
		{Name: "シングル"},
	}
}

func TestEngine_RunCheck_Available(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{html: availablePage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
		engine.WithPageURL("https://example.com/rsv"),
	)

	result, err := eng.RunCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.CheckOK, result.Status)
	require.Len(t, result.Trains, 2)
	assert.True(t, result.HasAvailability())

	// Catalog order is preserved in the deduplicated list.
	require.Len(t, result.Available, 2)
	assert.Equal(t, "ノビノビ座席", result.Available[0].Room)
	assert.Equal(t, []string{"サンライズ瀬戸"}, result.Available[0].Trains)
	assert.Equal(t, "シングル", result.Available[1].Room)
	assert.Equal(t, []string{"サンライズ出雲"}, result.Available[1].Trains)

	// Check is persisted.
	latest, err := s.LatestCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ID, latest.ID)

	// One notification with both rooms and the page URL.
	sent := n.sent()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].Rooms, 2)
	assert.Equal(t, result.ID, sent[0].CheckID)
	assert.Equal(t, "https://example.com/rsv", sent[0].PageURL)
}

func TestEngine_RunCheck_CooldownSuppressesRepeat(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{html: availablePage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
	)

	_, err := eng.RunCheck(context.Background())
	require.NoError(t, err)
	_, err = eng.RunCheck(context.Background())
	require.NoError(t, err)

	assert.Len(t, n.sent(), 1)
}

func TestEngine_RunCheck_ReAlertsAfterCooldown(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{html: availablePage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
		engine.WithReAlerts(true, 6*time.Hour),
		engine.WithNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}),
	)

	_, err := eng.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Len(t, n.sent(), 1)

	mu.Lock()
	now = now.Add(7 * time.Hour)
	mu.Unlock()

	_, err = eng.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Len(t, n.sent(), 2)
}

func TestEngine_RunCheck_ReAlertsDisabled(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	now := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{html: availablePage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
		engine.WithReAlerts(false, 0),
		engine.WithNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}),
	)

	_, err := eng.RunCheck(context.Background())
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(48 * time.Hour)
	mu.Unlock()

	_, err = eng.RunCheck(context.Background())
	require.NoError(t, err)

	assert.Len(t, n.sent(), 1)
}

func TestEngine_RunCheck_SoldOut(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{html: soldOutPage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
	)

	result, err := eng.RunCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.CheckOK, result.Status)
	assert.False(t, result.HasAvailability())
	assert.Empty(t, n.sent())

	for _, tr := range result.Trains {
		for _, rr := range tr.Rooms {
			assert.Equal(t, domain.StatusUnavailable, rr.Status, "%s/%s", tr.Train, rr.Room)
		}
	}
}

func TestEngine_RunCheck_NoSignal(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{html: maintenancePage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
	)

	result, err := eng.RunCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.CheckNoSignal, result.Status)
	assert.False(t, result.HasAvailability())
	assert.Empty(t, n.sent())
}

func TestEngine_RunCheck_FetchError(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	eng := engine.NewEngine(s, &stubSource{err: errors.New("browser crashed")}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
	)

	result, err := eng.RunCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page fetch")

	assert.Equal(t, domain.CheckFailed, result.Status)
	assert.Empty(t, n.sent())

	// Failed checks are still persisted.
	latest, lerr := s.LatestCheck(context.Background())
	require.NoError(t, lerr)
	assert.Equal(t, domain.CheckFailed, latest.Status)
}

func TestEngine_RunCheck_NotifyFailureRetriesNextCycle(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	n := &stubNotifier{}
	n.setErr(errors.New("webhook down"))

	eng := engine.NewEngine(s, &stubSource{html: availablePage}, n,
		engine.WithLogger(logger.Discard()),
		engine.WithRooms(testRooms()),
	)

	_, err := eng.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Empty(t, n.sent())

	// Failed sends leave no cooldown record.
	alerted, err := s.AlertedSince(context.Background(), "サンライズ瀬戸", "ノビノビ座席", time.Time{})
	require.NoError(t, err)
	assert.False(t, alerted)

	// Next cycle delivers.
	n.setErr(nil)
	_, err = eng.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Len(t, n.sent(), 1)
}
