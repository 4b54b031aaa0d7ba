package engine

import (
	"context"
	"time"

	"github.com/hmuraoka/seatwatch/internal/metrics"
	"github.com/hmuraoka/seatwatch/internal/notify"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// processAlerts notifies about available rooms that are not in their
// alert cooldown. Cooldown is tracked per (train, room) pair so a room
// opening up on the other train still alerts. Alerts are recorded only
// after the notification went out; a failed send retries naturally on
// the next check.
func (e *Engine) processAlerts(ctx context.Context, result *domain.CheckResult) {
	now := e.nowFunc()
	since := time.Time{}
	if e.reAlertsEnabled {
		since = now.Add(-e.reAlertsCooldown)
	}

	var (
		rooms   []domain.AvailableRoom
		pending []domain.Alert
	)
	for _, avail := range result.Available {
		var freshTrains []string
		for _, train := range avail.Trains {
			alerted, err := e.store.AlertedSince(ctx, train, avail.Room, since)
			if err != nil {
				e.log.Error("alert cooldown lookup failed",
					"train", train, "room", avail.Room, "error", err)
				continue
			}
			if alerted {
				continue
			}
			freshTrains = append(freshTrains, train)
			pending = append(pending, domain.Alert{
				ID:        e.newID(),
				Train:     train,
				Room:      avail.Room,
				Indicator: avail.Indicator,
				SentAt:    now,
			})
		}
		if len(freshTrains) > 0 {
			rooms = append(rooms, domain.AvailableRoom{
				Room:      avail.Room,
				Trains:    freshTrains,
				Indicator: avail.Indicator,
			})
		}
	}

	if len(rooms) == 0 {
		e.log.Debug("availability already alerted, skipping", "check_id", result.ID)
		return
	}

	payload := &notify.Payload{
		Rooms:     rooms,
		CheckID:   result.ID,
		CheckedAt: result.CompletedAt,
		PageURL:   e.pageURL,
	}
	if err := e.notifier.SendAvailability(ctx, payload); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		e.log.Error("sending availability notification failed",
			"check_id", result.ID, "error", err)
		return
	}

	metrics.AlertsFiredTotal.Add(float64(len(rooms)))
	e.log.Info("availability alert sent", "check_id", result.ID, "rooms", len(rooms))

	for i := range pending {
		if err := e.store.RecordAlert(ctx, &pending[i]); err != nil {
			e.log.Error("recording alert failed",
				"train", pending[i].Train, "room", pending[i].Room, "error", err)
		}
	}
}
