package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notifications.
// It is used when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notifications with a
// log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendAvailability logs and discards the notification.
func (n *NoOpNotifier) SendAvailability(_ context.Context, p *Payload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"check_id", p.CheckID,
		"rooms", len(p.Rooms),
	)
	return nil
}
