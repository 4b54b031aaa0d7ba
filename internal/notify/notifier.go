// Package notify defines the notification interface and implementations
// for availability alert delivery.
package notify

import (
	"context"
	"time"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// Payload contains the data for one availability notification: the
// deduplicated list of newly bookable rooms with the trains they were
// found on.
type Payload struct {
	Rooms     []domain.AvailableRoom
	CheckID   string
	CheckedAt time.Time
	PageURL   string
}

// Notifier delivers availability notifications.
type Notifier interface {
	SendAvailability(ctx context.Context, p *Payload) error
}
