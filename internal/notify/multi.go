package notify

import (
	"context"
	"errors"
)

// Multi fans one notification out to several backends. Every backend is
// attempted; failures are joined.
type Multi []Notifier

// SendAvailability delivers the payload to every backend.
func (m Multi) SendAvailability(ctx context.Context, p *Payload) error {
	var errs []error
	for _, n := range m {
		if err := n.SendAvailability(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
