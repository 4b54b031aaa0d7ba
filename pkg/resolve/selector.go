package resolve

import (
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// SelectBest merges the resolutions of all candidate rows for one room
// into a single answer. Available beats unavailable beats unknown,
// regardless of position; within a tier the first resolution wins.
// An empty sequence yields a bare unknown.
func SelectBest(resolutions []domain.Resolution) domain.Resolution {
	best := domain.Unknown()

	for _, r := range resolutions {
		if r.Status == domain.StatusAvailable {
			return r
		}
		if r.Status.Rank() > best.Status.Rank() {
			best = r
		}
	}

	return best
}
