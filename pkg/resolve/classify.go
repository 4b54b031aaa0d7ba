package resolve

import (
	"strings"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// Classify maps arbitrary page text to an availability resolution.
// The negative list is scanned first: absence-of-seats phrasing can
// contain a positive-looking substring in some room-name concatenations,
// and the conservative reading must win. The matched entry's raw
// keyword becomes the indicator.
func Classify(text string) domain.Resolution {
	n := Normalize(text)
	if n == "" {
		return domain.Unknown()
	}

	for _, e := range negativeEntries {
		if strings.Contains(n, e.Normalized) {
			return domain.Resolution{Status: domain.StatusUnavailable, Indicator: e.Raw}
		}
	}

	for _, e := range positiveEntries {
		if strings.Contains(n, e.Normalized) {
			return domain.Resolution{Status: domain.StatusAvailable, Indicator: e.Raw}
		}
	}

	return domain.Unknown()
}
