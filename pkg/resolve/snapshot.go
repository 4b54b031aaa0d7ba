package resolve

import (
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// ResolveSnapshot applies the signal precedence policy to one row
// snapshot. Exactly one pass decides the outcome, tried strictly in
// order, never combined:
//
//  1. Icons, in row order. The page shows a "no seats" icon when sold
//     out and some other icon otherwise, so any icon that is not a
//     negative-icon phrase proves availability, whatever its literal
//     text. First such icon wins.
//  2. If every icon was a negative-icon phrase, the row is unavailable;
//     the first negative icon's original text is the indicator.
//  3. With no icons, attribute indicators are classified in order and
//     the first definite result wins.
//  4. With no attribute signal, the row's free text is classified.
//  5. Otherwise unknown.
//
// Icon labels whose normalized form is empty carry no signal and are
// skipped rather than counted as proof of availability.
func ResolveSnapshot(snap domain.RowSnapshot) domain.Resolution {
	var firstNegative string
	sawIcon := false

	for _, icon := range snap.IconIndicators {
		if Normalize(icon) == "" {
			continue
		}
		sawIcon = true

		if isNegativeIcon(icon) {
			if firstNegative == "" {
				firstNegative = icon
			}
			continue
		}
		return domain.Resolution{Status: domain.StatusAvailable, Indicator: icon}
	}
	if sawIcon {
		return domain.Resolution{Status: domain.StatusUnavailable, Indicator: firstNegative}
	}

	for _, attr := range snap.AttributeIndicators {
		res := Classify(attr)
		if res.Status == domain.StatusUnknown {
			continue
		}
		if res.Indicator == "" {
			res.Indicator = attr
		}
		return res
	}

	if snap.TextContent != "" {
		return Classify(snap.TextContent)
	}

	return domain.Unknown()
}
