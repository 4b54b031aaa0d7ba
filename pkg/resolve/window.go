package resolve

import (
	"slices"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// Window radii for keyword-proximity classification, in runes. Room
// names repeat across a page (once per train section); classifying only
// a bounded window around each occurrence keeps a distant availability
// symbol from being attributed to every room.
const (
	// WindowRadiusSingle suits a page showing one train section.
	WindowRadiusSingle = 40
	// WindowRadiusMulti suits a page showing several train sections.
	WindowRadiusMulti = 160
)

// ClassifyNearKeyword scans a normalized haystack for occurrences of the
// room keywords (tried in declared order, every occurrence in haystack
// order) and classifies a symmetric window of the given rune radius
// around each. The first occurrence yielding a definite status wins;
// if none does, the result is unknown.
func ClassifyNearKeyword(haystack string, keywords []string, radius int) domain.Resolution {
	if haystack == "" || radius <= 0 {
		return domain.Unknown()
	}

	hay := []rune(haystack)

	for _, kw := range keywords {
		needle := []rune(Normalize(kw))
		if len(needle) == 0 {
			continue
		}

		for i := 0; i+len(needle) <= len(hay); i++ {
			if !slices.Equal(hay[i:i+len(needle)], needle) {
				continue
			}

			lo := max(i-radius, 0)
			hi := min(i+len(needle)+radius, len(hay))

			if res := Classify(string(hay[lo:hi])); res.Status != domain.StatusUnknown {
				return res
			}
		}
	}

	return domain.Unknown()
}
