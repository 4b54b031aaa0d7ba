package resolve

import "strings"

// KeywordEntry pairs a raw keyword with its normalized form. Entries
// whose normalized form is empty are discarded at build time: some raw
// symbols (full-width minus, for one) fold into stripped punctuation
// under NFKC and cannot be matched.
type KeywordEntry struct {
	Raw        string
	Normalized string
}

// Positive keywords imply a bookable room. Declared order is match order.
var positiveKeywords = []string{
	"空席あり",
	"残席あり",
	"空席わずか",
	"残りわずか",
	"予約できます",
	"発売中",
	"○",
	"◎",
	"△",
	"▲",
	"空席",
	"残席",
}

// Negative keywords imply sold out or not for sale. Declared order is
// match order; tested before the positive list so that "no seats"
// phrasing always wins over coincidental positive substrings.
var negativeKeywords = []string{
	"満席",
	"残席なし",
	"空席なし",
	"空席はありません",
	"売切れ",
	"販売終了",
	"取扱いなし",
	"運休",
	"×",
	"✕",
	"－",
}

// negativeIconPhrases are the icon label strings meaning "no seats
// remaining". Matched as substrings of the normalized icon label.
var negativeIconPhrases = []string{
	"残席なし",
	"空席なし",
	"満席",
}

var (
	positiveEntries     = buildEntries(positiveKeywords)
	negativeEntries     = buildEntries(negativeKeywords)
	negativeIconEntries = buildEntries(negativeIconPhrases)
)

func buildEntries(raws []string) []KeywordEntry {
	entries := make([]KeywordEntry, 0, len(raws))
	for _, raw := range raws {
		n := Normalize(raw)
		if n == "" {
			continue
		}
		entries = append(entries, KeywordEntry{Raw: raw, Normalized: n})
	}
	return entries
}

// isNegativeIcon reports whether an icon label is one of the "no seats"
// phrases.
func isNegativeIcon(label string) bool {
	n := Normalize(label)
	if n == "" {
		return false
	}
	for _, e := range negativeIconEntries {
		if strings.Contains(n, e.Normalized) {
			return true
		}
	}
	return false
}
