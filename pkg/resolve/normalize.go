// Package resolve implements the availability resolution engine: text
// normalization, keyword classification, per-row snapshot resolution,
// and cross-candidate selection. Every function is total over its
// inputs; missing signal resolves to unknown, never to an error.
package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// strippedPunct is the fixed set of bracket/dash/middle-dot characters
// removed during normalization. Availability symbols (○ × ▲ etc.) are
// deliberately absent; they carry signal and must survive.
const strippedPunct = "()（）・･-~〜―‐"

// Normalize canonicalizes page text for comparison: NFKC compatibility
// normalization (so full-width and half-width variants compare equal),
// then removal of all whitespace (including U+3000) and of the fixed
// punctuation set. Normalization is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	normed := norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(normed))
	for _, r := range normed {
		if unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(strippedPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
