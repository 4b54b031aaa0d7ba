// Package lookup locates candidate rows for each room category within a
// captured slice of the reservation page and feeds them through the
// resolution engine. It is the only package that understands page
// structure; the core consumes plain snapshots.
package lookup

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/hmuraoka/seatwatch/pkg/resolve"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// signalAttrs are the element attributes read as attribute indicators,
// in the order they are collected from each element.
var signalAttrs = []string{"title", "aria-label", "data-status"}

// Section is one train's slice of the captured page.
type Section struct {
	Train string

	sel      *goquery.Selection
	normOnce sync.Once
	normText string
}

// SplitSections parses captured page HTML and carves out one section
// per train: the first element matching the selector whose text
// mentions the train name. A train with no matching element falls back
// to the whole page, so a single-train page layout still resolves.
func SplitSections(html string, trains []string, selector string) ([]*Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}

	whole := doc.Selection
	sections := make([]*Section, 0, len(trains))

	for _, train := range trains {
		nTrain := resolve.Normalize(train)
		sel := whole

		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(resolve.Normalize(s.Text()), nTrain) {
				sel = s
				return false
			}
			return true
		})

		sections = append(sections, &Section{Train: train, sel: sel})
	}

	return sections, nil
}

// ControlRow returns the snapshot of the structural row ancestor of the
// form control carrying the given value, if the section has one.
func (s *Section) ControlRow(formValue string) (domain.RowSnapshot, bool) {
	ctrl := s.sel.Find(fmt.Sprintf("[value=%q]", formValue)).First()
	if ctrl.Length() == 0 {
		return domain.RowSnapshot{}, false
	}

	row := ctrl.Closest("tr")
	if row.Length() == 0 {
		row = ctrl.Parent()
	}
	return snapshotRow(row), true
}

// KeywordRows returns snapshots of every row whose text contains the
// keyword, in document order.
func (s *Section) KeywordRows(keyword string) []domain.RowSnapshot {
	nkw := resolve.Normalize(keyword)
	if nkw == "" {
		return nil
	}

	var snaps []domain.RowSnapshot
	s.sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if strings.Contains(resolve.Normalize(row.Text()), nkw) {
			snaps = append(snaps, snapshotRow(row))
		}
	})
	return snaps
}

// NormalizedText returns the section's normalized visible text, for the
// windowed whole-section fallback. Computed once.
func (s *Section) NormalizedText() string {
	s.normOnce.Do(func() {
		s.normText = resolve.Normalize(s.sel.Text())
	})
	return s.normText
}

// snapshotRow captures the three signal kinds from one row: icon image
// alt labels in row order, title/aria-label/data-status attributes from
// the row and its descendants, and the row's visible text.
func snapshotRow(row *goquery.Selection) domain.RowSnapshot {
	var snap domain.RowSnapshot

	row.Find("img").Each(func(_ int, img *goquery.Selection) {
		if alt := strings.TrimSpace(img.AttrOr("alt", "")); alt != "" {
			snap.IconIndicators = append(snap.IconIndicators, alt)
		}
	})

	row.Find("*").AddBack().Each(func(_ int, el *goquery.Selection) {
		for _, name := range signalAttrs {
			if v, ok := el.Attr(name); ok {
				if v = strings.TrimSpace(v); v != "" {
					snap.AttributeIndicators = append(snap.AttributeIndicators, v)
				}
			}
		}
	})

	snap.TextContent = strings.TrimSpace(row.Text())
	return snap
}
