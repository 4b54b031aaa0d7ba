package lookup

import (
	"log/slog"

	"github.com/hmuraoka/seatwatch/pkg/resolve"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// Finder resolves room categories against page sections. Lookup runs in
// three stages, each consulted only when the previous one produced no
// definite status: the form-control row, keyword-located rows merged
// through the selector, and finally windowed search over the section's
// normalized text.
type Finder struct {
	radius int
	log    *slog.Logger
}

// NewFinder creates a Finder with the given window radius for the
// whole-section fallback.
func NewFinder(radius int, log *slog.Logger) *Finder {
	if log == nil {
		log = slog.Default()
	}
	return &Finder{radius: radius, log: log}
}

// ResolveRoom resolves one room category within one section.
func (f *Finder) ResolveRoom(sec *Section, room domain.RoomCategory) domain.Resolution {
	if room.FormValue != "" {
		if snap, ok := sec.ControlRow(room.FormValue); ok {
			if res := resolve.ResolveSnapshot(snap); res.Status != domain.StatusUnknown {
				return res
			}
		}
	}

	var candidates []domain.Resolution
	for _, kw := range room.Keywords() {
		for _, snap := range sec.KeywordRows(kw) {
			candidates = append(candidates, resolve.ResolveSnapshot(snap))
		}
	}
	if best := resolve.SelectBest(candidates); best.Status != domain.StatusUnknown {
		return best
	}

	f.log.Debug("no row signal, falling back to windowed search",
		"train", sec.Train,
		"room", room.Name,
	)
	return resolve.ClassifyNearKeyword(sec.NormalizedText(), room.Keywords(), f.radius)
}

// ResolveSection resolves every room of the catalog within one section.
func (f *Finder) ResolveSection(sec *Section, rooms []domain.RoomCategory) domain.TrainResult {
	tr := domain.TrainResult{
		Train: sec.Train,
		Rooms: make([]domain.RoomResult, 0, len(rooms)),
	}

	for _, room := range rooms {
		res := f.ResolveRoom(sec, room)
		tr.Rooms = append(tr.Rooms, domain.RoomResult{
			Room:      room.Name,
			Status:    res.Status,
			Indicator: res.Indicator,
		})
	}

	return tr
}
