// Package domain defines the core business types for seatwatch.
package domain

import (
	"time"
)

// AvailabilityStatus is the tri-state outcome of resolving a room.
type AvailabilityStatus string

// Availability status constants.
const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusUnknown     AvailabilityStatus = "unknown"
)

// Rank returns the merge precedence of a status. Higher wins when
// candidate resolutions for the same room are combined.
func (s AvailabilityStatus) Rank() int {
	switch s {
	case StatusAvailable:
		return 2
	case StatusUnavailable:
		return 1
	default:
		return 0
	}
}

// Resolution is the outcome of classifying one signal source or one row.
// Indicator is the raw keyword or source text that justified the status;
// it is empty only when Status is StatusUnknown.
type Resolution struct {
	Status    AvailabilityStatus `json:"status"`
	Indicator string             `json:"indicator,omitempty"`
}

// Unknown returns a bare unknown resolution.
func Unknown() Resolution {
	return Resolution{Status: StatusUnknown}
}

// RowSnapshot is a read-only view of the availability signals extracted
// from one candidate page row. Icon indicators preserve row order, which
// is significant to the resolver. TextContent is empty when the row had
// no usable text.
type RowSnapshot struct {
	IconIndicators      []string
	AttributeIndicators []string
	TextContent         string
}

// RoomCategory describes one bookable room type on the reservation page.
// FormValue is the page form-control value when the room has one;
// Aliases are the keyword strings used to locate rows by text.
type RoomCategory struct {
	Name      string   `json:"name"`
	FormValue string   `json:"form_value,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
}

// Keywords returns the lookup keywords for the room: the canonical name
// first, then the declared aliases, in order.
func (r RoomCategory) Keywords() []string {
	kws := make([]string, 0, len(r.Aliases)+1)
	kws = append(kws, r.Name)
	kws = append(kws, r.Aliases...)
	return kws
}

// DefaultRooms returns the built-in sleeper room catalog for the
// Sunrise Seto/Izumo reservation page.
func DefaultRooms() []RoomCategory {
	return []RoomCategory{
		{Name: "ノビノビ座席", FormValue: "nobinobi", Aliases: []string{"ノビノビ", "のびのび座席", "のびのび"}},
		{Name: "シングルデラックス", Aliases: []string{"シングルDX"}},
		{Name: "シングルツイン", Aliases: []string{"Sツイン"}},
		{Name: "サンライズツイン", Aliases: []string{"ツイン"}},
		{Name: "シングル"},
		{Name: "ソロ"},
	}
}

// RoomResult is the resolved availability of one room within one train.
type RoomResult struct {
	Room      string             `json:"room"`
	Status    AvailabilityStatus `json:"status"`
	Indicator string             `json:"indicator,omitempty"`
}

// TrainResult is the per-train breakdown of one check cycle.
type TrainResult struct {
	Train string       `json:"train"`
	Rooms []RoomResult `json:"rooms"`
}

// AvailableRoom is one entry of the deduplicated notification payload:
// a room that resolved available on at least one train.
type AvailableRoom struct {
	Room      string   `json:"room"`
	Trains    []string `json:"trains"`
	Indicator string   `json:"indicator,omitempty"`
}

// CheckStatus classifies the overall outcome of a check run.
type CheckStatus string

// Check run status constants.
const (
	// CheckOK means at least one room produced a definite signal.
	CheckOK CheckStatus = "ok"
	// CheckNoSignal means every room resolved unknown. This usually
	// indicates a malformed or unreachable page, not confirmed sell-out.
	CheckNoSignal CheckStatus = "no_signal"
	// CheckFailed means page capture failed after all retries.
	CheckFailed CheckStatus = "failed"
)

// CheckResult is the aggregated outcome of one availability check.
type CheckResult struct {
	ID          string          `json:"id"`
	Status      CheckStatus     `json:"status"`
	Trains      []TrainResult   `json:"trains"`
	Available   []AvailableRoom `json:"available"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}

// HasAvailability reports whether any room resolved available.
func (c *CheckResult) HasAvailability() bool {
	return len(c.Available) > 0
}

// Observation is one persisted room resolution, as stored in check history.
type Observation struct {
	CheckID   string             `json:"check_id"`
	Train     string             `json:"train"`
	Room      string             `json:"room"`
	Status    AvailabilityStatus `json:"status"`
	Indicator string             `json:"indicator,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// Alert records a sent availability notification for cooldown dedupe.
type Alert struct {
	ID        string    `json:"id"`
	Train     string    `json:"train"`
	Room      string    `json:"room"`
	Indicator string    `json:"indicator,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}
