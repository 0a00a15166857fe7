// Package daterange resolves named date-range presets into concrete
// [start, end] day pairs, anchored on a caller-supplied current date.
// Everything here is pure calendar arithmetic with no side effects.
package daterange

import (
	"errors"
	"fmt"
	"time"

	"sharkfin/internal/core"
)

type Preset string

const (
	MonthToDate Preset = "month_to_date"
	LastMonth   Preset = "last_month"
	Last30Days  Preset = "last_30_days"
	Last90Days  Preset = "last_90_days"
	YearToDate  Preset = "year_to_date"
	LastYear    Preset = "last_year"
	AllTime     Preset = "all_time"
	Custom      Preset = "custom"
)

var ErrUnknownPreset = errors.New("unknown date range preset")

// allTimeStart is the sentinel lower bound used for "all time" ranges.
// The backend treats any start at or before it as unbounded.
var allTimeStart = core.NewDate(1900, 1, 1)

// Range is an inclusive day-granular date range.
type Range struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether d falls inside the range, inclusive on both ends.
func (r Range) Contains(d core.Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

// Presets lists the selectable presets in picker order. Custom is excluded:
// it never resolves on its own, the caller supplies its bounds.
func Presets() []Preset {
	return []Preset{MonthToDate, LastMonth, Last30Days, Last90Days, YearToDate, LastYear, AllTime}
}

// Label returns the human-readable picker label for a preset.
func (p Preset) Label() string {
	switch p {
	case MonthToDate:
		return "Month to date"
	case LastMonth:
		return "Last month"
	case Last30Days:
		return "Last 30 days"
	case Last90Days:
		return "Last 90 days"
	case YearToDate:
		return "Year to date"
	case LastYear:
		return "Last year"
	case AllTime:
		return "All time"
	case Custom:
		return "Custom"
	}
	return string(p)
}

// Resolve computes the concrete range for a preset using anchor as "today".
// Custom is rejected here; use ResolveCustom with caller-supplied bounds.
func Resolve(p Preset, anchor time.Time) (Range, error) {
	today := core.DateOf(anchor)
	year, month := today.Year(), today.Month()

	switch p {
	case MonthToDate:
		return Range{Start: core.NewDate(year, int(month), 1), End: today}, nil

	case LastMonth:
		// Full previous calendar month, independent of today's day-of-month.
		// Anchoring on the 1st avoids time.AddDate day-overflow surprises
		// (e.g. March 31 minus one month normalizing to March 3).
		firstOfThis := core.NewDate(year, int(month), 1)
		firstOfLast := core.DateOf(firstOfThis.AddDate(0, -1, 0))
		lastOfLast := core.DateOf(firstOfThis.AddDate(0, 0, -1))
		return Range{Start: firstOfLast, End: lastOfLast}, nil

	case Last30Days:
		return Range{Start: core.DateOf(today.AddDate(0, 0, -29)), End: today}, nil

	case Last90Days:
		return Range{Start: core.DateOf(today.AddDate(0, 0, -89)), End: today}, nil

	case YearToDate:
		return Range{Start: core.NewDate(year, 1, 1), End: today}, nil

	case LastYear:
		return Range{
			Start: core.NewDate(year-1, 1, 1),
			End:   core.NewDate(year-1, 12, 31),
		}, nil

	case AllTime:
		return Range{Start: allTimeStart, End: today}, nil

	case Custom:
		return Range{}, fmt.Errorf("%w: custom requires explicit bounds", ErrUnknownPreset)
	}

	return Range{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
}

// ResolveCustom builds a range from user-supplied bounds, tolerating a
// partially-filled form: a missing start falls back to the all-time
// sentinel, a missing end falls back to the anchor day. An inverted pair is
// swapped rather than rejected so the caller never receives Start > End.
func ResolveCustom(start, end *core.Date, anchor time.Time) Range {
	r := Range{Start: allTimeStart, End: core.DateOf(anchor)}
	if start != nil && !start.IsZero() {
		r.Start = *start
	}
	if end != nil && !end.IsZero() {
		r.End = *end
	}
	if r.Start.After(r.End.Time) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}
