package models

import "time"

// DATE_LAYOUT is the calendar-date format used for dteday values and query args.
const DATE_LAYOUT = "2006-01-02"

// DateRange is an inclusive [Start, End] pair of calendar dates.
type DateRange struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtefield=Start"`
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: TruncateToDay(start), End: TruncateToDay(end)}
}

// Contains reports whether day falls within the range, bounds included.
func (r DateRange) Contains(day time.Time) bool {
	day = TruncateToDay(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Clamp limits both ends of the range to the given bounds, the way a date picker
// with min/max values would.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	out := r
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.Start.After(bounds.End) {
		out.Start = bounds.End
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.End.Before(bounds.Start) {
		out.End = bounds.Start
	}
	return out
}

func (r DateRange) StartString() string { return r.Start.Format(DATE_LAYOUT) }
func (r DateRange) EndString() string   { return r.End.Format(DATE_LAYOUT) }

// TruncateToDay drops the clock part, keeping the calendar date in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
