package schedule

import (
	"time"

	"motorpool/shared/failure"
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a TimeRange, rejecting ranges where End is not after Start.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, failure.BadRequestFromString("end must be after start") //nolint:wrapcheck
	}

	return TimeRange{Start: start, End: end}, nil
}

// IsEmpty reports whether the range covers no time at all.
func (r TimeRange) IsEmpty() bool {
	return !r.End.After(r.Start)
}

// Overlaps reports a strict overlap between two half-open intervals.
// Ranges that merely touch at an endpoint do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.End.After(other.Start) && r.Start.Before(other.End)
}

// Contains reports whether other lies fully inside r.
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Clip returns the intersection of r with bounds. The result may be empty.
func (r TimeRange) Clip(bounds TimeRange) TimeRange {
	clipped := r

	if clipped.Start.Before(bounds.Start) {
		clipped.Start = bounds.Start
	}

	if clipped.End.After(bounds.End) {
		clipped.End = bounds.End
	}

	return clipped
}

// Duration returns the span length; zero for empty ranges.
func (r TimeRange) Duration() time.Duration {
	if r.IsEmpty() {
		return 0
	}

	return r.End.Sub(r.Start)
}

// DayWindow returns the calendar day containing t as [midnight, next midnight).
func DayWindow(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
