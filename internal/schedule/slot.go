package schedule

import "time"

// Slot is a named half-day or full-day booking window.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotFullDay   Slot = "day"
)

// Display labels used by the calendar and exported plans.
const (
	LabelMorning   = "Matin"
	LabelAfternoon = "Après-midi"
	LabelFullDay   = "Journée"
)

const (
	morningStartHour   = 8
	morningEndHour     = 12
	afternoonStartHour = 13
	afternoonEndHour   = 17
)

// Window maps the slot to its fixed window on the given calendar day:
// morning [08:00, 12:00), afternoon [13:00, 17:00), day [08:00, 17:00).
func (s Slot) Window(day time.Time) TimeRange {
	at := func(hour int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	}

	switch s {
	case SlotMorning:
		return TimeRange{Start: at(morningStartHour), End: at(morningEndHour)}
	case SlotAfternoon:
		return TimeRange{Start: at(afternoonStartHour), End: at(afternoonEndHour)}
	default:
		return TimeRange{Start: at(morningStartHour), End: at(afternoonEndHour)}
	}
}

// Label classifies how the reservation range occupies the given calendar day.
// It is total: every (range, day) pair yields exactly one of the three labels.
func Label(r TimeRange, day time.Time) string {
	startsToday := sameDay(r.Start, day)
	endsToday := sameDay(r.End, day)

	startMinutes := r.Start.Hour()*60 + r.Start.Minute()
	endMinutes := r.End.Hour()*60 + r.End.Minute()

	switch {
	case startsToday && endsToday:
		if startMinutes >= morningStartHour*60 && endMinutes <= morningEndHour*60 {
			return LabelMorning
		}

		if startMinutes >= afternoonStartHour*60 && endMinutes <= afternoonEndHour*60 {
			return LabelAfternoon
		}

		return LabelFullDay
	case startsToday:
		if startMinutes >= afternoonStartHour*60 {
			return LabelAfternoon
		}

		return LabelFullDay
	case endsToday:
		if endMinutes <= morningEndHour*60 {
			return LabelMorning
		}

		return LabelFullDay
	default:
		return LabelFullDay
	}
}

// DayAssignmentWindow is the window a per-day vehicle assignment covers: the
// labeled slot's window for half-day occupancy, or the whole calendar day,
// clipped to the reservation's own boundaries.
func DayAssignmentWindow(r TimeRange, day time.Time) TimeRange {
	var window TimeRange

	switch Label(r, day) {
	case LabelMorning:
		window = SlotMorning.Window(day)
	case LabelAfternoon:
		window = SlotAfternoon.Window(day)
	default:
		window = DayWindow(day)
	}

	return window.Clip(r)
}
