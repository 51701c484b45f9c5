package schedule

import "sort"

// Gaps returns the sub-ranges of span not covered by any taken range, in
// chronological order. Taken ranges may be unsorted and may extend beyond the
// span; they are clipped first.
func Gaps(span TimeRange, taken []TimeRange) []TimeRange {
	clipped := make([]TimeRange, 0, len(taken))

	for _, t := range taken {
		c := t.Clip(span)
		if !c.IsEmpty() {
			clipped = append(clipped, c)
		}
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Start.Before(clipped[j].Start)
	})

	gaps := []TimeRange{}
	cursor := span.Start

	for _, c := range clipped {
		if c.Start.After(cursor) {
			gaps = append(gaps, TimeRange{Start: cursor, End: c.Start})
		}

		if c.End.After(cursor) {
			cursor = c.End
		}
	}

	if cursor.Before(span.End) {
		gaps = append(gaps, TimeRange{Start: cursor, End: span.End})
	}

	return gaps
}

// SplitByDay cuts a range at midnight boundaries so that each piece lies
// within a single calendar day. Fillers created from these pieces stay
// individually re-assignable day by day.
func SplitByDay(r TimeRange) []TimeRange {
	if r.IsEmpty() {
		return nil
	}

	pieces := []TimeRange{}
	cursor := r.Start

	for cursor.Before(r.End) {
		dayEnd := DayWindow(cursor).End
		if dayEnd.After(r.End) {
			dayEnd = r.End
		}

		pieces = append(pieces, TimeRange{Start: cursor, End: dayEnd})
		cursor = dayEnd
	}

	return pieces
}
