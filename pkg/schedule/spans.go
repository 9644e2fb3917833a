package schedule

import "sort"

// Span is a half-open [Start, End) interval in minutes since midnight.
type Span struct {
	Start int
	End   int
}

func (s Span) Interval() Interval {
	return Interval{Start: FormatMinute(s.Start), End: FormatMinute(s.End)}
}

// Interval is a Span rendered back to "HH:MM" for API payloads.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overlaps reports whether two half-open spans intersect. Back-to-back
// spans (a.End == b.Start) do not overlap.
func Overlaps(a, b Span) bool {
	return a.Start < b.End && b.Start < a.End
}

// FreeSpans returns the gaps of window not covered by booked. Booked spans
// may arrive unsorted or overlapping each other; the walk tracks the
// furthest booked end seen so far. The union of the result and the booked
// spans covers the window exactly.
func FreeSpans(window Span, booked []Span) []Span {
	sorted := make([]Span, len(booked))
	copy(sorted, booked)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var free []Span
	cursor := window.Start

	for _, b := range sorted {
		if b.End <= window.Start || b.Start >= window.End {
			continue
		}
		if cursor < b.Start {
			free = append(free, Span{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}

	if cursor < window.End {
		free = append(free, Span{Start: cursor, End: window.End})
	}

	return free
}

// ClampToNow moves the window start forward to nowMinute when it falls
// strictly inside the window, so same-day lookups cannot offer past time.
func ClampToNow(window Span, nowMinute int) Span {
	if nowMinute > window.Start && nowMinute < window.End {
		window.Start = nowMinute
	}
	return window
}
