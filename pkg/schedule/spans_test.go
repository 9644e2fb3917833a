package schedule

import (
	"testing"
)

func span(start, end string) Span {
	s, err := ParseMinute(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseMinute(end)
	if err != nil {
		panic(err)
	}
	return Span{Start: s, End: e}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", span("08:00", "09:00"), span("10:00", "11:00"), false},
		{"back to back is not a conflict", span("09:00", "10:00"), span("10:00", "12:00"), false},
		{"partial overlap", span("11:00", "13:00"), span("10:00", "12:00"), true},
		{"containment", span("10:30", "11:00"), span("10:00", "12:00"), true},
		{"identical", span("10:00", "12:00"), span("10:00", "12:00"), true},
		{"reverse order same result", span("10:00", "12:00"), span("11:00", "13:00"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFreeSpans(t *testing.T) {
	window := span("08:00", "18:00")

	tests := []struct {
		name   string
		booked []Span
		want   []Span
	}{
		{
			name:   "no bookings leaves the whole window",
			booked: nil,
			want:   []Span{span("08:00", "18:00")},
		},
		{
			name:   "single booking splits the window",
			booked: []Span{span("10:00", "12:00")},
			want:   []Span{span("08:00", "10:00"), span("12:00", "18:00")},
		},
		{
			name:   "unsorted input is handled",
			booked: []Span{span("14:00", "15:00"), span("09:00", "10:00")},
			want: []Span{
				span("08:00", "09:00"),
				span("10:00", "14:00"),
				span("15:00", "18:00"),
			},
		},
		{
			name:   "overlapping bookings are merged by the cursor",
			booked: []Span{span("09:00", "12:00"), span("11:00", "13:00")},
			want:   []Span{span("08:00", "09:00"), span("13:00", "18:00")},
		},
		{
			name:   "booking covering window start",
			booked: []Span{span("08:00", "09:30")},
			want:   []Span{span("09:30", "18:00")},
		},
		{
			name:   "fully booked window has no gaps",
			booked: []Span{span("08:00", "18:00")},
			want:   nil,
		},
		{
			name:   "booking outside window is ignored",
			booked: []Span{span("06:00", "08:00"), span("18:00", "20:00")},
			want:   []Span{span("08:00", "18:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeSpans(window, tt.booked)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d spans %v, want %d spans %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("span[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// The union of free and booked spans must cover the window exactly, with
// no overlap between free spans and booked spans.
func TestFreeSpans_Exhaustive(t *testing.T) {
	window := span("08:00", "20:00")
	booked := []Span{
		span("09:00", "10:30"),
		span("10:30", "11:00"),
		span("13:00", "16:00"),
	}

	free := FreeSpans(window, booked)

	covered := make([]bool, window.End-window.Start)
	mark := func(s Span) {
		for m := s.Start; m < s.End; m++ {
			if m < window.Start || m >= window.End {
				continue
			}
			if covered[m-window.Start] {
				t.Fatalf("minute %s covered twice", FormatMinute(m))
			}
			covered[m-window.Start] = true
		}
	}

	for _, s := range free {
		mark(s)
	}
	for _, s := range booked {
		mark(s)
	}

	for i, c := range covered {
		if !c {
			t.Fatalf("minute %s not covered by free or booked", FormatMinute(window.Start+i))
		}
	}
}

func TestClampToNow(t *testing.T) {
	window := span("08:00", "18:00")

	tests := []struct {
		name      string
		nowMinute int
		wantStart int
	}{
		{"before opening keeps window", mustMinute("07:00"), mustMinute("08:00")},
		{"exactly at opening keeps window", mustMinute("08:00"), mustMinute("08:00")},
		{"inside window moves start to now", mustMinute("11:15"), mustMinute("11:15")},
		{"past closing keeps window", mustMinute("19:00"), mustMinute("08:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampToNow(window, tt.nowMinute)
			if got.Start != tt.wantStart {
				t.Errorf("start = %d, want %d", got.Start, tt.wantStart)
			}
			if got.End != window.End {
				t.Errorf("end changed: %d, want %d", got.End, window.End)
			}
		})
	}
}

func mustMinute(s string) int {
	m, err := ParseMinute(s)
	if err != nil {
		panic(err)
	}
	return m
}
