package schedule

import (
	"testing"
	"time"
)

func TestParseMinute(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:00", 360, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"6:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMinute(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMinute(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMinute_RoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "06:30", "18:45", "23:59", "24:00"} {
		m, err := ParseMinute(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := FormatMinute(m); got != s {
			t.Errorf("FormatMinute(ParseMinute(%q)) = %q", s, got)
		}
	}
}

func TestDaysOpen(t *testing.T) {
	d := Days{Monday: true, Saturday: true}

	if !d.Open(time.Monday) {
		t.Error("expected Monday open")
	}
	if d.Open(time.Tuesday) {
		t.Error("expected Tuesday closed")
	}
	if !d.Open(time.Saturday) {
		t.Error("expected Saturday open")
	}
	if !d.Any() {
		t.Error("expected Any to be true")
	}
	if (Days{}).Any() {
		t.Error("zero value should have no open days")
	}
}

func TestDayName(t *testing.T) {
	want := map[time.Weekday]string{
		time.Sunday:    "sunday",
		time.Monday:    "monday",
		time.Wednesday: "wednesday",
		time.Saturday:  "saturday",
	}
	for day, name := range want {
		if got := DayName(day); got != name {
			t.Errorf("DayName(%v) = %s, want %s", day, got, name)
		}
	}
}

func TestParseDate(t *testing.T) {
	loc := time.UTC
	d, err := ParseDate("2025-03-17", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Errorf("weekday = %v, want Monday", d.Weekday())
	}

	if _, err := ParseDate("17-03-2025", loc); err == nil {
		t.Error("expected error for wrong layout")
	}
}
