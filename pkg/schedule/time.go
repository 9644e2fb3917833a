package schedule

import (
	"fmt"
	"regexp"
	"time"
)

// All interval math in this package runs on minutes since midnight.
// "HH:MM" strings only exist at the edges; comparing them lexicographically
// breaks the moment a range touches midnight, so they are normalized on the
// way in. "24:00" (= 1440) is a legal window end.
const EndOfDay = 24 * 60

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`)

// ParseMinute converts a zero-padded "HH:MM" string to minutes since
// midnight.
func ParseMinute(s string) (int, error) {
	if !hhmmRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}

// FormatMinute renders minutes since midnight as "HH:MM"; 1440 renders as
// "24:00".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ValidHHMM reports whether s is a well-formed "HH:MM" time.
func ValidHHMM(s string) bool {
	return hhmmRegex.MatchString(s)
}

const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// SameDate reports whether two instants fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MinuteOfDay truncates an instant to its minute within the day.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
