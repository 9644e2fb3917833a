package schedule

import "time"

// Days is a spot's recurring weekly availability, one flag per weekday.
// The zero value (all closed) is the model default.
type Days struct {
	Monday    bool `json:"monday" bson:"monday"`
	Tuesday   bool `json:"tuesday" bson:"tuesday"`
	Wednesday bool `json:"wednesday" bson:"wednesday"`
	Thursday  bool `json:"thursday" bson:"thursday"`
	Friday    bool `json:"friday" bson:"friday"`
	Saturday  bool `json:"saturday" bson:"saturday"`
	Sunday    bool `json:"sunday" bson:"sunday"`
}

// Open reports whether the given weekday is enabled.
func (d Days) Open(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return d.Monday
	case time.Tuesday:
		return d.Tuesday
	case time.Wednesday:
		return d.Wednesday
	case time.Thursday:
		return d.Thursday
	case time.Friday:
		return d.Friday
	case time.Saturday:
		return d.Saturday
	case time.Sunday:
		return d.Sunday
	}
	return false
}

// Any reports whether at least one weekday is enabled.
func (d Days) Any() bool {
	return d.Monday || d.Tuesday || d.Wednesday || d.Thursday ||
		d.Friday || d.Saturday || d.Sunday
}

// DayName returns the lowercase field name for a weekday, matching the
// BSON keys of Days. Used to build per-day query filters.
func DayName(day time.Weekday) string {
	switch day {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	}
	return "sunday"
}
