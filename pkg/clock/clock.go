package clock

import "time"

// Clock supplies the current time in the service's canonical time zone.
// All date and weekday resolution goes through a Clock so booking logic
// stays deterministic under test.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type realClock struct {
	loc *time.Location
}

// New returns a Clock pinned to the named IANA zone. An empty name or a
// lookup failure falls back to server-local time.
func New(zone string) Clock {
	loc := time.Local
	if zone != "" {
		if l, err := time.LoadLocation(zone); err == nil {
			loc = l
		}
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *realClock) Location() *time.Location {
	return c.loc
}

// Fixed returns a Clock frozen at t, for tests.
func Fixed(t time.Time) Clock {
	return &fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func (c *fixedClock) Location() *time.Location {
	return c.t.Location()
}
