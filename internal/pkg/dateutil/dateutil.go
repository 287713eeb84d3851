// Package dateutil holds the civil-date and time-of-day helpers shared by the
// attendance, leave and payroll code.
//
// A civil date is a time.Time at midnight UTC whose year, month and day are the
// only meaningful fields. Instants keep their own location; Day(t) takes the wall
// date of t in that location.
package dateutil

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Day returns the civil date of t's wall clock.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDate builds a civil date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// SameDay reports whether a and b fall on the same wall date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays moves a civil date by n days.
func AddDays(d time.Time, n int) time.Time {
	return Day(d).AddDate(0, 0, n)
}

// StartOfDay returns midnight of the civil date d in loc.
func StartOfDay(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// EachDay calls fn for every civil date in [start, end).
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for d := Day(start); d.Before(Day(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// MonthBounds returns the first day of the month and the first day of the next one.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := NewDate(year, month, 1)
	return first, first.AddDate(0, 1, 0)
}

// Clock is a time of day with second precision.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

const ClockLayout = "15:04:05"

// ParseClock accepts HH:MM:SS or HH:MM.
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("invalid time of day %q, expected HH:MM:SS", s)
}

// MustClock panics on malformed input. Intended for constants and tests.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockFromDuration converts a duration since midnight, as stored in a TIME column.
func ClockFromDuration(d time.Duration) Clock {
	secs := int(d / time.Second)
	return Clock{Hour: secs / 3600, Minute: (secs % 3600) / 60, Second: secs % 60}
}

// SinceMidnight is the inverse of ClockFromDuration.
func (c Clock) SinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute + time.Duration(c.Second)*time.Second
}

// On anchors the clock on the wall date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, c.Second, 0, day.Location())
}

func (c Clock) Before(other Clock) bool {
	return c.SinceMidnight() < other.SinceMidnight()
}

func (c Clock) IsZero() bool {
	return c == Clock{}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*c = Clock{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("time of day must be a string")
	}
	parsed, err := ParseClock(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FormatDuration renders a non-negative duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
