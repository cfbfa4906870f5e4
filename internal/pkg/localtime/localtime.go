package localtime

import (
	"fmt"
	"time"
)

// DayOfWeek enumerates recurring weekdays, Monday first.
// It deliberately does not reuse time.Weekday (Sunday-first) so that
// template ordering and storage stay Monday-based.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// ParseDay parses a lowercase weekday name.
func ParseDay(s string) (DayOfWeek, error) {
	for i, name := range dayNames {
		if s == name {
			return DayOfWeek(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day of week: %q", s)
}

// FromWeekday converts a time.Weekday (Sunday-first) to DayOfWeek (Monday-first).
func FromWeekday(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return DayOfWeek(int(w) - 1)
}

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// It represents a point in a recurring weekly template, never an instant.
type TimeOfDay int

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < 24*60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// Project maps an absolute instant onto the weekly template coordinates
// (day of week, time of day) in the given location.
func Project(t time.Time, loc *time.Location) (DayOfWeek, TimeOfDay) {
	local := t.In(loc)
	return FromWeekday(local.Weekday()), TimeOfDay(local.Hour()*60 + local.Minute())
}
