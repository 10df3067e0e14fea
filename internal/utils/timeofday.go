package utils

import (
	"time"
)

// ClockTime is a wall-clock time of day with no date or zone attached.
type ClockTime struct {
	Hour   int
	Minute int
}

var clockFormats = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// ParseClockTime parses a time-of-day string in any of the formats PMS feeds
// send ("15:00", "4:00 PM", "10:00AM"). Returns the fallback when the input
// is empty or unparseable.
func ParseClockTime(raw string, fallback ClockTime) ClockTime {
	if raw == "" {
		return fallback
	}

	for _, format := range clockFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
		}
	}

	return fallback
}

// On combines the clock time with a calendar date in the date's location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		c.Hour, c.Minute, 0, 0,
		date.Location(),
	)
}

// ParseDate parses a YYYY-MM-DD date string. Returns the zero time on failure.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
