package utils

import (
	"fmt"
	"time"
)

const DateKeyLayout = "2006-01-02"

// DateKey formats t as YYYY-MM-DD in the local time zone.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(DateKeyLayout)
}

func ParseDateKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// DateKeyAfter reports whether a falls on a later calendar day than b.
func DateKeyAfter(a, b time.Time) bool {
	return DateKey(a) > DateKey(b)
}

// DaysBetween counts calendar days from a to b, negative when b is earlier.
// Only the date keys matter, so DST changes do not shift the result.
func DaysBetween(a, b time.Time) int {
	da, _ := time.Parse(DateKeyLayout, DateKey(a))
	db, _ := time.Parse(DateKeyLayout, DateKey(b))
	return int(db.Sub(da).Hours() / 24)
}
