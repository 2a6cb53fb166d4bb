package utils

import (
	"fmt"
	"strings"
	"time"
)

// dayLayouts lists the accepted textual date formats, most specific first.
var dayLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// DayOf truncates t to its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay extracts the calendar day from a textual date or timestamp.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return DayOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(time.DateOnly)
}
