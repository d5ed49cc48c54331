package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used by every data file.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"20060102",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a calendar date, tolerating a trailing time part.
// The result is midnight UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CalendarDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// CalendarDate truncates t to midnight UTC of its own calendar day (in t's location).
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EffectiveDate maps a calculation date (T) to the day its regime judgment applies (T+1).
// It is a plain calendar shift: weekends and exchange holidays are not skipped.
func EffectiveDate(calc time.Time) time.Time {
	return CalendarDate(calc).AddDate(0, 0, 1)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(CalendarDate(b).Sub(CalendarDate(a)).Hours() / 24)
}

// FormatDate renders a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DatePart reduces a timestamp string to its calendar date. Unparsable input is returned trimmed.
func DatePart(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return ""
	}
	first := strings.Fields(ts)[0]
	if t, err := ParseDate(first); err == nil {
		return FormatDate(t)
	}
	if t, err := ParseDate(ts); err == nil {
		return FormatDate(t)
	}
	return ts
}
