package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveDate(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"plain", day(2026, 2, 9), day(2026, 2, 10)},
		{"month end", day(2026, 1, 31), day(2026, 2, 1)},
		{"year end", day(2025, 12, 31), day(2026, 1, 1)},
		{"leap day", day(2028, 2, 28), day(2028, 2, 29)},
		{"friday to saturday", day(2026, 2, 13), day(2026, 2, 14)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EffectiveDate(tc.in))
		})
	}
}

func TestEffectiveDateIgnoresTimeOfDay(t *testing.T) {
	in := time.Date(2026, 2, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, day(2026, 2, 10), EffectiveDate(in))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2026-02-09", " 2026-02-09 ", "2026/02/09", "20260209", "2026-02-09 15:30:00"} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, day(2026, 2, 9), got, s)
	}

	_, err := ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day(2026, 2, 9), time.Date(2026, 2, 9, 22, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, DaysBetween(day(2026, 1, 1), day(2026, 1, 30)))
	assert.Equal(t, 30, DaysBetween(day(2025, 12, 15), day(2026, 1, 14)))
}

func TestDatePart(t *testing.T) {
	assert.Equal(t, "2026-02-09", DatePart("2026-02-09 18:05:11"))
	assert.Equal(t, "2026-02-09", DatePart("2026-02-09T18:05:11+08:00"))
	assert.Equal(t, "", DatePart("  "))
	assert.Equal(t, "later", DatePart(" later "))
}
