package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", date(2024, time.June, 3), date(2024, time.June, 3)},
		{"wednesday walks back two days", date(2024, time.June, 5), date(2024, time.June, 3)},
		{"saturday walks back five days", date(2024, time.June, 8), date(2024, time.June, 3)},
		{"sunday walks back six days", date(2024, time.June, 9), date(2024, time.June, 3)},
		{"time of day is truncated", time.Date(2024, time.June, 5, 17, 42, 9, 0, time.Local), date(2024, time.June, 3)},
		{"year boundary", date(2025, time.January, 1), date(2024, time.December, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Start(tt.in))
		})
	}
}

func TestStartProperties(t *testing.T) {
	// Walk a full year of dates: the result is always a Monday, never after
	// the input, and at most six days before it. Start is idempotent.
	d := date(2024, time.January, 1)
	for i := 0; i < 366; i++ {
		s := Start(d)
		assert.Equal(t, time.Monday, s.Weekday(), "weekday for %s", d)
		assert.False(t, s.After(d), "start after input for %s", d)
		assert.True(t, d.Before(s.AddDate(0, 0, 7)), "input outside week for %s", d)
		assert.Equal(t, s, Start(s), "not idempotent for %s", d)
		d = d.AddDate(0, 0, 1)
	}
}

func TestWindowDays(t *testing.T) {
	w := NewWindow(date(2024, time.June, 5))

	assert.Equal(t, date(2024, time.June, 3), w.Start())
	assert.Equal(t, date(2024, time.June, 9), w.End())
	assert.Equal(t, date(2024, time.June, 7), w.Day(4))
	assert.Equal(t, date(2024, time.June, 10), w.Next().Start())
	assert.Equal(t, date(2024, time.May, 27), w.Prev().Start())
}

func TestWindowDayOffset(t *testing.T) {
	w := NewWindow(date(2024, time.June, 3))

	tests := []struct {
		date   time.Time
		offset int
		ok     bool
	}{
		{date(2024, time.June, 3), 0, true},
		{date(2024, time.June, 5), 2, true},
		{date(2024, time.June, 9), 6, true},
		{date(2024, time.June, 2), -1, false},
		{date(2024, time.June, 10), 7, false},
	}
	for _, tt := range tests {
		offset, ok := w.DayOffset(tt.date)
		assert.Equal(t, tt.ok, ok, "ok for %s", tt.date)
		if tt.ok {
			assert.Equal(t, tt.offset, offset, "offset for %s", tt.date)
		}
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-06-03", FormatDate(date(2024, time.June, 3)))
	assert.Equal(t, "2024-12-30", FormatDate(date(2024, time.December, 30)))
	assert.Equal(t, "0099-01-02", FormatDate(date(99, time.January, 2)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 5), d)
	// Parsed dates live in the local zone, never UTC.
	assert.Equal(t, time.Local, d.Location())

	for _, bad := range []string{"", "2024-06", "2024/06/05", "2024-13-01", "2024-00-10", "abcd-06-05"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d := date(2024, time.January, 1)
	for i := 0; i < 366; i++ {
		got, err := ParseDate(FormatDate(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
		d = d.AddDate(0, 0, 1)
	}
}

func TestParseHour(t *testing.T) {
	h, err := ParseHour("14:00")
	require.NoError(t, err)
	assert.Equal(t, 14, h)

	h, err = ParseHour("06:30")
	require.NoError(t, err)
	assert.Equal(t, 6, h)

	for _, bad := range []string{"", "14", "xx:00", "24:00", "-1:00"} {
		_, err := ParseHour(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
