// Package week computes the Monday-aligned week window and maps schedules
// onto the visible (day, hour) slot grid.
//
// All dates here are local wall-clock values. Server dates ("YYYY-MM-DD")
// are parsed by splitting the numeric components and rebuilding with
// time.Date in the local location; time.Parse would produce UTC midnight
// and shift the day in any zone west of UTC.
package week

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Visible hour range of the grid, inclusive on both ends (17 rows).
const (
	FirstHour = 6
	LastHour  = 22
)

// DaysPerWeek is always 7; named to keep loops readable.
const DaysPerWeek = 7

// Start returns the Monday at 00:00:00 of t's week. Sunday walks back six
// days, any other weekday walks back to the most recent Monday.
func Start(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	return d.AddDate(0, 0, offset)
}

// Window is a Monday-to-Sunday span. The zero value is not meaningful;
// build one with NewWindow.
type Window struct {
	start time.Time
}

// NewWindow returns the window containing the given reference date.
func NewWindow(ref time.Time) Window {
	return Window{start: Start(ref)}
}

// Start returns the window's Monday at midnight.
func (w Window) Start() time.Time { return w.start }

// End returns the window's Sunday at midnight.
func (w Window) End() time.Time { return w.start.AddDate(0, 0, DaysPerWeek-1) }

// Day returns the date at the given offset (0=Monday .. 6=Sunday).
func (w Window) Day(offset int) time.Time {
	return w.start.AddDate(0, 0, offset)
}

// Next returns the following week's window.
func (w Window) Next() Window { return Window{start: w.start.AddDate(0, 0, DaysPerWeek)} }

// Prev returns the preceding week's window.
func (w Window) Prev() Window { return Window{start: w.start.AddDate(0, 0, -DaysPerWeek)} }

// DayOffset returns the day index of date within the window, computed as a
// whole-day difference from the window start. ok is false when the date
// falls outside 0..6. Rounding absorbs the 23/25-hour days around DST
// transitions.
func (w Window) DayOffset(date time.Time) (int, bool) {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	diff := int(math.Round(d.Sub(w.start).Hours() / 24))
	if diff < 0 || diff >= DaysPerWeek {
		return diff, false
	}
	return diff, true
}

// Contains reports whether date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	_, ok := w.DayOffset(date)
	return ok
}

// FormatDate renders a date as "YYYY-MM-DD" from its own local fields.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses "YYYY-MM-DD" into a local midnight.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// ParseHour returns the hour component of an "HH:MM" time string.
func ParseHour(s string) (int, error) {
	hh, _, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hour, nil
}
