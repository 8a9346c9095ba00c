package week

import (
	"orgcal/internal/models"
)

// Fragment is one schedule's presence in a single (day, hour) slot.
// The first-hour fragment carries the full label and is the only movable
// one; later hours are continuation markers drawn in a lightened tint.
type Fragment struct {
	Schedule models.Schedule
	Day      int // 0=Monday .. 6=Sunday
	Hour     int
	First    bool // first occupied hour
	Last     bool // final occupied hour (or clipped at LastHour)
}

// Grid indexes fragments by slot for one rendered week. Fragments sharing a
// slot stack in fetch order; no overlap resolution is attempted.
type Grid struct {
	Window Window
	slots  map[SlotKey][]Fragment
	// Skipped holds schedules whose date fell outside the window, kept so
	// callers can log them.
	Skipped []models.Schedule
}

// SlotKey identifies one cell of the week grid.
type SlotKey struct {
	Day  int
	Hour int
}

// At returns the fragments stacked in the given slot.
func (g *Grid) At(day, hour int) []Fragment {
	return g.slots[SlotKey{Day: day, Hour: hour}]
}

// Fragments returns the total number of placed fragments.
func (g *Grid) Fragments() int {
	n := 0
	for _, fs := range g.slots {
		n += len(fs)
	}
	return n
}

// Span returns how many hour slots a duration occupies (ceil to full hours).
func Span(durationMinutes int) int {
	return (durationMinutes + 59) / 60
}

// Place maps schedules onto the window's slot grid. A schedule occupies
// hours [startHour, startHour+span) clipped to LastHour; schedules dated
// outside the window are collected in Skipped and render nothing.
func Place(schedules []models.Schedule, window Window) *Grid {
	g := &Grid{
		Window: window,
		slots:  make(map[SlotKey][]Fragment),
	}

	for _, s := range schedules {
		date, err := ParseDate(s.ScheduledDate)
		if err != nil {
			g.Skipped = append(g.Skipped, s)
			continue
		}
		day, ok := window.DayOffset(date)
		if !ok {
			g.Skipped = append(g.Skipped, s)
			continue
		}
		startHour, err := ParseHour(s.ScheduledTime)
		if err != nil {
			g.Skipped = append(g.Skipped, s)
			continue
		}

		endHour := startHour + Span(s.Duration)
		for hour := startHour; hour < endHour && hour <= LastHour; hour++ {
			if hour < FirstHour {
				continue
			}
			key := SlotKey{Day: day, Hour: hour}
			g.slots[key] = append(g.slots[key], Fragment{
				Schedule: s,
				Day:      day,
				Hour:     hour,
				First:    hour == startHour,
				Last:     hour == endHour-1 || hour == LastHour,
			})
		}
	}

	return g
}
