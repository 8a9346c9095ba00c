package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgcal/internal/models"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{30, 1},
		{60, 1},
		{61, 2},
		{90, 2},
		{120, 2},
		{150, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Span(tt.minutes), "duration %d", tt.minutes)
	}
}

func TestPlaceSingleHour(t *testing.T) {
	w := NewWindow(date(2024, time.June, 3))
	g := Place([]models.Schedule{{
		ID:            1,
		ActivityName:  "Reading",
		ScheduledDate: "2024-06-03",
		ScheduledTime: "06:00",
		Duration:      60,
	}}, w)

	require.Equal(t, 1, g.Fragments())
	frags := g.At(0, 6)
	require.Len(t, frags, 1)
	assert.True(t, frags[0].First)
	assert.True(t, frags[0].Last)
}

func TestPlaceMultiHour(t *testing.T) {
	// 150 minutes starting at 08:00 spans hours 8, 9 and 10.
	w := NewWindow(date(2024, time.June, 3))
	g := Place([]models.Schedule{{
		ID:            7,
		ScheduledDate: "2024-06-04",
		ScheduledTime: "08:00",
		Duration:      150,
	}}, w)

	require.Equal(t, 3, g.Fragments())
	for _, hour := range []int{8, 9, 10} {
		frags := g.At(1, hour)
		require.Len(t, frags, 1, "hour %d", hour)
		assert.Equal(t, hour == 8, frags[0].First, "hour %d", hour)
		assert.Equal(t, hour == 10, frags[0].Last, "hour %d", hour)
	}
	assert.Empty(t, g.At(1, 7))
	assert.Empty(t, g.At(1, 11))
}

func TestPlaceMidweekScenario(t *testing.T) {
	// Week of Monday 2024-06-03: a 90-minute schedule on Wednesday at 14:00
	// occupies (day 2, hour 14) and (day 2, hour 15); the first fragment is
	// the movable one and the second is a continuation marker.
	w := NewWindow(date(2024, time.June, 3))
	g := Place([]models.Schedule{{
		ID:            3,
		ActivityName:  "Guitar",
		CategoryColor: "#3498db",
		ScheduledDate: "2024-06-05",
		ScheduledTime: "14:00",
		Duration:      90,
	}}, w)

	require.Equal(t, 2, g.Fragments())

	first := g.At(2, 14)
	require.Len(t, first, 1)
	assert.True(t, first[0].First)
	assert.False(t, first[0].Last)

	cont := g.At(2, 15)
	require.Len(t, cont, 1)
	assert.False(t, cont[0].First)
	assert.True(t, cont[0].Last)
}

func TestPlaceClipsAtLastHour(t *testing.T) {
	// Three hours starting at 21:00 would reach hour 23; only 21 and 22
	// receive fragments.
	w := NewWindow(date(2024, time.June, 3))
	g := Place([]models.Schedule{{
		ID:            4,
		ScheduledDate: "2024-06-03",
		ScheduledTime: "21:00",
		Duration:      180,
	}}, w)

	require.Equal(t, 2, g.Fragments())
	require.Len(t, g.At(0, 21), 1)
	require.Len(t, g.At(0, 22), 1)
	assert.True(t, g.At(0, 22)[0].Last)
}

func TestPlaceSkipsOutsideWindow(t *testing.T) {
	w := NewWindow(date(2024, time.June, 3))
	g := Place([]models.Schedule{
		{ID: 1, ScheduledDate: "2024-06-10", ScheduledTime: "10:00", Duration: 60},
		{ID: 2, ScheduledDate: "2024-06-02", ScheduledTime: "10:00", Duration: 60},
		{ID: 3, ScheduledDate: "not-a-date", ScheduledTime: "10:00", Duration: 60},
	}, w)

	assert.Zero(t, g.Fragments())
	assert.Len(t, g.Skipped, 3)
}

func TestPlaceStacksInFetchOrder(t *testing.T) {
	w := NewWindow(date(2024, time.June, 3))
	g := Place([]models.Schedule{
		{ID: 1, ScheduledDate: "2024-06-03", ScheduledTime: "09:00", Duration: 60},
		{ID: 2, ScheduledDate: "2024-06-03", ScheduledTime: "09:00", Duration: 60},
	}, w)

	frags := g.At(0, 9)
	require.Len(t, frags, 2)
	assert.Equal(t, int64(1), frags[0].Schedule.ID)
	assert.Equal(t, int64(2), frags[1].Schedule.ID)
}

func TestLighten(t *testing.T) {
	// 20% adds 0x33 to each channel, clamped at white.
	assert.Equal(t, "#333333", Lighten("#000000", 20))
	assert.Equal(t, "#ffffff", Lighten("#ffffff", 20))
	assert.Equal(t, "#ffffff", Lighten("#f0f0f0", 20))
	// Garbage input falls back to the default color before tinting.
	assert.Equal(t, Lighten(DefaultColor, 20), Lighten("nope", 20))
}

func TestDarken(t *testing.T) {
	assert.Equal(t, "#cccccc", Darken("#ffffff", 20))
	assert.Equal(t, "#000000", Darken("#000000", 20))
}
