package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgcal/internal/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenAt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestWeekRoundTrip(t *testing.T) {
	c := openTestCache(t)

	schedules := []models.Schedule{
		{ID: 1, ActivityName: "Reading", ScheduledDate: "2024-06-03", ScheduledTime: "06:00", Duration: 60},
		{ID: 2, ActivityName: "Guitar", ScheduledDate: "2024-06-05", ScheduledTime: "14:00", Duration: 90},
	}
	require.NoError(t, c.PutWeek("2024-06-03", schedules))

	got, fetchedAt, err := c.GetWeek("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, schedules, got)
	assert.False(t, fetchedAt.IsZero())
}

func TestWeekMiss(t *testing.T) {
	c := openTestCache(t)

	_, _, err := c.GetWeek("2024-06-03")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestWeekReplacedWholesale(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.PutWeek("2024-06-03", []models.Schedule{{ID: 1}, {ID: 2}}))
	require.NoError(t, c.PutWeek("2024-06-03", []models.Schedule{{ID: 3}}))

	got, _, err := c.GetWeek("2024-06-03")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestActivitiesRoundTrip(t *testing.T) {
	c := openTestCache(t)

	_, _, err := c.GetActivities()
	assert.ErrorIs(t, err, ErrMiss)

	activities := []models.Activity{{ID: 9, Name: "Run", CategoryName: "Health", CategoryColor: "#2ecc71"}}
	require.NoError(t, c.PutActivities(activities))

	got, _, err := c.GetActivities()
	require.NoError(t, err)
	assert.Equal(t, activities, got)
}
