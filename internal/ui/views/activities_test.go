package views

import (
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgcal/internal/api"
	"orgcal/internal/models"
	"orgcal/internal/week"
)

func newTestActivities(t *testing.T, serverURL string) *ActivitiesView {
	t.Helper()
	client := api.NewClient(serverURL, nil, api.WithTimeout(2*time.Second))
	return NewActivitiesView(client, nil, nil)
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string    { return &s }

func unitsActivity() models.Activity {
	return models.Activity{
		ID:              7,
		Name:            "Cycling",
		CategoryName:    "Health",
		CategoryColor:   "#2ecc71",
		MeasurementType: "units",
		TargetValue:     floatPtr(10),
		TargetUnit:      strPtr("km"),
		Progress:        8,
	}
}

func seedActivities(v *ActivitiesView, activities ...models.Activity) {
	v.Update(activitiesLoadedMsg{activities: activities})
}

func typeString(v *ActivitiesView, s string) {
	for _, r := range s {
		v.Update(keyRune(r))
	}
}

func TestLogUnitsProgress(t *testing.T) {
	rs := newRecordingServer(t)
	v := newTestActivities(t, rs.srv.URL)
	seedActivities(v, unitsActivity())

	v.Update(keyRune('p'))
	require.True(t, v.logging)

	typeString(v, "2")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.logging)

	msg := cmd()
	logged, ok := msg.(progressLoggedMsg)
	require.True(t, ok, "expected progressLoggedMsg, got %T", msg)
	assert.Equal(t, "Cycling", logged.activityName)

	reqs := rs.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].method)
	assert.Equal(t, "/api/progress", reqs[0].path)
	assert.Equal(t, float64(7), reqs[0].body["activity_id"])
	assert.Equal(t, week.FormatDate(time.Now()), reqs[0].body["date"])
	assert.Equal(t, float64(2), reqs[0].body["value"])
	assert.Equal(t, "km", reqs[0].body["unit"])
	// 8 logged + 2 new reaches the target of 10.
	assert.Equal(t, true, reqs[0].body["completed"])
}

func TestLogProgressRejectsBadValues(t *testing.T) {
	rs := newRecordingServer(t)
	v := newTestActivities(t, rs.srv.URL)
	seedActivities(v, models.Activity{
		ID: 3, Name: "Reading", CategoryName: "Mind", MeasurementType: "percentage",
	})

	v.Update(keyRune('p'))
	require.True(t, v.logging)

	typeString(v, "150")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, v.logging, "invalid value keeps the form open")
	assert.Contains(t, v.notice, "between 0 and 100")
	require.NotNil(t, cmd, "notice expiry tick is still scheduled")
	assert.Empty(t, rs.recorded())
}

func TestLogBooleanProgress(t *testing.T) {
	rs := newRecordingServer(t)
	v := newTestActivities(t, rs.srv.URL)
	seedActivities(v, models.Activity{
		ID: 4, Name: "Meditate", CategoryName: "Mind", MeasurementType: "boolean",
	})

	v.Update(keyRune('p'))
	require.True(t, v.logging)

	v.Update(keyRune(' ')) // toggle done
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	reqs := rs.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, true, reqs[0].body["completed"])
	assert.Equal(t, float64(1), reqs[0].body["value"])
}

func TestActivitiesSortedByCategoryThenName(t *testing.T) {
	rs := newRecordingServer(t)
	v := newTestActivities(t, rs.srv.URL)
	seedActivities(v,
		models.Activity{ID: 1, Name: "Zumba", CategoryName: "Health"},
		models.Activity{ID: 2, Name: "Chess", CategoryName: "Mind"},
		models.Activity{ID: 3, Name: "Cycling", CategoryName: "Health"},
	)

	require.Len(t, v.activities, 3)
	assert.Equal(t, "Cycling", v.activities[0].Name)
	assert.Equal(t, "Zumba", v.activities[1].Name)
	assert.Equal(t, "Chess", v.activities[2].Name)
}
