package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgcal/internal/models"
)

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestListSchedules(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/schedules", r.URL.Path)
		assert.Equal(t, "2024-06-03", r.URL.Query().Get("week_start"))
		json.NewEncoder(w).Encode([]models.Schedule{{
			ID:            1,
			ActivityID:    9,
			ActivityName:  "Reading",
			CategoryColor: "#2ecc71",
			ScheduledDate: "2024-06-05",
			ScheduledTime: "14:00",
			Duration:      90,
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	schedules, err := c.ListSchedules(context.Background(), localDate(2024, time.June, 3))
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "Reading", schedules[0].ActivityName)
	assert.Equal(t, 90, schedules[0].Duration)
}

func TestUpdateSchedule(t *testing.T) {
	var got models.ScheduleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/schedules/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.UpdateSchedule(context.Background(), 42, models.ScheduleRequest{
		ScheduledDate: "2024-06-05",
		ScheduledTime: "10:00",
		Duration:      60,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-05", got.ScheduledDate)
	assert.Equal(t, "10:00", got.ScheduledTime)
	assert.Equal(t, 60, got.Duration)
}

func TestReplicateSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/schedules/7/replicate", r.URL.Path)
		var req models.ReplicateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "weekly", req.Type)
		assert.Equal(t, "2024-07-01", req.UntilDate)
		assert.Equal(t, []int{0, 2}, req.DaysOfWeek)
		json.NewEncoder(w).Encode(models.ReplicateResult{CreatedCount: 8})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	res, err := c.ReplicateSchedule(context.Background(), 7, models.ReplicateRequest{
		Type:       "weekly",
		UntilDate:  "2024-07-01",
		DaysOfWeek: []int{0, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, res.CreatedCount)
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "duration must be positive"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.CreateSchedule(context.Background(), models.ScheduleRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "duration must be positive", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "duration must be positive")
}

func TestServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.DeleteSchedule(context.Background(), 99)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestTransportErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, WithTimeout(200*time.Millisecond))
	_, err := c.ListActivities(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport errors are not APIErrors")
}

func TestBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "ana", user)
		assert.Equal(t, "s3cret", pass)
		json.NewEncoder(w).Encode(models.PointsBalance{TotalPoints: 120})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, WithBasicAuth("ana", "s3cret"))
	p, err := c.Points(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, p.TotalPoints)
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, nil)
	_, err := c.Streak(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
