// Package api is the REST client for the productivity backend. Every call
// takes a context, decodes JSON into typed models, and turns non-2xx
// responses into *APIError carrying the server's message verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"orgcal/internal/models"
	"orgcal/internal/week"
)

// APIError is a non-2xx response from the backend. Message is the server's
// {"message": ...} payload when one was supplied.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client talks to one backend instance.
type Client struct {
	baseURL  string
	http     *http.Client
	username string
	password string
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth attaches HTTP basic auth credentials to every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSchedules fetches the schedules for the week starting at weekStart.
func (c *Client) ListSchedules(ctx context.Context, weekStart time.Time) ([]models.Schedule, error) {
	q := url.Values{"week_start": {week.FormatDate(weekStart)}}
	var schedules []models.Schedule
	if err := c.do(ctx, http.MethodGet, "/api/schedules?"+q.Encode(), nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// CreateSchedule places a new schedule.
func (c *Client) CreateSchedule(ctx context.Context, req models.ScheduleRequest) error {
	return c.do(ctx, http.MethodPost, "/api/schedules", req, nil)
}

// UpdateSchedule rewrites a schedule's date, time and duration.
func (c *Client) UpdateSchedule(ctx context.Context, id int64, req models.ScheduleRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), req, nil)
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", id), nil, nil)
}

// ReplicateSchedule asks the server to copy a schedule forward in time.
func (c *Client) ReplicateSchedule(ctx context.Context, id int64, req models.ReplicateRequest) (*models.ReplicateResult, error) {
	var res models.ReplicateResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/schedules/%d/replicate", id), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListActivities fetches all activities with server-computed progress.
func (c *Client) ListActivities(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := c.do(ctx, http.MethodGet, "/api/activities", nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// LogProgress records a progress entry and returns the points earned.
func (c *Client) LogProgress(ctx context.Context, entry models.ProgressEntry) (*models.ProgressResult, error) {
	var res models.ProgressResult
	if err := c.do(ctx, http.MethodPost, "/api/progress", entry, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RecentProgress fetches the latest progress entries.
func (c *Client) RecentProgress(ctx context.Context) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	if err := c.do(ctx, http.MethodGet, "/api/progress/recent", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Streak fetches the consecutive-week streak.
func (c *Client) Streak(ctx context.Context) (*models.Streak, error) {
	var s models.Streak
	if err := c.do(ctx, http.MethodGet, "/api/streak", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DashboardStats fetches overall activity counts.
func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Points fetches the current point balance.
func (c *Client) Points(ctx context.Context) (*models.PointsBalance, error) {
	var p models.PointsBalance
	if err := c.do(ctx, http.MethodGet, "/api/points", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// do performs one request. body (if non-nil) is JSON-encoded; out (if
// non-nil) receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Message
		}
		c.log.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
