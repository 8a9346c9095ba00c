// Package cache keeps the last-fetched schedules and activities in a local
// sqlite database so the grid can render before the first fetch resolves
// and keep working when the backend is unreachable.
package cache

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"orgcal/internal/models"
)

//go:embed schema.sql
var schema string

// ErrMiss is returned when nothing is cached for the requested key.
var ErrMiss = errors.New("cache miss")

// Cache wraps the sqlite connection.
type Cache struct {
	db *sql.DB
}

// Open creates the cache database under the user data directory.
func Open() (*Cache, error) {
	path, err := cachePath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt opens (and initializes) a cache database at an explicit path.
func OpenAt(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cachePath resolves the database file, honoring XDG_DATA_HOME.
func cachePath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "orgcal")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "cache.db"), nil
}

// PutWeek stores the schedule list for one week, replacing any prior entry.
func (c *Cache) PutWeek(weekStart string, schedules []models.Schedule) error {
	payload, err := json.Marshal(schedules)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`
		INSERT INTO weeks (week_start, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(week_start) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, weekStart, string(payload), time.Now().UTC())
	return err
}

// GetWeek returns the cached schedules for one week and when they were
// fetched. Returns ErrMiss when the week has never been cached.
func (c *Cache) GetWeek(weekStart string) ([]models.Schedule, time.Time, error) {
	var payload string
	var fetchedAt time.Time
	err := c.db.QueryRow(`
		SELECT payload, fetched_at FROM weeks WHERE week_start = ?
	`, weekStart).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var schedules []models.Schedule
	if err := json.Unmarshal([]byte(payload), &schedules); err != nil {
		return nil, time.Time{}, err
	}
	return schedules, fetchedAt, nil
}

// PutActivities stores the full activity list.
func (c *Cache) PutActivities(activities []models.Activity) error {
	payload, err := json.Marshal(activities)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`
		INSERT INTO activities (id, payload, fetched_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, string(payload), time.Now().UTC())
	return err
}

// GetActivities returns the cached activity list, or ErrMiss.
func (c *Cache) GetActivities() ([]models.Activity, time.Time, error) {
	var payload string
	var fetchedAt time.Time
	err := c.db.QueryRow(`SELECT payload, fetched_at FROM activities WHERE id = 1`).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var activities []models.Activity
	if err := json.Unmarshal([]byte(payload), &activities); err != nil {
		return nil, time.Time{}, err
	}
	return activities, fetchedAt, nil
}
