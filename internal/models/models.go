package models

// Schedule places one activity at a specific date, time and duration.
// Dates are wall-clock "YYYY-MM-DD" strings and times are "HH:MM";
// neither carries a timezone.
type Schedule struct {
	ID            int64  `json:"id"`
	ActivityID    int64  `json:"activity_id"`
	ActivityName  string `json:"activity_name"`
	CategoryColor string `json:"category_color"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Duration      int    `json:"duration"` // minutes
}

// ScheduleRequest is the body for creating or updating a schedule.
type ScheduleRequest struct {
	ActivityID    int64  `json:"activity_id,omitempty"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Duration      int    `json:"duration"`
}

// ReplicateRequest asks the server to copy a schedule forward in time.
// Type is "daily", "weekly" or "monthly"; DaysOfWeek uses 0=Monday..6=Sunday
// and only applies to weekly replication.
type ReplicateRequest struct {
	Type       string `json:"type"`
	UntilDate  string `json:"until_date"`
	DaysOfWeek []int  `json:"days_of_week,omitempty"`
}

// ReplicateResult reports how many copies the server created.
type ReplicateResult struct {
	Message      string `json:"message"`
	CreatedCount int    `json:"created_count"`
}

// Activity is a task or goal with a category and an optional numeric target.
// MeasurementType is "units", "percentage" or "boolean".
type Activity struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	CategoryID         int64    `json:"category_id"`
	CategoryName       string   `json:"category_name"`
	CategoryColor      string   `json:"category_color"`
	Status             string   `json:"status"`
	MeasurementType    string   `json:"measurement_type"`
	TargetValue        *float64 `json:"target_value"`
	TargetUnit         *string  `json:"target_unit"`
	ManualPercentage   *float64 `json:"manual_percentage"`
	Progress           float64  `json:"progress"`
	ProgressPercentage float64  `json:"progress_percentage"`
	ParentActivityID   *int64   `json:"parent_activity_id"`
	ChildrenCount      int      `json:"children_count"`
}

// ActivityIndex is a typed id -> activity lookup kept in memory so views
// never round-trip activity fields through strings.
type ActivityIndex map[int64]Activity

// NewActivityIndex builds an index from a fetched activity list.
func NewActivityIndex(activities []Activity) ActivityIndex {
	idx := make(ActivityIndex, len(activities))
	for _, a := range activities {
		idx[a.ID] = a
	}
	return idx
}

// ProgressEntry is the body for logging progress against an activity.
type ProgressEntry struct {
	ActivityID      int64   `json:"activity_id"`
	Date            string  `json:"date"`
	Value           float64 `json:"value"`
	Unit            string  `json:"unit,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	Completed       bool    `json:"completed"`
	MeasurementType string  `json:"measurement_type,omitempty"`
}

// ProgressResult is the server's response to a logged progress entry.
type ProgressResult struct {
	Message      string `json:"message"`
	PointsEarned int    `json:"points_earned"`
}

// ProgressRecord is one historical progress entry as returned by the server.
type ProgressRecord struct {
	ID           int64   `json:"id"`
	ActivityID   int64   `json:"activity_id"`
	ActivityName string  `json:"activity_name"`
	Date         string  `json:"date"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
	Notes        string  `json:"notes"`
	Completed    bool    `json:"completed"`
}

// Streak is the user's consecutive-week activity streak.
type Streak struct {
	StreakCount      int     `json:"streak_count"`
	LastActivityDate *string `json:"last_activity_date"`
	Message          string  `json:"message"`
}

// DashboardStats summarizes overall activity counts for the header.
type DashboardStats struct {
	TotalActivities     int `json:"total_activities"`
	CompletedActivities int `json:"completed_activities"`
	TotalCategories     int `json:"total_categories"`
	WeekProgress        int `json:"week_progress"`
}

// PointsBalance is the user's current point total.
type PointsBalance struct {
	TotalPoints int     `json:"total_points"`
	LastUpdated *string `json:"last_updated"`
}
