package views

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"orgcal/internal/api"
	"orgcal/internal/cache"
	"orgcal/internal/models"
	"orgcal/internal/ui/keys"
	"orgcal/internal/ui/styles"
	"orgcal/internal/week"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// truncate shortens s to at most w cells, ending with an ellipsis
func truncate(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w <= 1 {
		return string(runes[:w])
	}
	return string(runes[:w-1]) + "…"
}

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// noticeTTL is how long a status notice stays visible before auto-dismissing
const noticeTTL = 5 * time.Second

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// calendarMode is the interaction state of the calendar view. Moving is the
// key-driven counterpart of a pointer drag: the grid stays untouched until
// the server confirms the update.
type calendarMode int

const (
	modeNormal calendarMode = iota
	modeMoving
	modeCreating
	modeReplicating
	modeConfirmDelete
)

type schedulesLoadedMsg struct {
	gen       int
	schedules []models.Schedule
	fromCache bool
	fetchedAt time.Time
}

type schedulesLoadFailedMsg struct {
	gen int
	err error
}

type activitiesLoadedMsg struct {
	activities []models.Activity
	fromCache  bool
}

type activitiesLoadFailedMsg struct {
	err error
}

type opDoneMsg struct {
	notice string
}

type opFailedMsg struct {
	err error
}

type noticeExpiredMsg struct {
	seq int
}

// scheduleForm collects the fields for a new schedule
type scheduleForm struct {
	activityIDs    []int64
	activityCursor int
	date           textinput.Model
	timeOfDay      textinput.Model
	duration       textinput.Model
	focusIdx       int // 0=activity, 1=date, 2=time, 3=duration, 4=save
}

// replicateForm collects the fields for copying a schedule forward
type replicateForm struct {
	scheduleID   int64
	activityName string
	typeIdx      int // 0=daily, 1=weekly, 2=monthly
	until        textinput.Model
	days         [7]bool // 0=Monday .. 6=Sunday, weekly only
	dayCursor    int
	focusIdx     int // 0=type, 1=until, 2=days, 3=save
}

var replicateTypes = [3]string{"daily", "weekly", "monthly"}

// CalendarView renders the weekly schedule grid and mediates rescheduling.
// All week state lives here; nothing is package-level.
type CalendarView struct {
	client *api.Client
	cache  *cache.Cache // nil when caching is disabled
	log    *zap.Logger
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// Week state. The window is derived from refDate on every navigation
	// and the grid is rebuilt wholesale on every schedule change.
	refDate   time.Time
	window    week.Window
	schedules []models.Schedule
	grid      *week.Grid
	fromCache bool
	fetchedAt time.Time
	loading   bool

	// loadGen is the token of the newest issued load; stale responses
	// carry an older token and are dropped.
	loadGen int

	// Activity lookup for the create form.
	activities models.ActivityIndex

	// Cursor slot.
	cursorDay  int
	cursorHour int

	mode calendarMode

	// Move state.
	moving       *models.Schedule
	moveFromDay  int
	moveFromHour int

	form      scheduleForm
	replicate replicateForm

	confirmDeleteID   int64
	confirmDeleteName string

	notice     string
	noticeKind noticeKind
	noticeSeq  int

	showHelpPopup bool
}

// NewCalendarView creates the calendar centered on today's week.
func NewCalendarView(client *api.Client, cch *cache.Cache, logger *zap.Logger) *CalendarView {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	return &CalendarView{
		client:     client,
		cache:      cch,
		log:        logger,
		styles:     styles.NewStyles(),
		keys:       keys.DefaultKeyMap(),
		refDate:    now,
		window:     week.NewWindow(now),
		grid:       week.Place(nil, week.NewWindow(now)),
		activities: models.ActivityIndex{},
		cursorDay:  0,
		cursorHour: week.FirstHour,
	}
}

// Editing reports whether a form or popup currently owns the keyboard.
func (v *CalendarView) Editing() bool {
	return v.mode != modeNormal || v.showHelpPopup
}

func (v *CalendarView) Init() tea.Cmd {
	return tea.Batch(v.loadSchedules(), v.loadActivities)
}

// loadSchedules issues a tokened asynchronous fetch for the current window.
// On network failure the cached copy of the week (if any) is served instead.
func (v *CalendarView) loadSchedules() tea.Cmd {
	v.loadGen++
	v.loading = true
	gen := v.loadGen
	win := v.window
	return func() tea.Msg {
		weekStart := week.FormatDate(win.Start())
		schedules, err := v.client.ListSchedules(context.Background(), win.Start())
		if err != nil {
			v.log.Warn("schedule load failed", zap.String("week_start", weekStart), zap.Error(err))
			if v.cache != nil {
				if cached, fetchedAt, cerr := v.cache.GetWeek(weekStart); cerr == nil {
					return schedulesLoadedMsg{gen: gen, schedules: cached, fromCache: true, fetchedAt: fetchedAt}
				}
			}
			return schedulesLoadFailedMsg{gen: gen, err: err}
		}
		if v.cache != nil {
			if cerr := v.cache.PutWeek(weekStart, schedules); cerr != nil {
				v.log.Warn("cache write failed", zap.String("week_start", weekStart), zap.Error(cerr))
			}
		}
		return schedulesLoadedMsg{gen: gen, schedules: schedules, fetchedAt: time.Now()}
	}
}

func (v *CalendarView) loadActivities() tea.Msg {
	activities, err := v.client.ListActivities(context.Background())
	if err != nil {
		v.log.Warn("activity load failed", zap.Error(err))
		if v.cache != nil {
			if cached, _, cerr := v.cache.GetActivities(); cerr == nil {
				return activitiesLoadedMsg{activities: cached, fromCache: true}
			}
		}
		return activitiesLoadFailedMsg{err: err}
	}
	if v.cache != nil {
		if cerr := v.cache.PutActivities(activities); cerr != nil {
			v.log.Warn("cache write failed", zap.Error(cerr))
		}
	}
	return activitiesLoadedMsg{activities: activities}
}

// setNotice shows a status-bar notice and arms its 5-second expiry tick.
// The sequence number keeps an older timer from clearing a newer notice.
func (v *CalendarView) setNotice(kind noticeKind, text string) tea.Cmd {
	v.noticeSeq++
	seq := v.noticeSeq
	v.notice = text
	v.noticeKind = kind
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// setWeek recomputes the window for a new reference date and reloads.
// Any in-progress move is invalidated because its slots no longer exist.
func (v *CalendarView) setWeek(ref time.Time) tea.Cmd {
	v.refDate = ref
	v.window = week.NewWindow(ref)
	v.schedules = nil
	v.grid = week.Place(nil, v.window)
	if v.mode == modeMoving {
		v.mode = modeNormal
		v.moving = nil
	}
	return v.loadSchedules()
}

func (v *CalendarView) rebuildGrid() {
	v.grid = week.Place(v.schedules, v.window)
	for _, s := range v.grid.Skipped {
		v.log.Warn("schedule outside visible week",
			zap.Int64("schedule_id", s.ID),
			zap.String("scheduled_date", s.ScheduledDate),
			zap.String("week_start", week.FormatDate(v.window.Start())))
	}
}

// selectedFragment returns the first-hour fragment under the cursor, if any.
func (v *CalendarView) selectedFragment() *week.Fragment {
	for _, f := range v.grid.At(v.cursorDay, v.cursorHour) {
		if f.First {
			frag := f
			return &frag
		}
	}
	return nil
}

func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case schedulesLoadedMsg:
		if msg.gen != v.loadGen {
			v.log.Debug("dropping stale schedule response",
				zap.Int("gen", msg.gen), zap.Int("latest", v.loadGen))
			return v, nil
		}
		v.loading = false
		v.schedules = msg.schedules
		v.fromCache = msg.fromCache
		v.fetchedAt = msg.fetchedAt
		v.rebuildGrid()
		if msg.fromCache {
			return v, v.setNotice(noticeInfo, "Server unreachable; showing cached week")
		}
		return v, nil

	case schedulesLoadFailedMsg:
		if msg.gen != v.loadGen {
			return v, nil
		}
		v.loading = false
		return v, v.setNotice(noticeError, errorText(msg.err, "Could not load schedules"))

	case activitiesLoadedMsg:
		v.activities = models.NewActivityIndex(msg.activities)
		return v, nil

	case activitiesLoadFailedMsg:
		return v, v.setNotice(noticeError, errorText(msg.err, "Could not load activities"))

	case opDoneMsg:
		return v, tea.Batch(
			v.setNotice(noticeSuccess, msg.notice),
			v.loadSchedules(),
		)

	case opFailedMsg:
		// Nothing was applied optimistically, so there is nothing to roll
		// back; the grid keeps its prior state.
		return v, v.setNotice(noticeError, errorText(msg.err, "Operation failed"))

	case noticeExpiredMsg:
		if msg.seq == v.noticeSeq {
			v.notice = ""
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		switch v.mode {
		case modeMoving:
			return v.updateMoving(msg)
		case modeCreating:
			return v.updateCreating(msg)
		case modeReplicating:
			return v.updateReplicating(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *CalendarView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.cursorHour = clamp(v.cursorHour-1, week.FirstHour, week.LastHour)
		return v, nil
	case key.Matches(msg, v.keys.Down):
		v.cursorHour = clamp(v.cursorHour+1, week.FirstHour, week.LastHour)
		return v, nil
	case key.Matches(msg, v.keys.Left):
		v.cursorDay = clamp(v.cursorDay-1, 0, week.DaysPerWeek-1)
		return v, nil
	case key.Matches(msg, v.keys.Right):
		v.cursorDay = clamp(v.cursorDay+1, 0, week.DaysPerWeek-1)
		return v, nil

	case key.Matches(msg, v.keys.PrevWeek):
		return v, v.setWeek(v.refDate.AddDate(0, 0, -week.DaysPerWeek))
	case key.Matches(msg, v.keys.NextWeek):
		return v, v.setWeek(v.refDate.AddDate(0, 0, week.DaysPerWeek))
	case key.Matches(msg, v.keys.Today):
		return v, v.setWeek(time.Now())
	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadSchedules()

	case key.Matches(msg, v.keys.Move):
		if frag := v.selectedFragment(); frag != nil {
			s := frag.Schedule
			v.mode = modeMoving
			v.moving = &s
			v.moveFromDay = v.cursorDay
			v.moveFromHour = v.cursorHour
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if frag := v.selectedFragment(); frag != nil {
			v.mode = modeConfirmDelete
			v.confirmDeleteID = frag.Schedule.ID
			v.confirmDeleteName = frag.Schedule.ActivityName
		}
		return v, nil

	case key.Matches(msg, v.keys.Replicate):
		if frag := v.selectedFragment(); frag != nil {
			v.startReplicate(frag.Schedule)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startCreate()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		if frag := v.selectedFragment(); frag != nil {
			s := frag.Schedule
			return v, v.setNotice(noticeInfo, fmt.Sprintf(
				"%s – %s %s, %d min", s.ActivityName, s.ScheduledDate, s.ScheduledTime, s.Duration))
		}
		return v, nil
	}
	return v, nil
}

// updateMoving handles the Moving state: arrows pick the target slot,
// enter commits, esc cancels without any network call.
func (v *CalendarView) updateMoving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.cursorHour = clamp(v.cursorHour-1, week.FirstHour, week.LastHour)
		return v, nil
	case key.Matches(msg, v.keys.Down):
		v.cursorHour = clamp(v.cursorHour+1, week.FirstHour, week.LastHour)
		return v, nil
	case key.Matches(msg, v.keys.Left):
		v.cursorDay = clamp(v.cursorDay-1, 0, week.DaysPerWeek-1)
		return v, nil
	case key.Matches(msg, v.keys.Right):
		v.cursorDay = clamp(v.cursorDay+1, 0, week.DaysPerWeek-1)
		return v, nil

	// A move cannot leave the visible week; navigating away cancels it.
	case key.Matches(msg, v.keys.PrevWeek):
		return v, v.setWeek(v.refDate.AddDate(0, 0, -week.DaysPerWeek))
	case key.Matches(msg, v.keys.NextWeek):
		return v, v.setWeek(v.refDate.AddDate(0, 0, week.DaysPerWeek))
	case key.Matches(msg, v.keys.Today):
		return v, v.setWeek(time.Now())

	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal
		v.moving = nil
		v.cursorDay = v.moveFromDay
		v.cursorHour = v.moveFromHour
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.moving == nil {
			v.mode = modeNormal
			return v, nil
		}
		s := *v.moving
		v.mode = modeNormal
		v.moving = nil
		return v, v.moveSchedule(s, v.cursorDay, v.cursorHour)
	}
	return v, nil
}

// moveSchedule issues the reschedule update. The target date comes from the
// current window, the time is the target slot's whole hour, and the
// duration is unchanged.
func (v *CalendarView) moveSchedule(s models.Schedule, targetDay, targetHour int) tea.Cmd {
	req := models.ScheduleRequest{
		ScheduledDate: week.FormatDate(v.window.Day(targetDay)),
		ScheduledTime: fmt.Sprintf("%02d:00", targetHour),
		Duration:      s.Duration,
	}
	return func() tea.Msg {
		if err := v.client.UpdateSchedule(context.Background(), s.ID, req); err != nil {
			return opFailedMsg{err: err}
		}
		return opDoneMsg{notice: fmt.Sprintf("Moved %s to %s %s", s.ActivityName, req.ScheduledDate, req.ScheduledTime)}
	}
}

func (v *CalendarView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.confirmDeleteID
		name := v.confirmDeleteName
		v.mode = modeNormal
		return v, func() tea.Msg {
			if err := v.client.DeleteSchedule(context.Background(), id); err != nil {
				return opFailedMsg{err: err}
			}
			return opDoneMsg{notice: fmt.Sprintf("Deleted %s", name)}
		}
	case "n", "N", "esc":
		v.mode = modeNormal
		return v, nil
	}
	return v, nil
}

// startCreate opens the schedule form pre-filled from the cursor slot.
func (v *CalendarView) startCreate() {
	ids := make([]int64, 0, len(v.activities))
	for id := range v.activities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return v.activities[ids[i]].Name < v.activities[ids[j]].Name
	})

	date := textinput.New()
	date.CharLimit = 10
	date.SetValue(week.FormatDate(v.window.Day(v.cursorDay)))

	timeOfDay := textinput.New()
	timeOfDay.CharLimit = 5
	timeOfDay.SetValue(fmt.Sprintf("%02d:00", v.cursorHour))

	duration := textinput.New()
	duration.CharLimit = 4
	duration.SetValue("60")

	v.form = scheduleForm{
		activityIDs: ids,
		date:        date,
		timeOfDay:   timeOfDay,
		duration:    duration,
	}
	v.mode = modeCreating
}

func (v *CalendarView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &v.form
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		f.focusIdx = (f.focusIdx + 1) % 5
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if f.focusIdx < 4 {
			f.focusIdx++
			v.updateFormFocus()
			return v, nil
		}
		return v.submitCreate()
	}

	switch f.focusIdx {
	case 0:
		if key.Matches(msg, v.keys.Up) {
			f.activityCursor = clamp(f.activityCursor-1, 0, len(f.activityIDs)-1)
		} else if key.Matches(msg, v.keys.Down) {
			f.activityCursor = clamp(f.activityCursor+1, 0, len(f.activityIDs)-1)
		}
		return v, nil
	case 1:
		var cmd tea.Cmd
		f.date, cmd = f.date.Update(msg)
		return v, cmd
	case 2:
		var cmd tea.Cmd
		f.timeOfDay, cmd = f.timeOfDay.Update(msg)
		return v, cmd
	case 3:
		var cmd tea.Cmd
		f.duration, cmd = f.duration.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *CalendarView) updateFormFocus() {
	v.form.date.Blur()
	v.form.timeOfDay.Blur()
	v.form.duration.Blur()
	switch v.form.focusIdx {
	case 1:
		v.form.date.Focus()
	case 2:
		v.form.timeOfDay.Focus()
	case 3:
		v.form.duration.Focus()
	}
}

func (v *CalendarView) submitCreate() (tea.Model, tea.Cmd) {
	f := &v.form
	if len(f.activityIDs) == 0 {
		return v, v.setNotice(noticeError, "No activities available to schedule")
	}
	activity := v.activities[f.activityIDs[f.activityCursor]]

	if _, err := week.ParseDate(strings.TrimSpace(f.date.Value())); err != nil {
		return v, v.setNotice(noticeError, "Date must be YYYY-MM-DD")
	}
	if _, err := week.ParseHour(strings.TrimSpace(f.timeOfDay.Value())); err != nil {
		return v, v.setNotice(noticeError, "Time must be HH:MM")
	}
	duration, err := strconv.Atoi(strings.TrimSpace(f.duration.Value()))
	if err != nil || duration <= 0 {
		return v, v.setNotice(noticeError, "Duration must be a positive number of minutes")
	}

	req := models.ScheduleRequest{
		ActivityID:    activity.ID,
		ScheduledDate: strings.TrimSpace(f.date.Value()),
		ScheduledTime: strings.TrimSpace(f.timeOfDay.Value()),
		Duration:      duration,
	}
	v.mode = modeNormal
	return v, func() tea.Msg {
		if err := v.client.CreateSchedule(context.Background(), req); err != nil {
			return opFailedMsg{err: err}
		}
		return opDoneMsg{notice: fmt.Sprintf("Scheduled %s at %s %s", activity.Name, req.ScheduledDate, req.ScheduledTime)}
	}
}

// startReplicate opens the replicate form for a schedule. The weekday of
// the original is preselected for weekly replication.
func (v *CalendarView) startReplicate(s models.Schedule) {
	until := textinput.New()
	until.CharLimit = 10
	until.Placeholder = "YYYY-MM-DD"

	r := replicateForm{
		scheduleID:   s.ID,
		activityName: s.ActivityName,
		typeIdx:      1,
		until:        until,
	}
	if date, err := week.ParseDate(s.ScheduledDate); err == nil {
		offset := int(date.Weekday()) - 1
		if date.Weekday() == time.Sunday {
			offset = 6
		}
		r.days[offset] = true
		r.until.SetValue(week.FormatDate(date.AddDate(0, 1, 0)))
	}
	v.replicate = r
	v.mode = modeReplicating
}

func (v *CalendarView) updateReplicating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := &v.replicate
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeNormal
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		r.focusIdx = (r.focusIdx + 1) % 4
		if r.focusIdx == 1 {
			r.until.Focus()
		} else {
			r.until.Blur()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if r.focusIdx < 3 {
			r.focusIdx++
			if r.focusIdx == 1 {
				r.until.Focus()
			} else {
				r.until.Blur()
			}
			return v, nil
		}
		return v.submitReplicate()
	}

	switch r.focusIdx {
	case 0:
		if key.Matches(msg, v.keys.Left) || key.Matches(msg, v.keys.Up) {
			r.typeIdx = (r.typeIdx + 2) % 3
		} else if key.Matches(msg, v.keys.Right) || key.Matches(msg, v.keys.Down) {
			r.typeIdx = (r.typeIdx + 1) % 3
		}
		return v, nil
	case 1:
		var cmd tea.Cmd
		r.until, cmd = r.until.Update(msg)
		return v, cmd
	case 2:
		switch {
		case key.Matches(msg, v.keys.Left):
			r.dayCursor = clamp(r.dayCursor-1, 0, 6)
		case key.Matches(msg, v.keys.Right):
			r.dayCursor = clamp(r.dayCursor+1, 0, 6)
		case msg.String() == " ":
			r.days[r.dayCursor] = !r.days[r.dayCursor]
		}
		return v, nil
	}
	return v, nil
}

func (v *CalendarView) submitReplicate() (tea.Model, tea.Cmd) {
	r := &v.replicate
	if _, err := week.ParseDate(strings.TrimSpace(r.until.Value())); err != nil {
		return v, v.setNotice(noticeError, "Until date must be YYYY-MM-DD")
	}

	req := models.ReplicateRequest{
		Type:      replicateTypes[r.typeIdx],
		UntilDate: strings.TrimSpace(r.until.Value()),
	}
	if req.Type == "weekly" {
		for day, on := range r.days {
			if on {
				req.DaysOfWeek = append(req.DaysOfWeek, day)
			}
		}
	}
	id := r.scheduleID
	name := r.activityName
	v.mode = modeNormal
	return v, func() tea.Msg {
		res, err := v.client.ReplicateSchedule(context.Background(), id, req)
		if err != nil {
			return opFailedMsg{err: err}
		}
		return opDoneMsg{notice: fmt.Sprintf("Replicated %s: %d schedules created", name, res.CreatedCount)}
	}
}

// errorText prefers the server's own message over the fallback.
func errorText(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (v *CalendarView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	var overlay string
	switch v.mode {
	case modeCreating:
		overlay = v.renderCreateForm()
	case modeReplicating:
		overlay = v.renderReplicateForm()
	case modeConfirmDelete:
		overlay = v.renderDeleteConfirm()
	}
	if overlay != "" {
		contentWidth := styles.ContentWidth(v.width)
		centered := lipgloss.Place(contentWidth, v.height,
			lipgloss.Center, lipgloss.Center,
			overlay,
		)
		return styles.CenterView(centered, v.width, v.height)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.renderGrid(),
		v.renderStatusBar(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *CalendarView) renderHeader() string {
	s := v.styles
	title := fmt.Sprintf("Week %s – %s",
		week.FormatDate(v.window.Start()),
		week.FormatDate(v.window.End()))

	var hint string
	switch {
	case v.loading:
		hint = "loading…"
	case v.fromCache:
		hint = "cached " + v.fetchedAt.Local().Format("15:04")
	}
	if hint != "" {
		hint = "  " + s.TitleMuted.Render(hint)
	}

	return s.TitleBar.Render(s.Title.Render(title) + hint)
}

func (v *CalendarView) renderGrid() string {
	s := v.styles
	dayW := styles.DayColumnWidth(v.width)
	today := time.Now()

	headerCells := []string{s.HourLabel.Render("")}
	for day := 0; day < week.DaysPerWeek; day++ {
		date := v.window.Day(day)
		label := fmt.Sprintf("%s %02d/%02d", dayNames[day], date.Day(), int(date.Month()))
		style := s.DayHeader
		if sameDay(date, today) {
			style = s.DayHeaderToday
		}
		headerCells = append(headerCells, style.Width(dayW).Render(truncate(label, dayW)))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)}
	for hour := week.FirstHour; hour <= week.LastHour; hour++ {
		cells := []string{s.HourLabel.Render(fmt.Sprintf("%02d:00", hour))}
		for day := 0; day < week.DaysPerWeek; day++ {
			cells = append(cells, v.renderSlot(day, hour, dayW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderSlot draws one grid cell. Stacked fragments show the top one plus a
// count; continuation fragments are tinted 20% lighter than the category
// color so multi-hour schedules read as one block.
func (v *CalendarView) renderSlot(day, hour, width int) string {
	s := v.styles
	frags := v.grid.At(day, hour)
	underCursor := day == v.cursorDay && hour == v.cursorHour

	if len(frags) == 0 {
		style := s.SlotEmpty
		if underCursor {
			style = s.SlotCursor
			if v.mode == modeMoving {
				style = s.SlotMoveTarget
			}
		}
		return style.Width(width).Render(" ")
	}

	frag := frags[0]
	color := frag.Schedule.CategoryColor
	if color == "" {
		color = week.DefaultColor
	}

	var label string
	var style lipgloss.Style
	if frag.First {
		label = fmt.Sprintf("%s %s·%dm", frag.Schedule.ActivityName, frag.Schedule.ScheduledTime, frag.Schedule.Duration)
		style = lipgloss.NewStyle().
			Background(lipgloss.Color(color)).
			Foreground(lipgloss.Color("#ffffff"))
	} else {
		if frag.Last {
			label = "↳"
		} else {
			label = "│"
		}
		style = lipgloss.NewStyle().
			Background(lipgloss.Color(week.Lighten(color, 20))).
			Foreground(styles.Current.Background)
	}
	if len(frags) > 1 {
		label += fmt.Sprintf(" +%d", len(frags)-1)
	}
	if underCursor {
		style = style.Reverse(true).Bold(true)
	}
	return style.Width(width).Render(truncate(" "+label, width))
}

func (v *CalendarView) renderStatusBar() string {
	s := v.styles
	if v.notice != "" {
		style := s.NoticeInfo
		switch v.noticeKind {
		case noticeSuccess:
			style = s.NoticeSuccess
		case noticeError:
			style = s.NoticeError
		}
		return s.StatusBar.Render(style.Render(v.notice))
	}

	if v.mode == modeMoving && v.moving != nil {
		return s.StatusBar.Render(fmt.Sprintf(
			"Moving %s → %s %02d:00   %s drop  %s cancel",
			v.moving.ActivityName,
			week.FormatDate(v.window.Day(v.cursorDay)),
			v.cursorHour,
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("esc"),
		))
	}

	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 70 {
		return s.StatusBar.Render(s.HelpKey.Render("?") + " help")
	}
	return s.StatusBar.Render(fmt.Sprintf(
		"%s navigate • %s/%s week • %s today • %s new • %s move • %s replicate • %s del • %s quit",
		s.HelpKey.Render("↑↓←→"),
		s.HelpKey.Render("["), s.HelpKey.Render("]"),
		s.HelpKey.Render("t"),
		s.HelpKey.Render("n"),
		s.HelpKey.Render("m"),
		s.HelpKey.Render("r"),
		s.HelpKey.Render("d"),
		s.HelpKey.Render("q"),
	))
}

func (v *CalendarView) renderCreateForm() string {
	s := v.styles
	f := &v.form

	var picker string
	if len(f.activityIDs) == 0 {
		picker = s.TitleMuted.Render("No activities loaded")
	} else {
		var lines []string
		for i, id := range f.activityIDs {
			a := v.activities[id]
			line := fmt.Sprintf("%s  %s", a.CategoryName, a.Name)
			if i == f.activityCursor {
				dot := lipgloss.NewStyle().Foreground(lipgloss.Color(a.CategoryColor)).Render("●")
				lines = append(lines, s.ListSelected.Render(dot+" "+line))
			} else {
				lines = append(lines, s.ListItem.Render("  "+line))
			}
		}
		// Keep the picker short; the selected entry stays visible.
		start := clamp(f.activityCursor-2, 0, max(0, len(lines)-5))
		end := clamp(start+5, 0, len(lines))
		picker = strings.Join(lines[start:end], "\n")
	}

	inputStyle := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btn := s.Button
	if f.focusIdx == 4 {
		btn = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Schedule"),
		"",
		"Activity:",
		picker,
		"",
		"Date:",
		inputStyle(1).Render(f.date.View()),
		"Time:",
		inputStyle(2).Render(f.timeOfDay.View()),
		"Duration (min):",
		inputStyle(3).Render(f.duration.View()),
		"",
		btn.Render(" Schedule "),
		"",
		s.TitleMuted.Render("Tab: next • ↵: confirm • Esc: cancel"),
	)
	return s.Form.Render(form)
}

func (v *CalendarView) renderReplicateForm() string {
	s := v.styles
	r := &v.replicate

	var types []string
	for i, t := range replicateTypes {
		if i == r.typeIdx {
			types = append(types, s.ButtonPrimary.Render(" "+t+" "))
		} else {
			types = append(types, s.TitleMuted.Render(" "+t+" "))
		}
	}

	var days []string
	for i, name := range dayNames {
		label := name[:2]
		style := s.TitleMuted
		if r.days[i] {
			style = s.NoticeSuccess
		}
		if r.focusIdx == 2 && i == r.dayCursor {
			style = style.Underline(true)
		}
		days = append(days, style.Render(label))
	}

	untilStyle := s.Input
	if r.focusIdx == 1 {
		untilStyle = s.InputFocused
	}
	btn := s.Button
	if r.focusIdx == 3 {
		btn = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(fmt.Sprintf("Replicate %s", r.activityName)),
		"",
		"Repeat:",
		lipgloss.JoinHorizontal(lipgloss.Center, types...),
		"",
		"Until:",
		untilStyle.Render(r.until.View()),
		"",
		"Days (weekly, space toggles):",
		strings.Join(days, " "),
		"",
		btn.Render(" Replicate "),
		"",
		s.TitleMuted.Render("Tab: next • ↵: confirm • Esc: cancel"),
	)
	return s.Form.Render(form)
}

func (v *CalendarView) renderDeleteConfirm() string {
	s := v.styles
	return s.Form.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Schedule?"),
		"",
		s.TitleMuted.Render(v.confirmDeleteName),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	))
}

func (v *CalendarView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↑↓←→") + "   move cursor",
		s.HelpKey.Render("[ ]") + "    previous / next week",
		s.HelpKey.Render("t") + "      jump to today",
		s.HelpKey.Render("n") + "      schedule an activity",
		s.HelpKey.Render("m") + "      move schedule (↵ drop, esc cancel)",
		s.HelpKey.Render("r") + "      replicate schedule",
		s.HelpKey.Render("d") + "      delete schedule",
		s.HelpKey.Render("R") + "      refresh week",
		s.HelpKey.Render("↵") + "      schedule details",
		s.HelpKey.Render("1/2/3") + "  calendar / activities / history",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Form.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
