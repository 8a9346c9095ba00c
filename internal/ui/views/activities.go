package views

import (
	"context"
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

type progressLoggedMsg struct {
	activityName string
	result       *models.ProgressResult
}

type progressFailedMsg struct {
	err error
}

// progressForm collects a progress entry for one activity. Which fields
// apply depends on the activity's measurement type: units takes a numeric
// value, percentage takes 0..100, boolean is a done/not-done toggle.
type progressForm struct {
	activity  models.Activity
	value     textinput.Model
	notes     textinput.Model
	completed bool
	focusIdx  int // 0=value (or toggle), 1=notes, 2=save
}

// ActivitiesView lists activities with their category color and progress,
// and hosts the log-progress form.
type ActivitiesView struct {
	client *api.Client
	cache  *cache.Cache
	log    *zap.Logger
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	activities []models.Activity
	fromCache  bool
	loading    bool
	cursor     int
	offset     int

	logging bool
	form    progressForm

	notice     string
	noticeKind noticeKind
	noticeSeq  int
}

func NewActivitiesView(client *api.Client, cch *cache.Cache, logger *zap.Logger) *ActivitiesView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivitiesView{
		client: client,
		cache:  cch,
		log:    logger,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

// Editing reports whether the progress form currently owns the keyboard.
func (v *ActivitiesView) Editing() bool {
	return v.logging
}

func (v *ActivitiesView) Init() tea.Cmd {
	v.loading = true
	return v.load
}

func (v *ActivitiesView) load() tea.Msg {
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

func (v *ActivitiesView) setNotice(kind noticeKind, text string) tea.Cmd {
	v.noticeSeq++
	seq := v.noticeSeq
	v.notice = text
	v.noticeKind = kind
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (v *ActivitiesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case activitiesLoadedMsg:
		v.loading = false
		v.fromCache = msg.fromCache
		v.activities = msg.activities
		sort.Slice(v.activities, func(i, j int) bool {
			a, b := v.activities[i], v.activities[j]
			if a.CategoryName != b.CategoryName {
				return a.CategoryName < b.CategoryName
			}
			return a.Name < b.Name
		})
		v.cursor = clamp(v.cursor, 0, max(0, len(v.activities)-1))
		if msg.fromCache {
			return v, v.setNotice(noticeInfo, "Server unreachable; showing cached activities")
		}
		return v, nil

	case activitiesLoadFailedMsg:
		v.loading = false
		return v, v.setNotice(noticeError, errorText(msg.err, "Could not load activities"))

	case progressLoggedMsg:
		// Reload so the progress bars reflect the new entry.
		var note string
		if msg.result != nil && msg.result.PointsEarned > 0 {
			note = fmt.Sprintf("Logged %s: +%d points", msg.activityName, msg.result.PointsEarned)
		} else {
			note = fmt.Sprintf("Logged progress for %s", msg.activityName)
		}
		return v, tea.Batch(v.setNotice(noticeSuccess, note), v.load)

	case progressFailedMsg:
		return v, v.setNotice(noticeError, errorText(msg.err, "Could not log progress"))

	case noticeExpiredMsg:
		if msg.seq == v.noticeSeq {
			v.notice = ""
		}
		return v, nil

	case tea.KeyMsg:
		if v.logging {
			return v.updateLogging(msg)
		}
		return v.updateList(msg)
	}
	return v, nil
}

func (v *ActivitiesView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Up):
		v.cursor = clamp(v.cursor-1, 0, max(0, len(v.activities)-1))
		return v, nil
	case key.Matches(msg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, 0, max(0, len(v.activities)-1))
		return v, nil
	case key.Matches(msg, v.keys.Refresh):
		v.loading = true
		return v, v.load
	case key.Matches(msg, v.keys.Progress), key.Matches(msg, v.keys.Enter):
		if len(v.activities) == 0 {
			return v, nil
		}
		v.startLogging(v.activities[v.cursor])
		return v, textinput.Blink
	}
	return v, nil
}

func (v *ActivitiesView) startLogging(a models.Activity) {
	value := textinput.New()
	value.CharLimit = 10
	if a.MeasurementType == "percentage" {
		value.Placeholder = "0-100"
	}

	notes := textinput.New()
	notes.CharLimit = 120
	notes.Placeholder = "optional"

	v.form = progressForm{activity: a, value: value, notes: notes}
	if a.MeasurementType != "boolean" {
		v.form.value.Focus()
	}
	v.logging = true
}

func (v *ActivitiesView) updateLogging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &v.form
	switch {
	case key.Matches(msg, v.keys.Back):
		v.logging = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		f.focusIdx = (f.focusIdx + 1) % 3
		v.updateLoggingFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if f.focusIdx < 2 {
			f.focusIdx++
			v.updateLoggingFocus()
			return v, nil
		}
		return v.submitProgress()
	}

	switch f.focusIdx {
	case 0:
		if f.activity.MeasurementType == "boolean" {
			if msg.String() == " " {
				f.completed = !f.completed
			}
			return v, nil
		}
		var cmd tea.Cmd
		f.value, cmd = f.value.Update(msg)
		return v, cmd
	case 1:
		var cmd tea.Cmd
		f.notes, cmd = f.notes.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *ActivitiesView) updateLoggingFocus() {
	v.form.value.Blur()
	v.form.notes.Blur()
	switch v.form.focusIdx {
	case 0:
		if v.form.activity.MeasurementType != "boolean" {
			v.form.value.Focus()
		}
	case 1:
		v.form.notes.Focus()
	}
}

func (v *ActivitiesView) submitProgress() (tea.Model, tea.Cmd) {
	f := &v.form
	a := f.activity

	entry := models.ProgressEntry{
		ActivityID:      a.ID,
		Date:            week.FormatDate(time.Now()),
		Notes:           strings.TrimSpace(f.notes.Value()),
		MeasurementType: a.MeasurementType,
	}

	switch a.MeasurementType {
	case "boolean":
		entry.Completed = f.completed
		if f.completed {
			entry.Value = 1
		}
	case "percentage":
		value, err := strconv.ParseFloat(strings.TrimSpace(f.value.Value()), 64)
		if err != nil || value < 0 || value > 100 {
			return v, v.setNotice(noticeError, "Percentage must be between 0 and 100")
		}
		entry.Value = value
		entry.Completed = value >= 100
	default: // units
		value, err := strconv.ParseFloat(strings.TrimSpace(f.value.Value()), 64)
		if err != nil || value <= 0 {
			return v, v.setNotice(noticeError, "Value must be a positive number")
		}
		entry.Value = value
		if a.TargetUnit != nil {
			entry.Unit = *a.TargetUnit
		}
		if a.TargetValue != nil && a.Progress+value >= *a.TargetValue {
			entry.Completed = true
		}
	}

	v.logging = false
	return v, func() tea.Msg {
		res, err := v.client.LogProgress(context.Background(), entry)
		if err != nil {
			return progressFailedMsg{err: err}
		}
		return progressLoggedMsg{activityName: a.Name, result: res}
	}
}

func (v *ActivitiesView) View() string {
	if v.logging {
		contentWidth := styles.ContentWidth(v.width)
		centered := lipgloss.Place(contentWidth, v.height,
			lipgloss.Center, lipgloss.Center,
			v.renderLogForm(),
		)
		return styles.CenterView(centered, v.width, v.height)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.renderList(),
		v.renderStatusBar(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *ActivitiesView) renderHeader() string {
	s := v.styles
	var hint string
	switch {
	case v.loading:
		hint = "  " + s.TitleMuted.Render("loading…")
	case v.fromCache:
		hint = "  " + s.TitleMuted.Render("cached")
	}
	return s.TitleBar.Render(s.Title.Render("Activities") + hint)
}

func (v *ActivitiesView) renderList() string {
	s := v.styles
	if len(v.activities) == 0 {
		if v.loading {
			return s.List.Render(s.TitleMuted.Render("Loading activities…"))
		}
		return s.List.Render(s.TitleMuted.Render("No activities. Create some on the server first."))
	}

	contentWidth := styles.ContentWidth(v.width)
	visible := max(5, v.height-6)
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}

	var lines []string
	lastCategory := ""
	for i := v.offset; i < len(v.activities) && len(lines) < visible; i++ {
		a := v.activities[i]
		if a.CategoryName != lastCategory {
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(a.CategoryColor)).Render("■")
			lines = append(lines, dot+" "+s.TitleMuted.Render(a.CategoryName))
			lastCategory = a.CategoryName
		}

		line := fmt.Sprintf("%s  %s %3.0f%%", a.Name, progressBar(a.ProgressPercentage, 12), a.ProgressPercentage)
		if target := targetText(a); target != "" {
			line += "  " + target
		}
		if i == v.cursor {
			lines = append(lines, s.ListSelected.Render("▸ "+truncate(line, contentWidth-4)))
		} else {
			lines = append(lines, s.ListItem.Render("  "+truncate(line, contentWidth-4)))
		}
	}
	return s.List.Render(strings.Join(lines, "\n"))
}

// targetText summarizes the activity's target by measurement type.
func targetText(a models.Activity) string {
	switch a.MeasurementType {
	case "units":
		if a.TargetValue == nil {
			return ""
		}
		unit := ""
		if a.TargetUnit != nil {
			unit = " " + *a.TargetUnit
		}
		return fmt.Sprintf("%.0f/%.0f%s", a.Progress, *a.TargetValue, unit)
	case "boolean":
		if a.ProgressPercentage >= 100 {
			return "done"
		}
		return "not done"
	}
	return ""
}

func progressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (v *ActivitiesView) renderLogForm() string {
	s := v.styles
	f := &v.form
	a := f.activity

	var valueField string
	switch a.MeasurementType {
	case "boolean":
		label := "[ ] not done"
		if f.completed {
			label = "[x] done"
		}
		style := s.TitleMuted
		if f.focusIdx == 0 {
			style = s.ListSelected
		}
		valueField = "Status (space toggles):\n" + style.Render(label)
	case "percentage":
		style := s.Input
		if f.focusIdx == 0 {
			style = s.InputFocused
		}
		valueField = "Progress (%):\n" + style.Render(f.value.View())
	default:
		style := s.Input
		if f.focusIdx == 0 {
			style = s.InputFocused
		}
		label := "Value"
		if a.TargetUnit != nil {
			label = fmt.Sprintf("Value (%s)", *a.TargetUnit)
		}
		valueField = label + ":\n" + style.Render(f.value.View())
	}

	notesStyle := s.Input
	if f.focusIdx == 1 {
		notesStyle = s.InputFocused
	}
	btn := s.Button
	if f.focusIdx == 2 {
		btn = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Log Progress – "+a.Name),
		"",
		valueField,
		"",
		"Notes:",
		notesStyle.Render(f.notes.View()),
		"",
		btn.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ↵: confirm • Esc: cancel"),
	)
	return s.Form.Render(form)
}

func (v *ActivitiesView) renderStatusBar() string {
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
	return s.StatusBar.Render(fmt.Sprintf(
		"%s navigate • %s log progress • %s refresh • %s calendar • %s quit",
		s.HelpKey.Render("↑↓"),
		s.HelpKey.Render("p"),
		s.HelpKey.Render("R"),
		s.HelpKey.Render("1"),
		s.HelpKey.Render("q"),
	))
}
