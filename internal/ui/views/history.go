package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"orgcal/internal/api"
	"orgcal/internal/models"
	"orgcal/internal/ui/keys"
	"orgcal/internal/ui/styles"
)

type historyLoadedMsg struct {
	records []models.ProgressRecord
	streak  *models.Streak
	stats   *models.DashboardStats
	points  *models.PointsBalance
}

type historyLoadFailedMsg struct {
	err error
}

// HistoryView shows the recent progress log together with the streak,
// points balance and dashboard counters.
type HistoryView struct {
	client *api.Client
	log    *zap.Logger
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	records []models.ProgressRecord
	streak  *models.Streak
	stats   *models.DashboardStats
	points  *models.PointsBalance
	loading bool

	cursor int
	offset int

	notice     string
	noticeKind noticeKind
	noticeSeq  int
}

func NewHistoryView(client *api.Client, logger *zap.Logger) *HistoryView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryView{
		client: client,
		log:    logger,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *HistoryView) Init() tea.Cmd {
	v.loading = true
	return v.load
}

// load fetches all four dashboard resources. A failure on the side panels
// is tolerated; only the progress list itself is required.
func (v *HistoryView) load() tea.Msg {
	ctx := context.Background()

	records, err := v.client.RecentProgress(ctx)
	if err != nil {
		v.log.Warn("history load failed", zap.Error(err))
		return historyLoadFailedMsg{err: err}
	}

	msg := historyLoadedMsg{records: records}
	if streak, err := v.client.Streak(ctx); err == nil {
		msg.streak = streak
	} else {
		v.log.Warn("streak load failed", zap.Error(err))
	}
	if stats, err := v.client.DashboardStats(ctx); err == nil {
		msg.stats = stats
	} else {
		v.log.Warn("stats load failed", zap.Error(err))
	}
	if points, err := v.client.Points(ctx); err == nil {
		msg.points = points
	} else {
		v.log.Warn("points load failed", zap.Error(err))
	}
	return msg
}

func (v *HistoryView) setNotice(kind noticeKind, text string) tea.Cmd {
	v.noticeSeq++
	seq := v.noticeSeq
	v.notice = text
	v.noticeKind = kind
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (v *HistoryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case historyLoadedMsg:
		v.loading = false
		v.records = msg.records
		v.streak = msg.streak
		v.stats = msg.stats
		v.points = msg.points
		v.cursor = clamp(v.cursor, 0, max(0, len(v.records)-1))
		return v, nil

	case historyLoadFailedMsg:
		v.loading = false
		return v, v.setNotice(noticeError, errorText(msg.err, "Could not load history"))

	case noticeExpiredMsg:
		if msg.seq == v.noticeSeq {
			v.notice = ""
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Up):
			v.cursor = clamp(v.cursor-1, 0, max(0, len(v.records)-1))
			return v, nil
		case key.Matches(msg, v.keys.Down):
			v.cursor = clamp(v.cursor+1, 0, max(0, len(v.records)-1))
			return v, nil
		case key.Matches(msg, v.keys.Refresh):
			v.loading = true
			return v, v.load
		}
	}
	return v, nil
}

func (v *HistoryView) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.renderSummary(),
		v.renderRecords(),
		v.renderStatusBar(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *HistoryView) renderHeader() string {
	s := v.styles
	var hint string
	if v.loading {
		hint = "  " + s.TitleMuted.Render("loading…")
	}
	return s.TitleBar.Render(s.Title.Render("History") + hint)
}

// renderSummary draws the streak / points / stats strip above the list.
func (v *HistoryView) renderSummary() string {
	s := v.styles

	var parts []string
	if v.streak != nil {
		text := fmt.Sprintf("🔥 %d day streak", v.streak.StreakCount)
		if v.streak.StreakCount == 1 {
			text = "🔥 1 day streak"
		}
		parts = append(parts, s.NoticeSuccess.Render(text))
	}
	if v.points != nil {
		parts = append(parts, s.Title.Render(fmt.Sprintf("★ %d pts", v.points.TotalPoints)))
	}
	if v.stats != nil {
		parts = append(parts, s.TitleMuted.Render(fmt.Sprintf(
			"%d/%d activities done • week %d%%",
			v.stats.CompletedActivities, v.stats.TotalActivities, v.stats.WeekProgress)))
	}
	if len(parts) == 0 {
		return ""
	}
	return s.StatusBar.Render(strings.Join(parts, "   "))
}

func (v *HistoryView) renderRecords() string {
	s := v.styles
	if len(v.records) == 0 {
		if v.loading {
			return s.List.Render(s.TitleMuted.Render("Loading history…"))
		}
		return s.List.Render(s.TitleMuted.Render("No progress logged yet."))
	}

	contentWidth := styles.ContentWidth(v.width)
	visible := max(5, v.height-7)
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}

	var lines []string
	for i := v.offset; i < len(v.records) && len(lines) < visible; i++ {
		r := v.records[i]

		var value string
		switch {
		case r.Completed && r.Value == 0:
			value = "done"
		case r.Unit != "":
			value = fmt.Sprintf("%.0f %s", r.Value, r.Unit)
		default:
			value = fmt.Sprintf("%.0f", r.Value)
		}

		line := fmt.Sprintf("%s  %-20s %s", r.Date, truncate(r.ActivityName, 20), value)
		if r.Notes != "" {
			line += "  " + s.TitleMuted.Render(truncate(r.Notes, 30))
		}
		if i == v.cursor {
			lines = append(lines, s.ListSelected.Render("▸ "+truncate(line, contentWidth-4)))
		} else {
			lines = append(lines, s.ListItem.Render("  "+truncate(line, contentWidth-4)))
		}
	}
	return s.List.Render(strings.Join(lines, "\n"))
}

func (v *HistoryView) renderStatusBar() string {
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
		"%s navigate • %s refresh • %s calendar • %s quit",
		s.HelpKey.Render("↑↓"),
		s.HelpKey.Render("R"),
		s.HelpKey.Render("1"),
		s.HelpKey.Render("q"),
	))
}
