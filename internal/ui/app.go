// Package ui wires the calendar, activities and history views into one
// program model and routes messages between them.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"orgcal/internal/api"
	"orgcal/internal/cache"
	"orgcal/internal/ui/keys"
	"orgcal/internal/ui/views"
)

type viewID int

const (
	viewCalendar viewID = iota
	viewActivities
	viewHistory
)

// editor is implemented by views whose forms capture the keyboard; while
// editing, the global view-switch keys are passed through as text.
type editor interface {
	Editing() bool
}

// App is the root model. The calendar is the home view; activities and
// history are initialized lazily on first visit.
type App struct {
	views       [3]tea.Model
	initialized [3]bool
	active      viewID
	keys        keys.KeyMap
	width       int
	height      int
}

func NewApp(client *api.Client, cch *cache.Cache, logger *zap.Logger) *App {
	return &App{
		views: [3]tea.Model{
			views.NewCalendarView(client, cch, logger),
			views.NewActivitiesView(client, cch, logger),
			views.NewHistoryView(client, logger),
		},
		keys: keys.DefaultKeyMap(),
	}
}

func (a *App) Init() tea.Cmd {
	a.initialized[viewCalendar] = true
	return a.views[viewCalendar].Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Every view keeps its own copy of the terminal size.
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		for i := range a.views {
			model, cmd := a.views[i].Update(msg)
			a.views[i] = model
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if !a.editing() {
			switch {
			case key.Matches(msg, a.keys.Calendar):
				return a, a.switchTo(viewCalendar)
			case key.Matches(msg, a.keys.Activities):
				return a, a.switchTo(viewActivities)
			case key.Matches(msg, a.keys.History):
				return a, a.switchTo(viewHistory)
			}
		}
	}

	model, cmd := a.views[a.active].Update(msg)
	a.views[a.active] = model
	return a, cmd
}

func (a *App) editing() bool {
	if e, ok := a.views[a.active].(editor); ok {
		return e.Editing()
	}
	return false
}

// switchTo activates a view, running its Init on first visit so its data
// loads on demand rather than at startup.
func (a *App) switchTo(id viewID) tea.Cmd {
	if a.active == id {
		return nil
	}
	a.active = id
	if !a.initialized[id] {
		a.initialized[id] = true
		var cmds []tea.Cmd
		if a.width > 0 {
			model, cmd := a.views[id].Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
			a.views[id] = model
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, a.views[id].Init())
		return tea.Batch(cmds...)
	}
	return nil
}

func (a *App) View() string {
	return a.views[a.active].View()
}
