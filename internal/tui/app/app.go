// Package app holds the root Bubble Tea model for the strain TUI.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/strain-dev/strain/internal/client"
	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/tui/theme"
	"github.com/strain-dev/strain/internal/tui/views/gauge"
	"github.com/strain-dev/strain/internal/tui/views/history"
	"github.com/strain-dev/strain/internal/tui/views/statusbar"
	"github.com/strain-dev/strain/internal/tui/views/summary"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlaySummary
)

// actionDoneMsg reports the result of an HTTP mutation.
type actionDoneMsg struct{ err error }

// Model is the root Bubble Tea model.
type Model struct {
	ws     *client.WSClient
	http   *client.HTTPClient
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	snapshot *tracker.Snapshot
	overlay  Overlay
	flash    string

	// Sub-views.
	statusBar statusbar.Model
	gauge     gauge.Model
	history   history.Model

	// Connection state.
	connected bool
}

// New creates the root model.
func New(ws *client.WSClient, http *client.HTTPClient) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ws:        ws,
		http:      http,
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		statusBar: statusbar.New(),
		gauge:     gauge.New(),
		history:   history.New(),
	}
}

// Init starts the WebSocket connection.
func (m Model) Init() tea.Cmd {
	return m.ws.Listen(m.ctx)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.gauge.Width = msg.Width
		m.history.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case client.WSConnectedMsg:
		m.connected = true
		m.statusBar.Connected = true
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSDisconnectedMsg:
		m.connected = false
		m.statusBar.Connected = false
		return m, m.ws.Listen(m.ctx)

	case client.WSSnapshotMsg:
		state := msg.State
		cmd := m.applySnapshot(&state)
		return m, tea.Batch(cmd, m.ws.ReadLoop(m.ctx))

	case client.WSLevelChangeMsg:
		m.statusBar.Level = msg.Payload.Level
		cmd := m.gauge.SetLevel(msg.Payload.Level)
		return m, tea.Batch(cmd, m.ws.ReadLoop(m.ctx))

	case client.WSSessionClosedMsg:
		m.flash = fmt.Sprintf("Session ended (%d min)", msg.Session.DurationMinutes)
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSErrorMsg:
		return m, m.ws.ReadLoop(m.ctx)

	case gauge.FrameMsg:
		var cmd tea.Cmd
		m.gauge, cmd = m.gauge.Update(msg)
		return m, cmd

	case actionDoneMsg:
		if msg.err != nil {
			m.flash = "Error: " + msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// applySnapshot pushes tracker state into the sub-views.
func (m *Model) applySnapshot(s *tracker.Snapshot) tea.Cmd {
	m.snapshot = s
	m.statusBar.Level = s.Level
	m.statusBar.SessionActive = s.CurrentSession != nil
	m.statusBar.SessionMinutes = s.CurrentDurationMinutes
	m.statusBar.TodayMinutes = s.TodayTotalMinutes
	m.history.SetSessions(s.TodaysSessions)
	return m.gauge.SetLevel(s.Level)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	if m.overlay != OverlayNone {
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.overlay = OverlayNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.history.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.history.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.ReportLow):
		return m, m.report(tracker.LevelLow)

	case key.Matches(msg, m.keys.ReportMedium):
		return m, m.report(tracker.LevelMedium)

	case key.Matches(msg, m.keys.ReportHigh):
		return m, m.report(tracker.LevelHigh)

	case key.Matches(msg, m.keys.Start):
		return m, func() tea.Msg {
			_, err := m.http.StartSession()
			return actionDoneMsg{err: err}
		}

	case key.Matches(msg, m.keys.End):
		return m, func() tea.Msg {
			return actionDoneMsg{err: m.http.EndSession()}
		}

	case key.Matches(msg, m.keys.Summary):
		m.overlay = OverlaySummary
		return m, nil
	}

	return m, nil
}

func (m Model) report(level tracker.Level) tea.Cmd {
	return func() tea.Msg {
		_, err := m.http.Report(level, "")
		return actionDoneMsg{err: err}
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	if m.overlay == OverlaySummary {
		body = summary.New(m.snapshot).View()
	} else {
		body = m.history.View()
	}

	sections := []string{
		m.statusBar.View(),
		m.gauge.View(),
		body,
	}

	if m.flash != "" {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.ColorMedium).Render("  "+m.flash))
	}

	sections = append(sections, theme.StyleDimmed.Render(
		"  1/2/3:report  s:start  e:end  j/k:navigate  enter:summary  q:quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
