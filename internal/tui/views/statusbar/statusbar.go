// Package statusbar renders the top bar: connection state, current stress
// level, active session duration and today's coding total.
package statusbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/tui/theme"
)

// Model holds the status bar state.
type Model struct {
	Connected      bool
	Level          tracker.Level
	SessionActive  bool
	SessionMinutes int
	TodayMinutes   int
	Width          int
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Connected")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Connecting...")
	}

	levelStr := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.LevelColor(m.Level)).
		Render(theme.LevelGlyph(m.Level) + " " + m.Level.String())

	var sessionStr string
	if m.SessionActive {
		sessionStr = fmt.Sprintf("session %dm", m.SessionMinutes)
	} else {
		sessionStr = theme.StyleDimmed.Render("no session")
	}

	todayStr := fmt.Sprintf("today %dm", m.TodayMinutes)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + levelStr + sep + sessionStr + sep + todayStr

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
