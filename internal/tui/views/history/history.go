// Package history renders today's sessions as a navigable tree with the
// stress entries nested under each session.
package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/tui/theme"
)

// Model holds the session tree state.
type Model struct {
	Width    int
	sessions []*tracker.Session
	selected int
}

// New creates an empty history model.
func New() Model {
	return Model{}
}

// SetSessions replaces the displayed sessions, clamping the selection.
func (m *Model) SetSessions(sessions []*tracker.Session) {
	m.sessions = sessions
	if m.selected >= len(sessions) {
		m.selected = len(sessions) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Selected returns the highlighted session, or nil when the tree is empty.
func (m Model) Selected() *tracker.Session {
	if len(m.sessions) == 0 {
		return nil
	}
	return m.sessions[m.selected]
}

// MoveDown advances the selection, wrapping at the end.
func (m *Model) MoveDown() {
	if len(m.sessions) > 0 {
		m.selected = (m.selected + 1) % len(m.sessions)
	}
}

// MoveUp retreats the selection, wrapping at the start.
func (m *Model) MoveUp() {
	if len(m.sessions) > 0 {
		m.selected = (m.selected - 1 + len(m.sessions)) % len(m.sessions)
	}
}

// View renders the session tree.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Today")
	if len(m.sessions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  No sessions today"),
		)
	}

	lines := []string{header}
	for i, s := range m.sessions {
		lines = append(lines, m.renderSession(s, i == m.selected)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSession(s *tracker.Session, selected bool) []string {
	prefix := "  "
	style := theme.StyleDimmed
	if selected {
		prefix = "> "
		style = theme.StyleSelected
	}

	label := fmt.Sprintf("%d min", s.DurationMinutes)
	if s.Active {
		label = "active"
	}
	head := style.Render(fmt.Sprintf("%sSession %s (%s, %d entries)",
		prefix, s.StartedAt.Format("15:04"), label, len(s.Entries)))

	lines := []string{head}
	if !selected {
		return lines
	}

	for i, e := range s.Entries {
		branch := "├─"
		if i == len(s.Entries)-1 {
			branch = "└─"
		}
		entry := fmt.Sprintf("    %s %s %s",
			branch,
			e.Timestamp.Format("15:04"),
			lipgloss.NewStyle().Foreground(theme.LevelColor(e.Level)).Render(e.Level.String()))
		if e.Note != "" {
			entry += theme.StyleDimmed.Render("  " + e.Note)
		}
		lines = append(lines, entry)
	}
	return lines
}
