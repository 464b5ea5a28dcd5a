// Package summary renders the daily summary overlay. The report is built
// as Markdown and rendered with Glamour.
package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/tui/theme"
)

const panelWidth = 64

// Model holds the summary overlay state.
type Model struct {
	snapshot *tracker.Snapshot
}

// New creates a summary model for the given snapshot.
func New(snapshot *tracker.Snapshot) Model {
	return Model{snapshot: snapshot}
}

// View renders the overlay. Returns an empty string if no snapshot is set.
func (m Model) View() string {
	if m.snapshot == nil {
		return ""
	}

	md := buildMarkdown(m.snapshot)
	body, err := renderMarkdown(md)
	if err != nil {
		body = md
	}

	footer := theme.StyleDimmed.Render("[esc] close")
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Padding(0, 1).
		Width(panelWidth).
		Render(body + "\n" + footer)
}

// buildMarkdown assembles the daily report.
func buildMarkdown(s *tracker.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Summary\n\n")
	fmt.Fprintf(&b, "Current stress: **%s**\n\n", s.Level)

	fmt.Fprintf(&b, "## Today\n\n")
	fmt.Fprintf(&b, "- Coding time: **%d min**\n", s.TodayTotalMinutes)
	fmt.Fprintf(&b, "- Sessions: %d\n", len(s.TodaysSessions))
	fmt.Fprintf(&b, "- Entries: %d\n\n", len(s.TodaysEntries))

	if s.CurrentSession != nil {
		fmt.Fprintf(&b, "Active session running for %d min.\n\n", s.CurrentDurationMinutes)
	}

	fmt.Fprintf(&b, "## Completed Sessions\n\n")
	if s.Stats.Total == 0 {
		fmt.Fprintf(&b, "None yet.\n")
	} else {
		fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Count | %d |\n", s.Stats.Total)
		fmt.Fprintf(&b, "| Average | %d min |\n", s.Stats.AverageMinutes)
		fmt.Fprintf(&b, "| Longest | %d min |\n", s.Stats.LongestMinutes)
	}

	return b.String()
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(panelWidth-4),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
