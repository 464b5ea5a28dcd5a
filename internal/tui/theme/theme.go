// Package theme provides the Lip Gloss color palette and reusable styles
// for the strain TUI. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/strain-dev/strain/internal/tracker"
)

// Stress level colors.
var (
	ColorLow    = lipgloss.Color("#22c55e")
	ColorMedium = lipgloss.Color("#d97706")
	ColorHigh   = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#3b82f6")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// LevelColor returns the color for a stress level.
func LevelColor(level tracker.Level) lipgloss.Color {
	switch level {
	case tracker.LevelHigh:
		return ColorHigh
	case tracker.LevelMedium:
		return ColorMedium
	default:
		return ColorLow
	}
}

// LevelGlyph returns a glyph representing a stress level.
func LevelGlyph(level tracker.Level) string {
	switch level {
	case tracker.LevelHigh:
		return "▲"
	case tracker.LevelMedium:
		return "◆"
	default:
		return "●"
	}
}

// GaugeColor returns the color for a gauge fill fraction.
func GaugeColor(pct float64) lipgloss.Color {
	switch {
	case pct > 0.7:
		return ColorHigh
	case pct > 0.35:
		return ColorMedium
	default:
		return ColorLow
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)
)
