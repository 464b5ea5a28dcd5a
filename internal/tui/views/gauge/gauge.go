// Package gauge renders an animated stress gauge. A damped spring eases
// the fill toward the target whenever the stress level changes.
package gauge

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/tui/theme"
)

const (
	fps           = 30
	springFreq    = 6.0
	springDamping = 0.8
	settleEpsilon = 0.002
)

// Gauge fill targets per stress level.
var levelTargets = map[tracker.Level]float64{
	tracker.LevelLow:    0.15,
	tracker.LevelMedium: 0.5,
	tracker.LevelHigh:   0.9,
}

// FrameMsg advances the gauge animation by one frame.
type FrameMsg time.Time

// Model holds the animated gauge state.
type Model struct {
	Width int

	level  tracker.Level
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// New creates a gauge resting at the low level position.
func New() Model {
	return Model{
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFreq, springDamping),
		pos:    levelTargets[tracker.LevelLow],
		target: levelTargets[tracker.LevelLow],
	}
}

// SetLevel retargets the gauge. The returned command starts the animation
// when the gauge was at rest; it is nil when nothing changes.
func (m *Model) SetLevel(level tracker.Level) tea.Cmd {
	m.level = level
	target := levelTargets[level]
	if target == m.target {
		return nil
	}
	wasSettled := m.settled()
	m.target = target
	if wasSettled {
		return frame()
	}
	return nil
}

// Update advances the spring on animation frames and schedules the next
// frame until the gauge settles.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok {
		return m, nil
	}
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
	if m.settled() {
		m.pos = m.target
		m.vel = 0
		return m, nil
	}
	return m, frame()
}

// View renders the gauge bar with a percentage label.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}
	barWidth := width - 14
	if barWidth < 10 {
		barWidth = 10
	}

	pct := math.Max(0, math.Min(m.pos, 1))
	filled := int(pct * float64(barWidth))
	empty := barWidth - filled

	color := theme.GaugeColor(pct)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	bar += lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", empty))
	label := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf(" %3.0f%%", pct*100))

	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render("strain " + bar + label)
}

func (m Model) settled() bool {
	return math.Abs(m.pos-m.target) < settleEpsilon && math.Abs(m.vel) < settleEpsilon
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
