package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/satellite"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(50)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	orbitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	escapingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")).Bold(true)
	crashedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
)

// statusBadge renders a satellite's condition, giving escape priority over
// plain orbiting since an escaping satellite is still flying.
func statusBadge(status satellite.Status, last orbit.Outcome) string {
	switch {
	case status == satellite.Crashed:
		return crashedStyle.Render("CRASHED")
	case last == orbit.Escaping:
		return escapingStyle.Render("ESCAPING")
	}
	return orbitingStyle.Render("ORBITING")
}

// ScaleBar renders a time-scale slider between the satellite clamp limits.
func ScaleBar(v float64, width int) string {
	ratio := (v - orbit.MinTimeScale) / (orbit.MaxTimeScale - orbit.MinTimeScale)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
