package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

var (
	badgeBase = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	statusColors = map[domain.ExperimentStatus]lipgloss.Color{
		domain.StatusDraft:     lipgloss.Color("#737373"),
		domain.StatusRunning:   lipgloss.Color("#22c55e"),
		domain.StatusPaused:    lipgloss.Color("#eab308"),
		domain.StatusStopped:   lipgloss.Color("#ef4444"),
		domain.StatusCompleted: lipgloss.Color("#3b82f6"),
	}

	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3a3a3"))
)

// statusBadge renders a status as a colored label. Without a color terminal
// it degrades to the padded status name.
func statusBadge(s domain.ExperimentStatus) string {
	style := badgeBase
	if c, ok := statusColors[s]; ok {
		style = style.Foreground(c)
	}
	return style.Render(s.String())
}
