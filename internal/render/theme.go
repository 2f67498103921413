package render

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the renderers.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Playing lipgloss.Style
	Queued  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

var (
	primary   = lipgloss.Color("#a78bfa")
	secondary = lipgloss.Color("#f1a208")
	fgBase    = lipgloss.Color("#c0c0c0")
	fgMuted   = lipgloss.Color("#808080")
	success   = lipgloss.Color("#22c55e")
	danger    = lipgloss.Color("#ef4444")
)

var defaultStyles = Styles{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(primary),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(fgBase),
	Muted:   lipgloss.NewStyle().Foreground(fgMuted),
	Playing: lipgloss.NewStyle().Bold(true).Foreground(primary),
	Queued:  lipgloss.NewStyle().Foreground(secondary),
	Error:   lipgloss.NewStyle().Foreground(danger),
	Success: lipgloss.NewStyle().Foreground(success),
}

// S returns the default styles.
func S() Styles {
	return defaultStyles
}
