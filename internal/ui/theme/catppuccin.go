package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red)

	// Progress grid cells.
	Answered = lipgloss.NewStyle().Foreground(Base).Background(Green).Padding(0, 1)
	Current  = lipgloss.NewStyle().Foreground(Base).Background(Peach).Bold(true).Padding(0, 1)
	Pending  = lipgloss.NewStyle().Foreground(Text).Background(Surface0).Padding(0, 1)
)

// TimerStyle colours the remaining time as it runs low.
func TimerStyle(remainingFraction float64) lipgloss.Style {
	switch {
	case remainingFraction <= 0.1:
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case remainingFraction <= 0.25:
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Green)
	}
}
