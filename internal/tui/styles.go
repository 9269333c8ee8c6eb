package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135")).
			MarginBottom(1)

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	activeFilterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("91")).
				Background(lipgloss.Color("225")).
				Padding(0, 1)
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(1, 2)
)
