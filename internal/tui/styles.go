package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/WyattLamberth/garch/internal/config"
)

// Styles holds all the lipgloss styles
type Styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	separator lipgloss.Style
	statusBar lipgloss.Style
	help      lipgloss.Style
	errorText lipgloss.Style
	prompt    lipgloss.Style
	panel     lipgloss.Style
}

// createStyles initializes all lipgloss styles based on theme
func createStyles(theme config.Theme) *Styles {
	return &Styles{
		title: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Bold(true).
			Padding(0, 1),
		subtitle: lipgloss.NewStyle().
			Foreground(theme.UnchangedFg),
		separator: lipgloss.NewStyle().
			Foreground(theme.BorderFg),
		statusBar: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(theme.HelpFg).
			Italic(true),
		errorText: lipgloss.NewStyle().
			Foreground(theme.RemovedFg).
			Bold(true),
		prompt: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderFg).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderFg).
			Padding(0, 1),
	}
}
