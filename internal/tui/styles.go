package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Cursor    lipgloss.Style
	Done      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Form      lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("39")),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Done:      lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("242")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Form:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
	}
}
