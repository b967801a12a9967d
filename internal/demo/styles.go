// ABOUTME: Lipgloss styles for the demo page and its overlay bodies
// ABOUTME: Boxed renders a bordered block and splits it into component lines

package demo

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the demo palette.
type Styles struct {
	Title    lipgloss.Style
	Trigger  lipgloss.Style
	Focused  lipgloss.Style
	Box      lipgloss.Style
	Closing  lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Status   lipgloss.Style
}

// DefaultStyles returns the demo palette.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Trigger:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Focused:  lipgloss.NewStyle().Reverse(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		Closing:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Faint(true).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Dim:      lipgloss.NewStyle().Faint(true),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// boxed renders body inside style and returns the resulting lines.
func boxed(style lipgloss.Style, body string) []string {
	return strings.Split(style.Render(body), "\n")
}
