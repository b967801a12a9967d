// ABOUTME: Fixes the lipgloss background answer before Bubble Tea's init can query the terminal
// ABOUTME: Import with _ ahead of any package that pulls in bubbletea

package termfix

import "github.com/charmbracelet/lipgloss"

func init() {
	// With an explicit background lipgloss never sends the OSC 10/11
	// queries whose late replies would show up as stray demo input.
	// This package must not import bubbletea so it initializes first.
	lipgloss.SetHasDarkBackground(true)
}
