package core

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner renders the greeting shown when an interactive session starts.
func (s *Shell) Banner(version string) string {
	lines := []string{
		"Solix Custom Shell",
		"Version " + version,
		"",
		"Built-in commands: " + strings.Join(s.Builtins.Names(), ", "),
		"Type 'help' for more information",
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		Padding(0, 2).
		Align(lipgloss.Center)

	if s.colorEnabled() {
		style = style.
			Bold(true).
			Foreground(lipgloss.Color("12")).
			BorderForeground(lipgloss.Color("12"))
	}

	return style.Render(strings.Join(lines, "\n"))
}
