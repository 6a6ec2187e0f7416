package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Text       lipgloss.Style
	Misspelled lipgloss.Style
	Cursor     lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:       lipgloss.NewStyle(),
		Misspelled: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Underline(true),
		Cursor:     lipgloss.NewStyle().Reverse(true),
	}
}
