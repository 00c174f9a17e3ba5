package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Indicator labels
const (
	LabelLoadingModels = "Loading models..."
	LabelWorking       = "Working..."
)

// newSpinner returns the spinner shared by every loading indicator
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00d7ff"))
	return s
}

// Indicator renders the current spinner frame followed by label. It holds no
// state of its own; the frame comes from the caller's spinner.
func Indicator(s spinner.Model, label string) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Italic(true)
	return s.View() + " " + labelStyle.Render(label)
}
