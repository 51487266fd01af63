// Package style holds the lipgloss styles shared by the CLI and the TUI.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Title for screen and table headings
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	// Success for completed intents
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	// Error for failure text
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	// Dim for secondary columns and help
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	// Selected marks the highlighted row
	Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("12"))

	// Header for table column titles
	Header = lipgloss.NewStyle().
		Bold(true).
		Underline(true)

	// SuccessPrefix is the checkmark prefix for success messages
	SuccessPrefix = Success.Render("✓")

	// ErrorPrefix is the cross prefix for error messages
	ErrorPrefix = Error.Render("✗")
)

// RenderError renders a failure the way every screen shows it.
func RenderError(msg string) string {
	return Error.Render("Error: " + msg)
}
