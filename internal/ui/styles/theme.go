package styles

import "github.com/charmbracelet/lipgloss"

// Common reusable styles built from the color tokens.
var (
	TextPrimaryStyle   = lipgloss.NewStyle().Foreground(TextPrimary)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(TextSecondary)
	TextDimStyle       = lipgloss.NewStyle().Foreground(TextDim)
	TitleStyle         = lipgloss.NewStyle().Foreground(TitleText).Bold(true)
	SelectedRowStyle   = lipgloss.NewStyle().Background(SelectedRowBg)
	ValueTypeStyle     = lipgloss.NewStyle().Foreground(ValueType)

	// Console output: stderr is drawn in the error color.
	ConsoleStdoutStyle = lipgloss.NewStyle().Foreground(TextPrimary)
	ConsoleStderrStyle = lipgloss.NewStyle().Foreground(StatusError)
)
