package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/logtree"
)

// Semantic colors as AdaptiveColor{Light, Dark}
var (
	BorderFocused   = lipgloss.AdaptiveColor{Light: "#2e5cb8", Dark: "#7aa2f7"}
	BorderUnfocused = lipgloss.AdaptiveColor{Light: "#c0c0c0", Dark: "#3b4261"}
	TitleText       = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	KeybindKey      = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	KeybindLabel    = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	TextPrimary     = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	TextSecondary   = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	TextDim         = lipgloss.AdaptiveColor{Light: "#b0b0b0", Dark: "#3b4261"}

	StatusRunning = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	StatusSuccess = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#9ece6a"}
	StatusError   = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f7768e"}
	StatusWarning = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	StatusPending = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}

	SelectedRowBg = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#292e42"}

	ValueType = lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#bb9af7"}
)

// EntryStatusColor returns the color for an entry or run status. Open
// entries without a status are shown as running.
func EntryStatusColor(status logtree.Status, open bool) lipgloss.AdaptiveColor {
	switch status {
	case logtree.StatusPass:
		return StatusSuccess
	case logtree.StatusFail, logtree.StatusError:
		return StatusError
	case logtree.StatusNotRun:
		return StatusPending
	}
	if open {
		return StatusRunning
	}
	return TextDim
}

// LevelColor maps a log level letter (I, W, E, ...) to a color.
func LevelColor(level string) lipgloss.AdaptiveColor {
	switch level {
	case "E", "ERROR", "FAIL":
		return StatusError
	case "W", "WARN", "WARNING":
		return StatusWarning
	case "D", "DEBUG", "T", "TRACE":
		return TextSecondary
	default:
		return TextPrimary
	}
}
