package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/display"
	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/styles"
	"github.com/justinpbarnett/logtree/internal/ui/text"
)

const flashDurationVal = 5 * time.Second

// Version is set via -ldflags at build time. Falls back to "dev".
var Version = "dev"

// FlashDuration returns how long the status bar flash is shown.
func FlashDuration() time.Duration { return flashDurationVal }

// FlashLevel controls the icon and color of a status bar flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashError
)

type StatusBar struct {
	width      int
	settings   *display.Settings
	info       logtree.RunInfo
	hasInfo    bool
	entries    int
	flash      string
	flashLevel FlashLevel
	flashUntil time.Time
}

func NewStatusBar(settings *display.Settings) StatusBar {
	return StatusBar{settings: settings}
}

func (s StatusBar) View() string {
	sep := styles.TextDimStyle.Render(" │ ")

	left := " " + styles.TextSecondaryStyle.Render("logtree "+Version)

	if !s.hasInfo {
		left += sep + styles.TextDimStyle.Render("waiting for log...")
	} else {
		desc := s.info.Description
		if desc == "" {
			desc = "(unnamed run)"
		}
		left += sep + styles.TextPrimaryStyle.Render(text.Truncate(desc, 32))
		left += sep + s.renderStatus()
		if s.info.Errors > 0 {
			errStyle := lipgloss.NewStyle().Foreground(styles.StatusError)
			left += sep + errStyle.Render(text.Count(s.info.Errors, "error", "errors"))
		}
	}
	left += sep + styles.TextSecondaryStyle.Render(text.Count(s.entries, "entry", "entries"))
	left += sep + styles.TextSecondaryStyle.Render("format: "+s.settings.Format().String())

	if s.flash != "" && time.Now().Before(s.flashUntil) {
		icon, color := "●", styles.StatusRunning
		if s.flashLevel == FlashError {
			icon, color = "✗", styles.StatusError
		}
		left += sep + lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon+" "+s.flash)
	}

	right := styles.TextSecondaryStyle.Render("?:help") + " "

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (s StatusBar) renderStatus() string {
	status := string(s.info.Status)
	if !s.info.Finished {
		status = "RUNNING"
	} else if status == "" {
		status = "DONE"
	}
	if s.info.EndDelta > 0 {
		status += fmt.Sprintf(" %s", text.FormatDelta(s.info.EndDelta))
	}
	color := styles.EntryStatusColor(s.info.Status, !s.info.Finished)
	return lipgloss.NewStyle().Foreground(color).Render(status)
}

func (s *StatusBar) SetRunInfo(info logtree.RunInfo) {
	s.info = info
	s.hasInfo = true
}

func (s *StatusBar) SetEntryCount(n int) {
	s.entries = n
}

func (s *StatusBar) SetFlash(msg string) {
	s.SetFlashWithLevel(msg, FlashInfo)
}

func (s *StatusBar) SetFlashWithLevel(msg string, level FlashLevel) {
	s.flash = msg
	s.flashLevel = level
	s.flashUntil = time.Now().Add(flashDurationVal)
}

func (s *StatusBar) ClearFlash() {
	s.flash = ""
	s.flashLevel = FlashInfo
	s.flashUntil = time.Time{}
}

func (s *StatusBar) SetSize(w int) {
	s.width = w
}
