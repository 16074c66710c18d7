package text

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate cuts s to maxWidth columns, ending with "…" when something was
// dropped. Escape codes do not count toward the width.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// PadRight pads s with spaces to width columns. Wider strings are returned as is.
func PadRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Wrap hard-wraps every line of s at width columns, keeping leading
// indentation so pretty-printed values stay aligned.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Hardwrap(s, width, true)
}

// FormatDelta renders a number of seconds as "850ms", "4.2s" or "3m07s".
func FormatDelta(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 1:
		return fmt.Sprintf("%dms", int(seconds*1000))
	case seconds < 60:
		return fmt.Sprintf("%.1fs", seconds)
	default:
		total := int(seconds)
		return fmt.Sprintf("%dm%02ds", total/60, total%60)
	}
}

// Count renders n with a singular or plural noun: "1 entry", "3 entries".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
