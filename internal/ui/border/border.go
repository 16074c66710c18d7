// Package border draws the rounded frames around panels. Titles sit in the
// top edge and keybind hints in the bottom edge of the focused panel.
package border

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/ui/styles"
)

const (
	cornerTL = "╭"
	cornerTR = "╮"
	cornerBL = "╰"
	cornerBR = "╯"
	horizBar = "─"
	vertBar  = "│"
)

// Keybind is one hint such as [f]ormat.
type Keybind struct {
	Key   string
	Label string
}

var (
	keyStyle   = lipgloss.NewStyle().Foreground(styles.KeybindKey).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(styles.KeybindLabel)
)

func RenderKeybind(kb Keybind) string {
	return keyStyle.Render("["+kb.Key+"]") + labelStyle.Render(kb.Label)
}

func edgeStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Foreground(styles.BorderFocused)
	}
	return lipgloss.NewStyle().Foreground(styles.BorderUnfocused)
}

// edge renders left + "─ " + inner + " " + fill + right, or a plain bar when
// inner is empty. inner is expected to fit in width-5 columns.
func edge(left, right, inner string, width int, focused bool) string {
	bs := edgeStyle(focused)
	if inner == "" {
		return bs.Render(left + strings.Repeat(horizBar, width-2) + right)
	}
	fill := max(width-5-lipgloss.Width(inner), 0)
	return bs.Render(left+horizBar+" ") + inner + bs.Render(" "+strings.Repeat(horizBar, fill)+right)
}

// RenderBorderTop renders ╭─ Title ─────╮.
func RenderBorderTop(title string, width int, focused bool) string {
	if width < 2 {
		return ""
	}
	if title == "" {
		return edge(cornerTL, cornerTR, "", width, focused)
	}
	ts := styles.TitleStyle
	if !focused {
		ts = styles.TextSecondaryStyle.Bold(true)
	}
	rendered := ts.Render(title)
	if room := width - 5; lipgloss.Width(rendered) > room {
		rendered = lipgloss.NewStyle().MaxWidth(max(room, 0)).Render(rendered)
	}
	return edge(cornerTL, cornerTR, rendered, width, focused)
}

// RenderBorderBottom renders ╰─ [f]ormat  [c]ollapse ─╯ for the focused
// panel. Hints that do not fit are dropped from the end.
func RenderBorderBottom(keybinds []Keybind, width int, focused bool) string {
	if width < 2 {
		return ""
	}
	if !focused || len(keybinds) == 0 {
		return edge(cornerBL, cornerBR, "", width, focused)
	}

	room := width - 5
	var parts []string
	used := 0
	for _, kb := range keybinds {
		r := RenderKeybind(kb)
		w := lipgloss.Width(r)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > room {
			break
		}
		parts = append(parts, r)
		used += w
	}
	if len(parts) == 0 {
		return edge(cornerBL, cornerBR, "", width, focused)
	}
	return edge(cornerBL, cornerBR, strings.Join(parts, "  "), width, focused)
}

// RenderBorderSides frames each content line with │, cropping or padding
// it to width-2 columns.
func RenderBorderSides(content string, width int, focused bool) string {
	if width < 2 {
		return content
	}
	bar := edgeStyle(focused).Render(vertBar)
	inner := width - 2
	crop := lipgloss.NewStyle().MaxWidth(inner)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > inner {
			line = crop.Render(line)
		}
		if gap := inner - lipgloss.Width(line); gap > 0 {
			line += strings.Repeat(" ", gap)
		}
		lines[i] = bar + line + bar
	}
	return strings.Join(lines, "\n")
}

// RenderPanel assembles a framed panel of exactly width x height cells.
func RenderPanel(title, content string, keybinds []Keybind, width, height int, focused bool) string {
	if height < 2 || width < 2 {
		return ""
	}
	innerHeight := height - 2

	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	parts := []string{RenderBorderTop(title, width, focused)}
	if innerHeight > 0 {
		parts = append(parts, RenderBorderSides(strings.Join(lines, "\n"), width, focused))
	}
	parts = append(parts, RenderBorderBottom(keybinds, width, focused))
	return strings.Join(parts, "\n")
}
