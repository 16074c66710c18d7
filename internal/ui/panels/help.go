package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/ui/border"
	"github.com/justinpbarnett/logtree/internal/ui/styles"
)

type HelpOverlay struct {
	width  int
	height int
}

func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		width:  46,
		height: 22,
	}
}

func (h HelpOverlay) Update(msg tea.Msg) (HelpOverlay, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return CloseModalMsg{} }
		}
	}
	return h, nil
}

func (h HelpOverlay) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.KeybindKey).Bold(true)
	sectionStyle := styles.TitleStyle

	kv := func(key, desc string) string {
		return "  " + keyStyle.Render(key) + "  " + styles.TextPrimaryStyle.Render(desc)
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Navigation") + "\n")
	b.WriteString(kv("j/k", "Move / scroll up and down") + "\n")
	b.WriteString(kv("G/gg", "Jump to bottom/top") + "\n")
	b.WriteString(kv("Tab", "Cycle panel focus") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Entries") + "\n")
	b.WriteString(kv("⏎/Space", "Expand or collapse") + "\n")
	b.WriteString(kv("l/h", "Expand / go to parent") + "\n")
	b.WriteString(kv("e", "Expand all") + "\n")
	b.WriteString(kv("c", "Collapse all") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("View") + "\n")
	b.WriteString(kv("f", "Cycle value format (auto/raw/pretty)") + "\n")
	b.WriteString(kv("o", "Toggle console panel") + "\n")
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Global") + "\n")
	b.WriteString(kv("?", "Toggle this help") + "\n")
	b.WriteString(kv("q", "Quit") + "\n")
	b.WriteString(kv("Esc", "Close help"))

	bottomKb := []border.Keybind{{Key: "?", Label: " close"}, {Key: "Esc", Label: " close"}}
	return border.RenderPanel("Keybinds", b.String(), bottomKb, h.width, h.height, true)
}
