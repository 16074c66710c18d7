package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/border"
	"github.com/justinpbarnett/logtree/internal/ui/styles"
	"github.com/justinpbarnett/logtree/internal/ui/text"
)

// Console shows the stdout/stderr captured during the run. It sticks to
// the bottom while new output arrives unless the user scrolled up.
type Console struct {
	viewport    viewport.Model
	entries     []logtree.ConsoleEntry
	follow      bool
	width       int
	height      int
	focused     bool
	scrollSpeed int
	gtap        DoubleTap
}

func NewConsole() Console {
	return Console{
		viewport:    viewport.New(0, 0),
		follow:      true,
		scrollSpeed: 3,
		gtap:        NewDoubleTap(gTapIDConsole),
	}
}

func (c Console) Update(msg tea.Msg) (Console, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		c.gtap.HandleExpiry(msg)
		return c, nil
	case tea.KeyMsg:
		if msg.String() != "g" {
			c.gtap.Reset()
		}
		switch msg.String() {
		case "G":
			c.follow = true
			c.viewport.GotoBottom()
			return c, nil
		case "g":
			fired, cmd := c.gtap.Check()
			if fired {
				c.follow = false
				c.viewport.GotoTop()
			}
			return c, cmd
		case "j", "down":
			c.viewport.SetYOffset(c.viewport.YOffset + c.scrollSpeed)
			c.follow = c.viewport.AtBottom()
			return c, nil
		case "k", "up":
			c.follow = false
			c.viewport.SetYOffset(max(c.viewport.YOffset-c.scrollSpeed, 0))
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

func (c Console) View() string {
	title := "Console"
	if n := len(c.entries); n > 0 {
		title += " (" + text.Count(n, "line", "lines") + ")"
	}

	var keybinds []border.Keybind
	if c.focused {
		keybinds = []border.Keybind{
			{Key: "G", Label: " bottom"},
			{Key: "g", Label: "g top"},
		}
		if !c.follow && !c.viewport.AtBottom() {
			keybinds = append(keybinds, border.Keybind{Key: "↓", Label: " new output"})
		}
	}

	content := styles.TextDimStyle.Render("No console output")
	if len(c.entries) > 0 {
		content = c.viewport.View()
	}
	return border.RenderPanel(title, content, keybinds, c.width, c.height, c.focused)
}

// SetEntries replaces the console snapshot.
func (c *Console) SetEntries(entries []logtree.ConsoleEntry) {
	c.entries = entries
	c.refreshContent()
}

func (c *Console) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.viewport.Width = max(w-2, 0)
	c.viewport.Height = max(h-2, 0)
	c.refreshContent()
}

func (c *Console) SetFocused(focused bool) {
	c.focused = focused
}

func (c *Console) SetScrollSpeed(speed int) {
	if speed > 0 {
		c.scrollSpeed = speed
	}
}

func (c *Console) refreshContent() {
	c.viewport.SetContent(c.renderContent())
	if c.follow {
		c.viewport.GotoBottom()
	}
}

func (c Console) renderContent() string {
	var b strings.Builder
	for i, e := range c.entries {
		style := styles.ConsoleStdoutStyle
		if e.Kind == logtree.ConsoleStderr {
			style = styles.ConsoleStderrStyle
		}
		msg := text.Wrap(strings.TrimRight(e.Message, "\n"), c.viewport.Width)
		for j, line := range strings.Split(msg, "\n") {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(style.Render(line))
		}
		if i < len(c.entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
