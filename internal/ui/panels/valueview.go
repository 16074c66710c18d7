package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/display"
	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/border"
	"github.com/justinpbarnett/logtree/internal/ui/styles"
	"github.com/justinpbarnett/logtree/internal/ui/text"
)

// ValueView shows the details and value of the selected entry, rendered
// through the shared display settings.
type ValueView struct {
	viewport    viewport.Model
	settings    *display.Settings
	entry       logtree.Entry
	hasEntry    bool
	width       int
	height      int
	focused     bool
	scrollSpeed int
	gtap        DoubleTap
}

func NewValueView(settings *display.Settings) ValueView {
	return ValueView{
		viewport:    viewport.New(0, 0),
		settings:    settings,
		scrollSpeed: 3,
		gtap:        NewDoubleTap(gTapIDValue),
	}
}

func (v ValueView) Update(msg tea.Msg) (ValueView, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		v.gtap.HandleExpiry(msg)
		return v, nil
	case tea.KeyMsg:
		if msg.String() != "g" {
			v.gtap.Reset()
		}
		switch msg.String() {
		case "f":
			v.CycleFormat()
			return v, nil
		case "j", "down":
			v.viewport.SetYOffset(v.viewport.YOffset + v.scrollSpeed)
			return v, nil
		case "k", "up":
			v.viewport.SetYOffset(max(v.viewport.YOffset-v.scrollSpeed, 0))
			return v, nil
		case "G":
			v.viewport.GotoBottom()
			return v, nil
		case "g":
			fired, cmd := v.gtap.Check()
			if fired {
				v.viewport.GotoTop()
			}
			return v, cmd
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v ValueView) View() string {
	title := "Value [" + v.settings.Format().String() + "]"

	var keybinds []border.Keybind
	if v.focused {
		keybinds = []border.Keybind{
			{Key: "f", Label: "ormat"},
			{Key: "G", Label: " bottom"},
			{Key: "g", Label: "g top"},
		}
	}

	content := styles.TextDimStyle.Render("No entry selected")
	if v.hasEntry {
		content = v.viewport.View()
	}
	return border.RenderPanel(title, content, keybinds, v.width, v.height, v.focused)
}

// SetEntry shows e. The scroll position is kept while the same entry is
// refreshed by a new delivery.
func (v *ValueView) SetEntry(e logtree.Entry, ok bool) {
	same := ok && v.hasEntry && e.ID == v.entry.ID
	v.entry = e
	v.hasEntry = ok
	v.refreshContent()
	if !same {
		v.viewport.GotoTop()
	}
}

// CycleFormat switches to the next display format and re-renders.
func (v *ValueView) CycleFormat() display.Format {
	f := v.settings.Cycle()
	v.refreshContent()
	return f
}

// Refresh re-renders after the shared settings changed elsewhere.
func (v *ValueView) Refresh() {
	v.refreshContent()
}

func (v *ValueView) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.viewport.Width = max(w-2, 0)
	v.viewport.Height = max(h-2, 0)
	v.refreshContent()
}

func (v *ValueView) SetFocused(focused bool) {
	v.focused = focused
}

func (v *ValueView) SetScrollSpeed(speed int) {
	if speed > 0 {
		v.scrollSpeed = speed
	}
}

// Content returns the rendered body without the frame.
func (v ValueView) Content() string {
	return v.renderContent()
}

func (v *ValueView) refreshContent() {
	v.viewport.SetContent(v.renderContent())
}

func (v ValueView) renderContent() string {
	if !v.hasEntry {
		return ""
	}
	e := v.entry
	f := v.settings.Format()
	width := v.viewport.Width
	keyStyle := styles.TextSecondaryStyle
	valStyle := styles.TextPrimaryStyle

	var b strings.Builder
	field := func(key, val string) {
		if val != "" {
			fmt.Fprintf(&b, "%s %s\n", keyStyle.Render(key+":"), valStyle.Render(val))
		}
	}

	kind := string(e.Type)
	if e.Kind != "" {
		kind += " / " + strings.ToLower(e.Kind)
	}
	field("Type", kind)
	field("Name", e.Name)
	field("Library", e.Libname)
	if e.Source != "" {
		field("Source", fmt.Sprintf("%s:%d", e.Source, e.Lineno))
	}
	if e.Status != logtree.StatusUnset {
		st := lipgloss.NewStyle().Foreground(styles.EntryStatusColor(e.Status, e.Open))
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Status:"), st.Render(string(e.Status)))
	}
	if !e.Open && e.EndDelta > e.StartDelta {
		field("Duration", text.FormatDelta(e.EndDelta-e.StartDelta))
	}
	field("Level", e.Level)
	field("Target", e.Target)
	field("Tags", strings.Join(e.Tags, ", "))

	if len(e.Args) > 0 {
		b.WriteString("\n" + styles.TitleStyle.Render("Arguments") + "\n")
		for _, a := range e.Args {
			head := a.Name
			if a.Type != "" {
				head += " " + styles.ValueTypeStyle.Render("("+a.Type+")")
			}
			b.WriteString(head + " = " + display.Render(f, a.Value) + "\n")
		}
	}

	if val := e.Text(); val != "" {
		heading := "Value"
		if e.ValueType != "" {
			heading += " " + styles.ValueTypeStyle.Render("("+e.ValueType+")")
		}
		b.WriteString("\n" + styles.TitleStyle.Render(heading) + "\n")
		b.WriteString(display.Render(f, val))
	}

	return text.Wrap(strings.TrimRight(b.String(), "\n"), width)
}
