package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/border"
	"github.com/justinpbarnett/logtree/internal/ui/styles"
	"github.com/justinpbarnett/logtree/internal/ui/text"
)

// EntryTree shows the log entries as a collapsible tree.
type EntryTree struct {
	entries []logtree.Entry
	// labels caches the row text of every entry. Deliveries only rebuild
	// the rows from their UpdatedFrom index onward.
	labels   []string
	expanded map[string]bool
	visible  []int // indexes into entries, in display order

	selected int // position in visible
	offset   int
	width    int
	height   int
	focused  bool
	gtap     DoubleTap
}

func NewEntryTree() EntryTree {
	return EntryTree{
		expanded: make(map[string]bool),
		gtap:     NewDoubleTap(gTapIDTree),
	}
}

// Apply installs a tree delivery: the full entry snapshot, the ids to
// expand, and the index of the first entry that changed.
func (t *EntryTree) Apply(all []logtree.Entry, newExpanded []string, updatedFrom int) {
	selID := t.selectedID()

	for _, id := range newExpanded {
		t.expanded[id] = true
	}

	from := max(min(updatedFrom, len(t.labels), len(all)), 0)
	labels := make([]string, from, len(all))
	copy(labels, t.labels[:from])
	for i := from; i < len(all); i++ {
		labels = append(labels, rowLabel(all[i]))
	}
	t.entries = all
	t.labels = labels

	t.rebuild(selID)
}

func (t EntryTree) Update(msg tea.Msg) (EntryTree, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		t.gtap.HandleExpiry(msg)
		return t, nil
	case tea.KeyMsg:
		if msg.String() != "g" {
			t.gtap.Reset()
		}
		switch msg.String() {
		case "j", "down":
			t.moveTo(t.selected + 1)
		case "k", "up":
			t.moveTo(t.selected - 1)
		case "G":
			t.moveTo(len(t.visible) - 1)
		case "g":
			fired, cmd := t.gtap.Check()
			if fired {
				t.moveTo(0)
			}
			return t, cmd
		case "enter", " ":
			t.toggle()
		case "l", "right":
			t.expandOrDescend()
		case "h", "left":
			t.collapseOrAscend()
		case "e":
			t.ExpandAll()
		case "c":
			t.CollapseAll()
		}
	}
	return t, nil
}

func (t EntryTree) View() string {
	title := "Entries"
	if len(t.entries) > 0 {
		title = fmt.Sprintf("Entries (%d/%d)", len(t.visible), len(t.entries))
	}

	var keybinds []border.Keybind
	if t.focused {
		keybinds = []border.Keybind{
			{Key: "⏎", Label: " toggle"},
			{Key: "e", Label: "xpand all"},
			{Key: "c", Label: "ollapse all"},
			{Key: "G", Label: " bottom"},
			{Key: "g", Label: "g top"},
		}
	}

	return border.RenderPanel(title, t.renderRows(), keybinds, t.width, t.height, t.focused)
}

func (t EntryTree) renderRows() string {
	if len(t.entries) == 0 {
		return styles.TextDimStyle.Render("Waiting for log entries...")
	}

	width := max(t.width-2, 0)
	end := min(t.offset+t.visibleRows(), len(t.visible))

	var b strings.Builder
	for pos := t.offset; pos < end; pos++ {
		i := t.visible[pos]
		e := t.entries[i]

		marker := "  "
		if t.hasChildren(i) {
			marker = "▸ "
			if t.expanded[e.ID] {
				marker = "▾ "
			}
		}
		indent := strings.Repeat("  ", e.Depth)
		icon := statusIcon(e)

		if pos == t.selected {
			plain := text.Truncate(indent+marker+icon+" "+t.labels[i], width)
			b.WriteString(styles.SelectedRowStyle.Width(width).Render(plain))
		} else {
			iconStyle := lipgloss.NewStyle().Foreground(styles.EntryStatusColor(e.Status, e.Open))
			label := t.labels[i]
			if e.Type == logtree.EntryLog {
				label = lipgloss.NewStyle().Foreground(styles.LevelColor(e.Level)).Render(label)
			}
			b.WriteString(text.Truncate(indent+marker+iconStyle.Render(icon)+" "+label, width))
		}
		if pos < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (t *EntryTree) SetSize(w, h int) {
	t.width = w
	t.height = h
	t.scrollToSelection()
}

func (t *EntryTree) SetFocused(focused bool) {
	t.focused = focused
}

// SelectedEntry returns the entry under the cursor.
func (t EntryTree) SelectedEntry() (logtree.Entry, bool) {
	if t.selected < 0 || t.selected >= len(t.visible) {
		return logtree.Entry{}, false
	}
	return t.entries[t.visible[t.selected]], true
}

func (t EntryTree) Expanded(id string) bool { return t.expanded[id] }

func (t EntryTree) Len() int { return len(t.entries) }

func (t EntryTree) VisibleCount() int { return len(t.visible) }

func (t *EntryTree) ExpandAll() {
	selID := t.selectedID()
	for i, e := range t.entries {
		if t.hasChildren(i) {
			t.expanded[e.ID] = true
		}
	}
	t.rebuild(selID)
}

// CollapseAll folds every node. The cursor moves to the top-level entry
// that contained it.
func (t *EntryTree) CollapseAll() {
	selID, _, _ := strings.Cut(t.selectedID(), "-")
	clear(t.expanded)
	t.rebuild(selID)
}

func (t *EntryTree) toggle() {
	e, ok := t.SelectedEntry()
	if !ok || !t.hasChildren(t.visible[t.selected]) {
		return
	}
	t.expanded[e.ID] = !t.expanded[e.ID]
	t.rebuild(e.ID)
}

func (t *EntryTree) expandOrDescend() {
	e, ok := t.SelectedEntry()
	if !ok || !t.hasChildren(t.visible[t.selected]) {
		return
	}
	if t.expanded[e.ID] {
		t.moveTo(t.selected + 1)
		return
	}
	t.expanded[e.ID] = true
	t.rebuild(e.ID)
}

func (t *EntryTree) collapseOrAscend() {
	e, ok := t.SelectedEntry()
	if !ok {
		return
	}
	if t.expanded[e.ID] && t.hasChildren(t.visible[t.selected]) {
		t.expanded[e.ID] = false
		t.rebuild(e.ID)
		return
	}
	if e.Parent != "" {
		t.rebuild(e.Parent)
	}
}

// rebuild recomputes the visible rows and puts the cursor back on selID
// when it is still visible.
func (t *EntryTree) rebuild(selID string) {
	open := make(map[string]bool)
	visible := make([]int, 0, len(t.entries))
	for i, e := range t.entries {
		if e.Hidden || (e.Parent != "" && !open[e.Parent]) {
			continue
		}
		visible = append(visible, i)
		if t.expanded[e.ID] {
			open[e.ID] = true
		}
	}
	t.visible = visible

	if selID != "" {
		for pos, i := range t.visible {
			if t.entries[i].ID == selID {
				t.selected = pos
				break
			}
		}
	}
	t.moveTo(t.selected)
}

func (t *EntryTree) moveTo(pos int) {
	t.selected = max(min(pos, len(t.visible)-1), 0)
	t.scrollToSelection()
}

func (t *EntryTree) scrollToSelection() {
	rows := t.visibleRows()
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+rows {
		t.offset = t.selected - rows + 1
	}
	t.offset = max(min(t.offset, len(t.visible)-rows), 0)
}

func (t EntryTree) visibleRows() int {
	return max(t.height-2, 1)
}

func (t EntryTree) selectedID() string {
	if e, ok := t.SelectedEntry(); ok {
		return e.ID
	}
	return ""
}

// hasChildren reports whether entry i has a child that is not hidden.
func (t EntryTree) hasChildren(i int) bool {
	prefix := t.entries[i].ID + "-"
	for j := i + 1; j < len(t.entries) && strings.HasPrefix(t.entries[j].ID, prefix); j++ {
		if t.entries[j].Parent == t.entries[i].ID && !t.entries[j].Hidden {
			return true
		}
	}
	return false
}

func statusIcon(e logtree.Entry) string {
	switch {
	case e.Status == logtree.StatusPass:
		return "✓"
	case e.Status.Failed():
		return "✗"
	case e.Status == logtree.StatusNotRun:
		return "○"
	case e.Open:
		return "…"
	default:
		return "•"
	}
}

func rowLabel(e logtree.Entry) string {
	label := strings.ReplaceAll(e.Label(), "\n", " ")
	if e.Type == logtree.EntryElement && e.Kind != "" && e.Kind != "METHOD" {
		label = strings.ToLower(e.Kind) + " " + label
	}
	if !e.Open && e.EndDelta > e.StartDelta {
		label += " (" + text.FormatDelta(e.EndDelta-e.StartDelta) + ")"
	}
	return label
}
