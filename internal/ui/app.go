package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justinpbarnett/logtree/internal/config"
	"github.com/justinpbarnett/logtree/internal/display"
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/layout"
	"github.com/justinpbarnett/logtree/internal/ui/panels"
	"github.com/justinpbarnett/logtree/internal/ui/styles"
)

const (
	panelTree    = 0
	panelValue   = 1
	panelConsole = 2
	numPanels    = 3
)

type App struct {
	hub          *feed.Hub
	inbox        *Inbox
	settings     *display.Settings
	width        int
	height       int
	layout       layout.Layout
	focusedPanel int
	showConsole  bool
	tree         panels.EntryTree
	value        panels.ValueView
	console      panels.Console
	statusBar    panels.StatusBar
	helpOverlay  *panels.HelpOverlay
	keys         KeyMap
	ready        bool
}

func NewApp(hub *feed.Hub, cfg *config.Config) App {
	settings := display.NewSettings(cfg.DisplayFormat())

	tree := panels.NewEntryTree()
	tree.SetFocused(true)

	value := panels.NewValueView(settings)
	value.SetScrollSpeed(cfg.View.ScrollSpeed)

	console := panels.NewConsole()
	console.SetScrollSpeed(cfg.View.ScrollSpeed)

	return App{
		hub:         hub,
		inbox:       NewInbox(),
		settings:    settings,
		showConsole: config.Enabled(cfg.View.ShowConsole),
		tree:        tree,
		value:       value,
		console:     console,
		statusBar:   panels.NewStatusBar(settings),
		keys:        DefaultKeyMap(),
	}
}

// Init mounts the view: both hub callbacks are registered, which flushes
// anything produced before the program started into the inbox.
func (a App) Init() tea.Cmd {
	a.hub.RegisterEntries(a.inbox.PushEntries)
	a.hub.RegisterRunInfo(a.inbox.PushRunInfo)
	return a.inbox.Next()
}

// Unmount detaches the view from the hub. Deliveries the view received but
// never applied go back to the hub, and later ones stay buffered there, for
// the next view that registers.
func (a App) Unmount() {
	a.hub.Unregister()

	var (
		entries    feed.TreeUpdate
		hasEntries bool
		info       logtree.RunInfo
		hasInfo    bool
	)
	for _, msg := range a.inbox.Close() {
		switch msg := msg.(type) {
		case EntriesMsg:
			if hasEntries {
				entries = feed.MergeTreeUpdates(entries, msg.TreeUpdate)
			} else {
				entries, hasEntries = msg.TreeUpdate, true
			}
		case RunInfoMsg:
			info, hasInfo = msg.Info, true
		}
	}
	if hasEntries {
		a.hub.RequeueEntries(entries)
	}
	if hasInfo {
		a.hub.RequeueRunInfo(info)
	}
}

// ReportError shows err in the status bar. Safe to call from any goroutine.
func (a App) ReportError(err error) {
	a.inbox.Push(IngestErrorMsg{Err: err})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.relayout()
		return a, nil

	case EntriesMsg:
		a.tree.Apply(msg.All, msg.NewExpanded, msg.UpdatedFrom)
		a.console.SetEntries(msg.Console)
		a.statusBar.SetEntryCount(len(msg.All))
		a.syncSelection()
		return a, a.inbox.Next()

	case RunInfoMsg:
		a.statusBar.SetRunInfo(msg.Info)
		return a, a.inbox.Next()

	case IngestErrorMsg:
		a.statusBar.SetFlashWithLevel(msg.Err.Error(), panels.FlashError)
		return a, tea.Batch(a.inbox.Next(), tea.Tick(panels.FlashDuration(), func(time.Time) tea.Msg {
			return ClearFlashMsg{}
		}))

	case ClearFlashMsg:
		a.statusBar.ClearFlash()
		return a, nil

	case CloseModalMsg:
		a.helpOverlay = nil
		return a, nil

	case panels.GTimerExpiredMsg:
		a.tree, _ = a.tree.Update(msg)
		a.value, _ = a.value.Update(msg)
		a.console, _ = a.console.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if a.helpOverlay != nil {
			var cmd tea.Cmd
			*a.helpOverlay, cmd = a.helpOverlay.Update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			a.Unmount()
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.helpOverlay = panels.NewHelpOverlay()
			return a, nil
		case key.Matches(msg, a.keys.FocusNext):
			a.cycleFocus(1)
			return a, nil
		case key.Matches(msg, a.keys.FocusPrev):
			a.cycleFocus(-1)
			return a, nil
		case key.Matches(msg, a.keys.Format):
			a.value.CycleFormat()
			return a, nil
		case key.Matches(msg, a.keys.ToggleConsole):
			a.showConsole = !a.showConsole
			if !a.showConsole && a.focusedPanel == panelConsole {
				a.focusedPanel = panelTree
			}
			a.updateFocusState()
			a.relayout()
			return a, nil
		}

		return a.routeKey(msg)
	}
	return a, nil
}

func (a App) View() string {
	if !a.ready {
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, "Loading...")
	}

	if a.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%d×%d)\nMinimum: %d×%d",
			a.width, a.height, layout.MinWidth, layout.MinHeight)
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, msg)
	}

	right := a.value.View()
	if a.showConsole {
		right = lipgloss.JoinVertical(lipgloss.Left, right, a.console.View())
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, a.tree.View(), right)
	full := lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())

	if a.helpOverlay != nil {
		full = lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, a.helpOverlay.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(styles.TextDim),
		)
	}
	return full
}

func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focusedPanel {
	case panelTree:
		a.tree, cmd = a.tree.Update(msg)
		a.syncSelection()
	case panelValue:
		a.value, cmd = a.value.Update(msg)
	case panelConsole:
		a.console, cmd = a.console.Update(msg)
	}
	return a, cmd
}

func (a *App) syncSelection() {
	a.value.SetEntry(a.tree.SelectedEntry())
}

func (a *App) cycleFocus(step int) {
	n := numPanels
	if !a.showConsole {
		n = panelConsole
	}
	a.focusedPanel = (a.focusedPanel + step + n) % n
	a.updateFocusState()
}

func (a *App) relayout() {
	a.layout = layout.Calculate(a.width, a.height, a.showConsole)
	l := a.layout
	a.tree.SetSize(l.TreeWidth, l.TreeHeight)
	a.value.SetSize(l.ValueWidth, l.ValueHeight)
	a.console.SetSize(l.ConsoleWidth, l.ConsoleHeight)
	a.statusBar.SetSize(l.StatusBarWidth)
}

func (a *App) updateFocusState() {
	a.tree.SetFocused(a.focusedPanel == panelTree)
	a.value.SetFocused(a.focusedPanel == panelValue)
	a.console.SetFocused(a.focusedPanel == panelConsole)
}
