package panels

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/justinpbarnett/logtree/internal/decode"
	"github.com/justinpbarnett/logtree/internal/logtree"
)

// panelAdapter wraps panel types that use typed Update signatures into
// a proper tea.Model so they can be used with teatest.
type panelAdapter struct {
	view     func() string
	updateFn func(tea.Msg) tea.Cmd
}

func (a panelAdapter) Init() tea.Cmd                           { return nil }
func (a panelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return a, a.updateFn(msg) }
func (a panelAdapter) View() string                            { return a.view() }

func wrapEntryTree(et *EntryTree) tea.Model {
	return panelAdapter{
		view: func() string { return et.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			next, cmd := et.Update(msg)
			*et = next
			return cmd
		},
	}
}

func wrapValueView(v *ValueView) tea.Model {
	return panelAdapter{
		view: func() string { return v.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			next, cmd := v.Update(msg)
			*v = next
			return cmd
		},
	}
}

func wrapHelpOverlay(h *HelpOverlay) tea.Model {
	return panelAdapter{
		view: func() string { return h.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			next, cmd := h.Update(msg)
			*h = next
			return cmd
		},
	}
}

// waitDuration is the standard timeout for WaitFor calls in tests.
const waitDuration = 3 * time.Second

// waitForContains waits until the output contains the given substring.
func waitForContains(tb testing.TB, tm *teatest.TestModel, substr string) {
	tb.Helper()
	teatest.WaitFor(
		tb,
		tm.Output(),
		func(bts []byte) bool { return bytes.Contains(bts, []byte(substr)) },
		teatest.WithDuration(waitDuration),
	)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// sampleLog is a small run: one task with a passing and a failing method.
var sampleLog = []string{
	`SR {"name":"robot"}`,
	`ST {"name":"Checkout task"}`,
	`SE {"name":"Open Browser","libname":"browser","type":"METHOD"}`,
	`L {"level":"I","message":"opened"}`,
	`EE {"type":"METHOD","status":"PASS","time_delta":1.5}`,
	`SE {"name":"Click Buy","type":"METHOD"}`,
	`EE {"type":"METHOD","status":"FAIL"}`,
	`ET {"name":"Checkout task","status":"FAIL"}`,
	`ER {"name":"robot","status":"FAIL"}`,
}

func buildBatch(lines ...string) logtree.Batch {
	b := logtree.NewBuilder("test", true)
	for i, l := range lines {
		b.Apply(decode.ParseLine(i+1, l))
	}
	return b.Flush()
}
