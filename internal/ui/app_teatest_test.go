package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/justinpbarnett/logtree/internal/mailbox"
)

func TestFullAppRendersIngestedRun(t *testing.T) {
	a, hub := newTestApp(t)
	tm := teatest.NewTestModel(t, a, teatest.WithInitialTermSize(120, 40))

	// Whether the program has mounted yet or not, the run must show up.
	ingestSample(t, hub)

	waitForContains(t, tm, "Click Buy")
	waitForContains(t, tm, "Nightly robot")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(waitDuration))

	if hub.EntriesState() == mailbox.StateRegistered {
		t.Error("expected view unregistered after quit")
	}
}

func TestFullAppHelpOverlay(t *testing.T) {
	a, _ := newTestApp(t)
	tm := teatest.NewTestModel(t, a, teatest.WithInitialTermSize(120, 40))

	waitForContains(t, tm, "Waiting for log entries")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	waitForContains(t, tm, "Keybinds")

	if err := tm.Quit(); err != nil {
		t.Fatal(err)
	}
	tm.WaitFinished(t, teatest.WithFinalTimeout(waitDuration))
}
