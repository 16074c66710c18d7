package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/justinpbarnett/logtree/internal/config"
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/ingest"
)

const waitDuration = 3 * time.Second

const sampleLog = `V 0.0.2
T 2024-05-01T10:00:00Z
SR {"name":"Nightly robot"}
ST {"name":"Checkout task"}
SE {"name":"Open Browser","type":"METHOD"}
EA {"name":"url","type":"str","value":"'https://shop'"}
EE {"type":"METHOD","status":"PASS","time_delta":0.5}
AS {"name":"Get Cart","target":"cart","type":"list","value":"[1, 2]"}
C {"kind":"stderr","message":"cart is slow"}
SE {"name":"Click Buy","type":"METHOD"}
EE {"type":"METHOD","status":"FAIL","time_delta":1.0}
ET {"name":"Checkout task","status":"FAIL","time_delta":1.1}
ER {"name":"Nightly robot","status":"FAIL","time_delta":1.2}
`

func newTestApp(t *testing.T) (App, *feed.Hub) {
	t.Helper()
	return newTestAppWithHub(t, feed.NewHub())
}

func newTestAppWithHub(t *testing.T, hub *feed.Hub) (App, *feed.Hub) {
	t.Helper()
	cfg := config.DefaultConfig()
	a := NewApp(hub, &cfg)
	t.Cleanup(a.Unmount)
	return a, hub
}

// ingestSample runs the sample log through a real pipeline into hub.
func ingestSample(t *testing.T, hub *feed.Hub) {
	t.Helper()
	p := ingest.New(hub, strings.NewReader(sampleLog), ingest.Options{ExpandFailures: true, RunID: "test-run"})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("ingest: %v", err)
	}
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func sendKey(a App, key string) App {
	a, _ = update(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return a
}

func sendSpecialKey(a App, t tea.KeyType) App {
	a, _ = update(a, tea.KeyMsg{Type: t})
	return a
}

func sendWindowSize(a App, w, h int) App {
	a, _ = update(a, tea.WindowSizeMsg{Width: w, Height: h})
	return a
}

// drain runs cmd, which must be an inbox Next command with a message
// already queued, then feeds every remaining inbox message into the app.
func drain(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	a, _ = update(a, cmd())
	for a.inbox.Len() > 0 {
		a, _ = update(a, a.inbox.Next()())
	}
	return a
}

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
