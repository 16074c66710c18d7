package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/justinpbarnett/logtree/internal/decode"
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/logtree"
)

const sampleLog = `V 0.0.2
T 2024-05-01T10:00:00Z
SR {"name":"robot"}
ST {"name":"task one"}
SE {"name":"open","type":"METHOD"}
EA {"name":"url","type":"str","value":"'x'"}
EE {"type":"METHOD","status":"PASS"}
SE {"name":"click","type":"METHOD"}
EE {"type":"METHOD","status":"FAIL"}
C {"kind":"stdout","message":"hello"}
ET {"name":"task one","status":"FAIL"}
ER {"name":"robot","status":"FAIL"}
`

// recorder collects hub deliveries; callbacks arrive on the pipeline goroutine.
type recorder struct {
	mu    sync.Mutex
	calls []feed.TreeUpdate
	infos []logtree.RunInfo
}

func (r *recorder) entries(all []logtree.Entry, newExpanded []string, console []logtree.ConsoleEntry, updatedFrom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, feed.TreeUpdate{All: all, NewExpanded: newExpanded, Console: console, UpdatedFrom: updatedFrom})
}

func (r *recorder) runInfo(info logtree.RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, info)
}

func (r *recorder) snapshot() ([]feed.TreeUpdate, []logtree.RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]feed.TreeUpdate(nil), r.calls...), append([]logtree.RunInfo(nil), r.infos...)
}

func TestPipelineBuffersUntilViewRegisters(t *testing.T) {
	t.Parallel()
	hub := feed.NewHub()
	p := New(hub, strings.NewReader(sampleLog), Options{BatchSize: 1, ExpandFailures: true})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	rec := &recorder{}
	hub.RegisterEntries(rec.entries)
	hub.RegisterRunInfo(rec.runInfo)

	calls, infos := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected one merged delivery on register, got %d", len(calls))
	}
	u := calls[0]
	if len(u.All) != 4 {
		t.Errorf("expected 4 entries, got %d", len(u.All))
	}
	if u.UpdatedFrom != 0 {
		t.Errorf("expected merged dirty index 0, got %d", u.UpdatedFrom)
	}
	if len(u.Console) != 1 || u.Console[0].Message != "hello" {
		t.Errorf("expected console snapshot, got %+v", u.Console)
	}
	for _, id := range []string{"0-0", "0-0-1"} {
		if !contains(u.NewExpanded, id) {
			t.Errorf("expected hint %q in %v", id, u.NewExpanded)
		}
	}

	if len(infos) != 1 {
		t.Fatalf("expected one run info delivery, got %d", len(infos))
	}
	if infos[0].Status != logtree.StatusFail || !infos[0].Finished {
		t.Errorf("expected finished failing run, got %+v", infos[0])
	}
}

func TestPipelineForwardsToRegisteredView(t *testing.T) {
	t.Parallel()
	hub := feed.NewHub()
	rec := &recorder{}
	hub.RegisterEntries(rec.entries)
	hub.RegisterRunInfo(rec.runInfo)

	p := New(hub, strings.NewReader(sampleLog), Options{BatchSize: 2})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	calls, infos := rec.snapshot()
	if len(calls) == 0 {
		t.Fatal("expected deliveries")
	}
	last := calls[len(calls)-1]
	if len(last.All) != 4 {
		t.Errorf("expected final snapshot of 4 entries, got %d", len(last.All))
	}
	if _, ok := hub.PendingEntries(); ok {
		t.Error("expected nothing buffered while a view is registered")
	}
	if len(infos) == 0 || infos[len(infos)-1].Description != "robot" {
		t.Errorf("expected run description delivered, got %+v", infos)
	}
}

func TestPipelineUnsupportedVersion(t *testing.T) {
	t.Parallel()
	hub := feed.NewHub()
	p := New(hub, strings.NewReader("V 2.0.0\nSR {\"name\":\"r\"}\n"), Options{})

	err := p.Run(context.Background())
	if !errors.Is(err, decode.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}

	u, ok := hub.PendingEntries()
	if !ok || len(u.All) != 1 || u.All[0].Type != logtree.EntryError {
		t.Fatalf("expected a single error entry to be delivered, got %+v", u)
	}
	info, ok := hub.PendingRunInfo()
	if !ok || info.Errors != 1 {
		t.Errorf("expected run info with one error, got %+v", info)
	}
}

func TestPipelineEmptyInputStillDelivers(t *testing.T) {
	t.Parallel()
	hub := feed.NewHub()
	p := New(hub, strings.NewReader(""), Options{})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, ok := hub.PendingEntries(); !ok {
		t.Error("expected an empty tree delivery")
	}
	info, ok := hub.PendingRunInfo()
	if !ok || info.ID != p.RunID() {
		t.Errorf("expected run info carrying the session id, got %+v", info)
	}
}

func TestPipelineRunIDIsUUID(t *testing.T) {
	t.Parallel()
	p := New(feed.NewHub(), strings.NewReader(""), Options{})
	if _, err := uuid.Parse(p.RunID()); err != nil {
		t.Errorf("expected uuid run id, got %q: %v", p.RunID(), err)
	}

	named := New(feed.NewHub(), strings.NewReader(""), Options{RunID: "fixed"})
	if named.RunID() != "fixed" {
		t.Errorf("expected explicit run id, got %q", named.RunID())
	}
}

func TestPipelineFollowsGrowingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	if err := os.WriteFile(path, []byte("V 0.0.2\nSR {\"name\":\"robot\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := OpenSource(ctx, path, true, 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	hub := feed.NewHub()
	rec := &recorder{}
	hub.RegisterEntries(rec.entries)

	done := make(chan error, 1)
	go func() { done <- New(hub, src, Options{}).Run(ctx) }()

	waitForEntries(t, rec, 1)

	wf, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	wf.WriteString("L {\"level\":\"I\",\"message\":\"later\"}\n")
	wf.Close()

	waitForEntries(t, rec, 2)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean stop on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop after cancel")
	}
}

func waitForEntries(t *testing.T, rec *recorder, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		calls, _ := rec.snapshot()
		if len(calls) > 0 && len(calls[len(calls)-1].All) >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d entries", n)
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}
