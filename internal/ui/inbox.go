package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/logtree"
)

// Inbox hands hub deliveries to the Bubble Tea loop. Its Push methods are
// the registered hub callbacks: they never block, so the producer and the
// synchronous flush during registration cannot stall on the program.
// Next is the matching tea.Cmd that waits for the next message.
type Inbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []tea.Msg
	closed bool
}

func NewInbox() *Inbox {
	in := &Inbox{}
	in.cond = sync.NewCond(&in.mu)
	return in
}

// PushEntries queues a tree delivery. When the newest queued message is
// also a tree delivery the two are merged, so a slow view sees one update
// with every expansion hint instead of a backlog of stale snapshots.
func (in *Inbox) PushEntries(all []logtree.Entry, newExpanded []string, console []logtree.ConsoleEntry, updatedFrom int) {
	u := feed.TreeUpdate{All: all, NewExpanded: newExpanded, Console: console, UpdatedFrom: updatedFrom}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	if n := len(in.queue); n > 0 {
		if last, ok := in.queue[n-1].(EntriesMsg); ok {
			in.queue[n-1] = EntriesMsg{feed.MergeTreeUpdates(last.TreeUpdate, u)}
			return
		}
	}
	in.queue = append(in.queue, EntriesMsg{u})
	in.cond.Signal()
}

func (in *Inbox) PushRunInfo(info logtree.RunInfo) {
	in.Push(RunInfoMsg{Info: info})
}

// Push queues any message for the program.
func (in *Inbox) Push(msg tea.Msg) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.queue = append(in.queue, msg)
	in.cond.Signal()
}

// Next returns a command that blocks until a message is queued. After
// Close it yields nil.
func (in *Inbox) Next() tea.Cmd {
	return func() tea.Msg {
		in.mu.Lock()
		defer in.mu.Unlock()
		for len(in.queue) == 0 && !in.closed {
			in.cond.Wait()
		}
		if len(in.queue) == 0 {
			return nil
		}
		msg := in.queue[0]
		in.queue[0] = nil
		in.queue = in.queue[1:]
		return msg
	}
}

// Close releases any waiting Next and returns the messages that were never
// taken. Later pushes are dropped.
func (in *Inbox) Close() []tea.Msg {
	in.mu.Lock()
	left := in.queue
	in.closed = true
	in.queue = nil
	in.mu.Unlock()
	in.cond.Broadcast()
	return left
}

func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue)
}
