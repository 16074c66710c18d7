// Package feed connects the ingestion pipeline to the view. A Hub owns one
// coalescing mailbox per payload kind: the entry tree and the run metadata.
package feed

import (
	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/mailbox"
)

// TreeUpdate is one delivery of the entry tree. All and Console are full
// snapshots; UpdatedFrom is the earliest index of All that changed since
// the previous delivery.
type TreeUpdate struct {
	All         []logtree.Entry
	NewExpanded []string
	Console     []logtree.ConsoleEntry
	UpdatedFrom int
}

// EntriesFunc receives entry-tree deliveries.
type EntriesFunc func(all []logtree.Entry, newExpanded []string, console []logtree.ConsoleEntry, updatedFrom int)

// RunInfoFunc receives run metadata deliveries.
type RunInfoFunc func(info logtree.RunInfo)

// MergeTreeUpdates folds incoming into a pending update that has not been
// delivered yet: snapshots are replaced, expansion hints are concatenated,
// and the dirty index keeps the earliest position.
func MergeTreeUpdates(pending, incoming TreeUpdate) TreeUpdate {
	expanded := make([]string, 0, len(pending.NewExpanded)+len(incoming.NewExpanded))
	expanded = append(expanded, pending.NewExpanded...)
	expanded = append(expanded, incoming.NewExpanded...)

	return TreeUpdate{
		All:         incoming.All,
		NewExpanded: expanded,
		Console:     incoming.Console,
		UpdatedFrom: min(pending.UpdatedFrom, incoming.UpdatedFrom),
	}
}

// Hub is created once at startup and shared by the producer and the view.
type Hub struct {
	entries *mailbox.Mailbox[TreeUpdate]
	runInfo *mailbox.Mailbox[logtree.RunInfo]
}

// NewHub returns a hub with both mailboxes empty and no view registered.
func NewHub() *Hub {
	return &Hub{
		entries: mailbox.New[TreeUpdate](MergeTreeUpdates),
		runInfo: mailbox.New[logtree.RunInfo](mailbox.Replace[logtree.RunInfo]),
	}
}

// DeliverEntries forwards a tree update to the registered view, or buffers
// it until one registers. A negative updatedFrom is treated as 0.
func (h *Hub) DeliverEntries(all []logtree.Entry, newExpanded []string, console []logtree.ConsoleEntry, updatedFrom int) {
	if updatedFrom < 0 {
		updatedFrom = 0
	}
	h.entries.Deliver(TreeUpdate{
		All:         all,
		NewExpanded: newExpanded,
		Console:     console,
		UpdatedFrom: updatedFrom,
	})
}

// RegisterEntries installs fn as the entry-tree consumer and flushes any
// buffered update into it before returning.
func (h *Hub) RegisterEntries(fn EntriesFunc) {
	if fn == nil {
		h.entries.Register(nil)
		return
	}
	h.entries.Register(func(u TreeUpdate) {
		fn(u.All, u.NewExpanded, u.Console, u.UpdatedFrom)
	})
}

// UnregisterEntries detaches the entry-tree consumer. Later tree updates
// are buffered and merged again.
func (h *Hub) UnregisterEntries() { h.entries.Unregister() }

// DeliverRunInfo forwards run metadata to the registered view, or keeps the
// latest value until one registers.
func (h *Hub) DeliverRunInfo(info logtree.RunInfo) {
	h.runInfo.Deliver(info)
}

// RegisterRunInfo installs fn as the run-info consumer and flushes any
// buffered value into it before returning.
func (h *Hub) RegisterRunInfo(fn RunInfoFunc) {
	h.runInfo.Register(fn)
}

// UnregisterRunInfo detaches the run-info consumer.
func (h *Hub) UnregisterRunInfo() { h.runInfo.Unregister() }

// RequeueEntries returns an update a departed view never applied. Hints
// and the dirty index survive; a newer snapshot buffered since wins.
func (h *Hub) RequeueEntries(u TreeUpdate) { h.entries.Requeue(u) }

// RequeueRunInfo returns run info a departed view never applied. A newer
// value buffered since wins.
func (h *Hub) RequeueRunInfo(info logtree.RunInfo) { h.runInfo.Requeue(info) }

// Unregister detaches both consumers, as done when the view unmounts.
func (h *Hub) Unregister() {
	h.UnregisterEntries()
	h.UnregisterRunInfo()
}

// PendingEntries exposes the buffered tree update, if any.
func (h *Hub) PendingEntries() (TreeUpdate, bool) { return h.entries.Pending() }

// PendingRunInfo exposes the buffered run info, if any.
func (h *Hub) PendingRunInfo() (logtree.RunInfo, bool) { return h.runInfo.Pending() }

// EntriesState reports the entry-tree mailbox's lifecycle position.
func (h *Hub) EntriesState() mailbox.State { return h.entries.State() }

// RunInfoState reports the run-info mailbox's lifecycle position.
func (h *Hub) RunInfoState() mailbox.State { return h.runInfo.State() }
