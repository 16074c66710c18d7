package ui

import (
	"github.com/justinpbarnett/logtree/internal/feed"
	"github.com/justinpbarnett/logtree/internal/logtree"
	"github.com/justinpbarnett/logtree/internal/ui/panels"
)

// EntriesMsg carries one entry-tree delivery from the hub.
type EntriesMsg struct {
	feed.TreeUpdate
}

// RunInfoMsg carries one run metadata delivery from the hub.
type RunInfoMsg struct {
	Info logtree.RunInfo
}

// IngestErrorMsg reports that reading the log stopped with an error.
type IngestErrorMsg struct {
	Err error
}

// CloseModalMsg signals that the modal should be closed.
type CloseModalMsg = panels.CloseModalMsg

// ClearFlashMsg signals the status bar flash should be cleared.
type ClearFlashMsg struct{}
