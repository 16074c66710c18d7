package logtree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/justinpbarnett/logtree/internal/decode"
)

// Batch is what the builder accumulated since the previous Flush.
type Batch struct {
	Entries     []Entry
	NewExpanded []string
	Console     []ConsoleEntry

	// UpdatedFrom is the lowest entry index touched in this batch, or
	// len(Entries) when no entry changed.
	UpdatedFrom int

	RunInfo        RunInfo
	RunInfoChanged bool
}

type scope struct {
	index    int // position in entries; -1 for the synthetic root
	id       string
	children int
}

// Builder folds decoded messages into a flat entry tree.
type Builder struct {
	entries []Entry
	console []ConsoleEntry
	stack   []scope

	runInfo        RunInfo
	runInfoChanged bool

	expandFailures bool
	newExpanded    []string
	dirtyFrom      int
	consoleDirty   bool
}

// NewBuilder returns a builder. When expandFailures is set, failing nodes
// and their ancestors are emitted as expansion hints.
func NewBuilder(runID string, expandFailures bool) *Builder {
	return &Builder{
		stack:          []scope{{index: -1}},
		expandFailures: expandFailures,
		runInfo:        RunInfo{ID: runID},
	}
}

func (b *Builder) RunInfo() RunInfo {
	info := b.runInfo
	info.InfoMessages = append([]string(nil), b.runInfo.InfoMessages...)
	return info
}

// Apply folds one message into the tree.
func (b *Builder) Apply(msg decode.Message) {
	switch msg.Code {
	case decode.CodeVersion:
		b.runInfo.Version = msg.Text
		b.runInfoChanged = true
	case decode.CodeInitialTime:
		b.runInfo.StartTime = msg.Time
		b.runInfoChanged = true
	case decode.CodeInfo:
		b.runInfo.InfoMessages = append(b.runInfo.InfoMessages, msg.Text)
		b.runInfoChanged = true

	case decode.CodeStartRun:
		b.runInfo.Description = msg.Name
		b.runInfoChanged = true
		b.push(Entry{Type: EntryRun, Name: msg.Name, StartDelta: msg.TimeDelta})
	case decode.CodeEndRun:
		status := Status(msg.Status)
		b.runInfo.Status = status
		b.runInfo.EndDelta = msg.TimeDelta
		b.runInfo.Finished = true
		b.runInfoChanged = true
		b.pop(EntryRun, status, "", msg.TimeDelta)

	case decode.CodeStartTask:
		idx := b.push(Entry{
			Type:       EntryTask,
			Name:       msg.Name,
			Libname:    msg.Libname,
			Source:     msg.Source,
			Lineno:     msg.Lineno,
			Tags:       append([]string(nil), msg.Tags...),
			StartDelta: msg.TimeDelta,
		})
		b.expand(b.entries[idx].ID)
	case decode.CodeTag:
		b.addTag(msg.Tag)
	case decode.CodeEndTask:
		b.pop(EntryTask, Status(msg.Status), msg.Message, msg.TimeDelta)

	case decode.CodeStartElement:
		b.push(Entry{
			Type:       EntryElement,
			Kind:       msg.Type,
			Name:       msg.Name,
			Libname:    msg.Libname,
			Source:     msg.Source,
			Lineno:     msg.Lineno,
			Doc:        msg.Doc,
			Hidden:     msg.HideFromLogs,
			StartDelta: msg.TimeDelta,
		})
	case decode.CodeEndElement:
		b.pop(EntryElement, Status(msg.Status), "", msg.TimeDelta)
	case decode.CodeElementArg:
		b.addArg(Arg{Name: msg.Name, Type: msg.Type, Value: msg.Value})

	case decode.CodeAssign:
		b.leaf(Entry{
			Type:       EntryAssign,
			Name:       msg.Name,
			Target:     msg.Target,
			ValueType:  msg.Type,
			Value:      msg.Value,
			Source:     msg.Source,
			Lineno:     msg.Lineno,
			StartDelta: msg.TimeDelta,
		})
	case decode.CodeLog:
		b.leaf(Entry{
			Type:       EntryLog,
			Level:      msg.Level,
			Message:    msg.Message,
			Source:     msg.Source,
			Lineno:     msg.Lineno,
			StartDelta: msg.TimeDelta,
		})
	case decode.CodeYieldResume:
		b.leaf(Entry{
			Type:       EntryYieldResume,
			Name:       msg.Name,
			Libname:    msg.Libname,
			Source:     msg.Source,
			Lineno:     msg.Lineno,
			Hidden:     msg.HideFromLogs,
			StartDelta: msg.TimeDelta,
		})
	case decode.CodeYieldSuspend:
		b.leaf(Entry{
			Type:       EntryYieldSuspend,
			Name:       msg.Name,
			Libname:    msg.Libname,
			Source:     msg.Source,
			Lineno:     msg.Lineno,
			ValueType:  msg.Type,
			Value:      msg.Value,
			StartDelta: msg.TimeDelta,
		})
	case decode.CodeException:
		text := msg.Message
		if msg.Traceback != "" {
			text = strings.TrimRight(msg.Traceback, "\n") + "\n" + msg.Message
		}
		b.leaf(Entry{Type: EntryException, Status: StatusError, Message: text, StartDelta: msg.TimeDelta})

	case decode.CodeConsole:
		kind := ConsoleKind(msg.Kind)
		if kind != ConsoleStderr {
			kind = ConsoleStdout
		}
		b.console = append(b.console, ConsoleEntry{Kind: kind, Message: msg.Message, TimeDelta: msg.TimeDelta})
		b.consoleDirty = true

	case decode.CodeInvalid:
		b.runInfo.Errors++
		b.runInfoChanged = true
		b.leaf(Entry{
			Type:    EntryError,
			Status:  StatusError,
			Message: fmt.Sprintf("line %d: %v\n%s", msg.Line, msg.Err, msg.Raw),
		})
	}
}

// Fail records a stream-level error, such as an unsupported version
// header, as an error entry at the current position.
func (b *Builder) Fail(err error) {
	b.runInfo.Errors++
	b.runInfoChanged = true
	b.leaf(Entry{Type: EntryError, Status: StatusError, Message: err.Error()})
}

// Pending reports whether anything changed since the last Flush.
func (b *Builder) Pending() bool {
	return b.dirtyFrom < len(b.entries) || b.consoleDirty || b.runInfoChanged || len(b.newExpanded) > 0
}

// Flush returns copies of the current snapshots together with the hints and
// dirty index accumulated since the previous Flush, then starts a new batch.
func (b *Builder) Flush() Batch {
	batch := Batch{
		Entries:        append([]Entry(nil), b.entries...),
		NewExpanded:    b.newExpanded,
		Console:        append([]ConsoleEntry(nil), b.console...),
		UpdatedFrom:    b.dirtyFrom,
		RunInfo:        b.RunInfo(),
		RunInfoChanged: b.runInfoChanged,
	}
	for i := range batch.Entries {
		batch.Entries[i].Args = append([]Arg(nil), b.entries[i].Args...)
		batch.Entries[i].Tags = append([]string(nil), b.entries[i].Tags...)
	}

	b.newExpanded = nil
	b.dirtyFrom = len(b.entries)
	b.consoleDirty = false
	b.runInfoChanged = false
	return batch
}

func (b *Builder) top() *scope {
	return &b.stack[len(b.stack)-1]
}

func (b *Builder) childID() (parent, id string) {
	s := b.top()
	n := strconv.Itoa(s.children)
	s.children++
	if s.id == "" {
		return "", n
	}
	return s.id, s.id + "-" + n
}

func (b *Builder) leaf(e Entry) int {
	if idx := b.top().index; idx >= 0 && b.entries[idx].Hidden {
		e.Hidden = true
	}
	e.Parent, e.ID = b.childID()
	e.Depth = len(b.stack) - 1
	b.entries = append(b.entries, e)
	idx := len(b.entries) - 1
	b.touch(idx)
	if e.Status.Failed() {
		b.expandAncestors(idx)
	}
	return idx
}

func (b *Builder) push(e Entry) int {
	e.Open = true
	idx := b.leaf(e)
	b.stack = append(b.stack, scope{index: idx, id: b.entries[idx].ID})
	return idx
}

// pop closes the innermost open entry of the given type. Scopes opened
// after it that were never closed are closed along with it.
func (b *Builder) pop(t EntryType, status Status, message string, delta float64) {
	for i := len(b.stack) - 1; i > 0; i-- {
		idx := b.stack[i].index
		if b.entries[idx].Type != t {
			continue
		}
		for j := len(b.stack) - 1; j >= i; j-- {
			b.close(b.stack[j].index, delta)
		}
		b.stack = b.stack[:i]

		e := &b.entries[idx]
		e.Status = status
		if message != "" {
			e.Message = message
		}
		if status.Failed() {
			b.expandAncestors(idx)
		}
		return
	}
}

func (b *Builder) close(idx int, delta float64) {
	b.entries[idx].Open = false
	b.entries[idx].EndDelta = delta
	b.touch(idx)
}

func (b *Builder) addArg(a Arg) {
	idx := b.top().index
	if idx < 0 {
		return
	}
	b.entries[idx].Args = append(b.entries[idx].Args, a)
	b.touch(idx)
}

// addTag tags the innermost open task. Tags outside any task are dropped.
func (b *Builder) addTag(tag string) {
	if tag == "" {
		return
	}
	for i := len(b.stack) - 1; i > 0; i-- {
		idx := b.stack[i].index
		if b.entries[idx].Type == EntryTask {
			b.entries[idx].Tags = append(b.entries[idx].Tags, tag)
			b.touch(idx)
			return
		}
	}
}

func (b *Builder) touch(idx int) {
	if idx < b.dirtyFrom {
		b.dirtyFrom = idx
	}
}

func (b *Builder) expand(id string) {
	b.newExpanded = append(b.newExpanded, id)
}

func (b *Builder) expandAncestors(idx int) {
	if !b.expandFailures {
		return
	}
	e := b.entries[idx]
	b.expand(e.ID)
	for p := e.Parent; p != ""; {
		b.expand(p)
		cut := strings.LastIndexByte(p, '-')
		if cut < 0 {
			break
		}
		p = p[:cut]
	}
}
