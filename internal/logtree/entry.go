package logtree

import "time"

type EntryType string

const (
	EntryRun          EntryType = "run"
	EntryTask         EntryType = "task"
	EntryElement      EntryType = "element"
	EntryAssign       EntryType = "assign"
	EntryLog          EntryType = "log"
	EntryYieldResume  EntryType = "yield_resume"
	EntryYieldSuspend EntryType = "yield_suspend"
	EntryException    EntryType = "exception"
	EntryError        EntryType = "error"
)

type Status string

const (
	StatusUnset  Status = ""
	StatusPass   Status = "PASS"
	StatusFail   Status = "FAIL"
	StatusError  Status = "ERROR"
	StatusNotRun Status = "NOT_RUN"
)

// Failed reports whether s marks a failing node.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusError
}

// Arg is one argument passed to an element: name, type and repr value.
type Arg struct {
	Name  string
	Type  string
	Value string
}

// Entry is one node of the log tree. Entries are kept in a flat slice in
// start order; Parent and Depth describe the hierarchy.
type Entry struct {
	ID        string
	Parent    string
	Depth     int
	Type      EntryType
	Kind      string // element kind as logged: METHOD, FOR, FOR_STEP, GENERATOR...
	Name      string
	Libname   string
	Source    string
	Lineno    int
	Status    Status
	Level     string
	Message   string
	Doc       string
	Target    string
	ValueType string
	Value     string
	Args      []Arg
	Tags      []string

	// Hidden entries were logged while method logging was off. Everything
	// nested under a hidden entry is hidden too.
	Hidden bool

	StartDelta float64
	EndDelta   float64
	Open       bool
}

// Text returns the value shown in the value panel for the entry.
func (e Entry) Text() string {
	switch e.Type {
	case EntryAssign, EntryYieldSuspend:
		return e.Value
	case EntryLog, EntryException, EntryError:
		return e.Message
	case EntryElement, EntryTask, EntryRun:
		if e.Message != "" {
			return e.Message
		}
		return e.Doc
	default:
		return e.Value
	}
}

// Label is the one-line summary shown in the tree.
func (e Entry) Label() string {
	switch e.Type {
	case EntryAssign:
		return e.Target + " = " + e.Value
	case EntryLog:
		return e.Level + ": " + firstLine(e.Message)
	case EntryYieldResume:
		return "resume " + e.Name
	case EntryYieldSuspend:
		return "yield " + e.Name + " → " + e.Value
	case EntryException, EntryError:
		return firstLine(e.Message)
	default:
		return e.Name
	}
}

type ConsoleKind string

const (
	ConsoleStdout ConsoleKind = "stdout"
	ConsoleStderr ConsoleKind = "stderr"
)

type ConsoleEntry struct {
	Kind      ConsoleKind
	Message   string
	TimeDelta float64
}

// RunInfo is the metadata record describing the run being viewed.
type RunInfo struct {
	ID           string
	Description  string
	Version      string
	StartTime    time.Time
	Status       Status
	InfoMessages []string
	Errors       int
	EndDelta     float64
	Finished     bool
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
