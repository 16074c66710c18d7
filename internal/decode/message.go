package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Code identifies the kind of a log message line.
type Code string

const (
	CodeVersion      Code = "V"
	CodeInitialTime  Code = "T"
	CodeInfo         Code = "I"
	CodeStartRun     Code = "SR"
	CodeEndRun       Code = "ER"
	CodeStartTask    Code = "ST"
	CodeEndTask      Code = "ET"
	CodeStartElement Code = "SE"
	CodeEndElement   Code = "EE"
	CodeElementArg   Code = "EA"
	CodeAssign       Code = "AS"
	CodeLog          Code = "L"
	CodeConsole      Code = "C"
	CodeYieldResume  Code = "YR"
	CodeYieldSuspend Code = "YS"
	CodeException    Code = "EX"
	// CodeTag adds a tag to the innermost open task.
	CodeTag Code = "TG"

	// CodeInvalid marks a line that could not be decoded.
	CodeInvalid Code = "!"
)

// SupportedVersions is the semver constraint a log's V header must satisfy.
const SupportedVersions = ">= 0.0.1, < 1.0.0"

var (
	ErrUnsupportedVersion = errors.New("unsupported log format version")
	// ErrLineTooLong marks a line longer than the parser keeps in memory.
	ErrLineTooLong = errors.New("line too long")
)

// Payload holds the JSON fields a message line may carry.
type Payload struct {
	Name      string  `json:"name"`
	Libname   string  `json:"libname"`
	Source    string  `json:"source"`
	Lineno    int     `json:"lineno"`
	Type      string  `json:"type"`
	Doc       string  `json:"doc"`
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Level     string  `json:"level"`
	Target    string  `json:"target"`
	Value     string  `json:"value"`
	Traceback string  `json:"traceback"`
	Kind      string  `json:"kind"`
	TimeDelta float64 `json:"time_delta"`

	// HideFromLogs is set on elements called while method logging was
	// switched off; they and everything under them stay out of the tree.
	HideFromLogs bool     `json:"hide_from_logs"`
	Tags         []string `json:"tags"`
	Tag          string   `json:"tag"`
}

// Message is one decoded line of the log stream. Which fields are set
// depends on Code.
type Message struct {
	Code Code
	Line int
	Raw  string

	Text string    // V and I payloads
	Time time.Time // T payload

	Payload

	Err error
}

var knownCodes = map[Code]bool{
	CodeStartRun: true, CodeEndRun: true,
	CodeStartTask: true, CodeEndTask: true,
	CodeStartElement: true, CodeEndElement: true,
	CodeElementArg: true, CodeAssign: true,
	CodeLog: true, CodeConsole: true,
	CodeYieldResume: true, CodeYieldSuspend: true,
	CodeException: true, CodeTag: true,
}

// ParseLine decodes a single non-empty line. Undecodable lines are returned
// as CodeInvalid messages with Err set; ParseLine itself never fails.
func ParseLine(lineNo int, line string) Message {
	code, payload, _ := strings.Cut(line, " ")
	msg := Message{Code: Code(code), Line: lineNo, Raw: line}
	payload = strings.TrimSpace(payload)

	switch msg.Code {
	case CodeVersion:
		msg.Text = payload
		return msg
	case CodeInitialTime:
		t, err := time.Parse(time.RFC3339Nano, payload)
		if err != nil {
			return invalid(msg, fmt.Errorf("parsing initial time: %w", err))
		}
		msg.Time = t
		return msg
	case CodeInfo:
		if err := json.Unmarshal([]byte(payload), &msg.Text); err != nil {
			return invalid(msg, fmt.Errorf("parsing info message: %w", err))
		}
		return msg
	}

	if !knownCodes[msg.Code] {
		return invalid(msg, fmt.Errorf("unknown message code %q", code))
	}
	if payload == "" {
		return msg
	}
	if err := json.Unmarshal([]byte(payload), &msg.Payload); err != nil {
		return invalid(msg, fmt.Errorf("parsing %s payload: %w", code, err))
	}
	return msg
}

func invalid(msg Message, err error) Message {
	msg.Code = CodeInvalid
	msg.Err = err
	return msg
}

// CheckVersion verifies that a V header is within SupportedVersions.
func CheckVersion(v string) error {
	ver, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, ver, SupportedVersions)
	}
	return nil
}
