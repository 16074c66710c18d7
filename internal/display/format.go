package display

import (
	"fmt"
	"strings"
	"sync"
)

// Format selects how a value is shown in the value panel.
type Format int

const (
	FormatAuto Format = iota
	FormatRaw
	FormatPretty
)

var formatNames = [...]string{"auto", "raw", "pretty"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Next cycles auto → raw → pretty → auto.
func (f Format) Next() Format {
	return (f + 1) % Format(len(formatNames))
}

// ParseFormat accepts "auto", "raw" or "pretty" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}
	return FormatAuto, fmt.Errorf("unknown display format %q (want auto, raw or pretty)", s)
}

// Render applies the format to a raw value. In auto mode, text that already
// spans several lines is shown verbatim and single-line text is
// pretty-printed.
func Render(f Format, raw string) string {
	switch f {
	case FormatRaw:
		return raw
	case FormatPretty:
		return Pretty(raw)
	default:
		if strings.Contains(raw, "\n") {
			return raw
		}
		return Pretty(raw)
	}
}

// Settings is the view state shared by every value widget.
type Settings struct {
	mu     sync.RWMutex
	format Format
}

func NewSettings(f Format) *Settings {
	return &Settings{format: f}
}

func (s *Settings) Format() Format {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format
}

func (s *Settings) SetFormat(f Format) {
	s.mu.Lock()
	s.format = f
	s.mu.Unlock()
}

// Cycle advances to the next format and returns it.
func (s *Settings) Cycle() Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = s.format.Next()
	return s.format
}
