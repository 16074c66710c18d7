package text

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 10, ""},
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello w…"},
		{"hello", 0, ""},
		{"hello", 1, "…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncateStyled(t *testing.T) {
	styled := "\x1b[31mred text here\x1b[0m"
	got := Truncate(styled, 6)
	if w := ansi.StringWidth(got); w != 6 {
		t.Errorf("expected visible width 6, got %d (%q)", w, got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight: got %q", got)
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Errorf("PadRight wider: got %q", got)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("abcdefgh", 3)
	if got != "abc\ndef\ngh" {
		t.Errorf("Wrap: got %q", got)
	}
	if got := Wrap("keep", 0); got != "keep" {
		t.Errorf("Wrap zero width: got %q", got)
	}
	if got := Wrap("    ab\ncd", 10); got != "    ab\ncd" {
		t.Errorf("Wrap short lines: got %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{-1, "0ms"},
		{0.25, "250ms"},
		{4.21, "4.2s"},
		{187, "3m07s"},
	}
	for _, tt := range tests {
		if got := FormatDelta(tt.in); got != tt.want {
			t.Errorf("FormatDelta(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "entry", "entries"); got != "1 entry" {
		t.Errorf("Count 1: got %q", got)
	}
	if got := Count(0, "entry", "entries"); got != "0 entries" {
		t.Errorf("Count 0: got %q", got)
	}
}
