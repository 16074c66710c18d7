package display

import (
	"bytes"
	"encoding/json"
	"strings"
)

const reprIndent = "    "

// Pretty formats a value for reading. JSON objects and arrays are indented
// with two spaces. Other text containing brackets (Python-style reprs such
// as "[1, {'a': 2}]") is split one element per line. Anything else comes
// back unchanged.
func Pretty(s string) string {
	if j, ok := formatJSON(s); ok {
		return j
	}
	if !strings.ContainsAny(s, "([{") {
		return s
	}
	return formatRepr(s)
}

func formatJSON(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if t == "" || (t[0] != '{' && t[0] != '[') {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(t), "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

func isOpen(c byte) bool  { return c == '(' || c == '[' || c == '{' }
func isClose(c byte) bool { return c == ')' || c == ']' || c == '}' }

// nextNonSpace returns the index of the first non-space byte at or after i.
func nextNonSpace(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func formatRepr(s string) string {
	var b strings.Builder
	depth := 0
	var quote byte
	escaped := false

	newline := func() {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(reprIndent, depth))
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case isOpen(c):
			b.WriteByte(c)
			j := nextNonSpace(s, i+1)
			if j < len(s) && isClose(s[j]) {
				b.WriteByte(s[j])
				i = j
				continue
			}
			depth++
			newline()
			i = j - 1
		case isClose(c):
			if depth > 0 {
				depth--
			}
			newline()
			b.WriteByte(c)
		case c == ',' && depth > 0:
			b.WriteByte(c)
			j := nextNonSpace(s, i+1)
			if j < len(s) && isClose(s[j]) {
				i = j - 1
				continue
			}
			newline()
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
