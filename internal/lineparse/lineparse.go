// Package lineparse splits PDP-11 assembly source into line records: an
// optional label, an optional upper-cased opcode, and its comma-split
// operand list. It performs no symbol resolution or encoding.
package lineparse

import (
	"strings"
	"unicode"

	"github.com/pdp11kit/pdp11/internal/word"
)

// Line is one source statement.
type Line struct {
	LineNo   int
	Label    string
	Opcode   string
	Operands []string
	Raw      string
}

// HasLabel reports whether the line carries a label, even one with no
// opcode.
func (l Line) HasLabel() bool { return l.Label != "" }

// Parse splits source into an ordered sequence of Line records. Comments
// begin at the first ';' and run to end of line. Blank lines are omitted.
func Parse(source string) []Line {
	var lines []Line
	for i, raw := range strings.Split(source, "\n") {
		text := raw
		if idx := strings.IndexByte(text, ';'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		l := Line{LineNo: i + 1, Raw: raw}

		if colon := strings.IndexByte(text, ':'); colon >= 0 {
			l.Label = strings.TrimSpace(text[:colon])
			text = strings.TrimSpace(text[colon+1:])
		}

		if text == "" {
			lines = append(lines, l)
			continue
		}

		opcode, rest := text, ""
		if idx := strings.IndexFunc(text, unicode.IsSpace); idx >= 0 {
			opcode, rest = text[:idx], strings.TrimSpace(text[idx+1:])
		}
		l.Opcode = word.Upper(opcode)
		if l.Opcode == "" {
			lines = append(lines, l)
			continue
		}

		if rest != "" {
			for _, op := range strings.Split(rest, ",") {
				l.Operands = append(l.Operands, strings.TrimSpace(op))
			}
		}

		lines = append(lines, l)
	}
	return lines
}
