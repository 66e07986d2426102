// Package word implements the numeric-literal and token conventions shared
// by the line parser and the operand encoder: base-prefixed integers and
// case-insensitive identifiers.
package word

import (
	"fmt"
	"strings"
)

// Upper upper-cases s the same way the assembler upper-cases opcodes,
// labels and symbol references: byte-wise, ASCII only.
func Upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// ParseNumber parses a signed integer literal. The base is selected by
// prefix: 0x/0X selects 16, 0o/0O selects 8, anything else is base 10.
func ParseNumber(tok string) (int32, error) {
	t := tok
	if t == "" {
		return 0, fmt.Errorf("empty numeric literal")
	}

	sign := int32(1)
	if t[0] == '-' {
		sign = -1
		t = t[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(t, "0x"), strings.HasPrefix(t, "0X"):
		base = 16
		t = t[2:]
	case strings.HasPrefix(t, "0o"), strings.HasPrefix(t, "0O"):
		base = 8
		t = t[2:]
	}

	if t == "" {
		return 0, fmt.Errorf("invalid number literal: %q", tok)
	}

	var value int32
	for _, c := range t {
		digit, ok := digitValue(c)
		if !ok || digit >= base {
			return 0, fmt.Errorf("invalid number literal: %q", tok)
		}
		value = value*int32(base) + int32(digit)
	}

	return sign * value, nil
}

func digitValue(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// IsNumber reports whether tok parses as a numeric literal, returning the
// parsed value on success.
func IsNumber(tok string) (int32, bool) {
	v, err := ParseNumber(tok)
	return v, err == nil
}

// IsRegister reports whether tok names a register (R0..R7, case-insensitive)
// and returns its index.
func IsRegister(tok string) (uint16, bool) {
	if len(tok) != 2 {
		return 0, false
	}
	if tok[0] != 'R' && tok[0] != 'r' {
		return 0, false
	}
	if tok[1] < '0' || tok[1] > '7' {
		return 0, false
	}
	return uint16(tok[1] - '0'), true
}
