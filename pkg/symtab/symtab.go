// Package symtab reads and writes the plain-text symbol map format:
// one "0xADDR NAME" pair per line, used to carry pkg/assembler's label
// table alongside an assembled image for debugging and disassembly.
package symtab

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdp11kit/pdp11/internal/word"
)

// Write emits symbols sorted by address, then name, as one
// "0xADDR NAME" line each.
func Write(w io.Writer, symbols map[string]uint16) error {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if symbols[names[i]] != symbols[names[j]] {
			return symbols[names[i]] < symbols[names[j]]
		}
		return names[i] < names[j]
	})

	bw := bufio.NewWriter(w)
	for _, name := range names {
		if _, err := fmt.Fprintf(bw, "0x%04X %s\n", symbols[name], name); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses a symbol map written by Write, tolerating blank lines
// and "#"-prefixed comments.
func Read(r io.Reader) (map[string]uint16, error) {
	symbols := make(map[string]uint16)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("symtab: line %d: expected 2 fields, got %d", lineNo, len(fields))
		}
		addr, err := parseAddr(fields[0])
		if err != nil {
			return nil, fmt.Errorf("symtab: line %d: %w", lineNo, err)
		}
		symbols[word.Upper(fields[1])] = addr
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return symbols, nil
}

func parseAddr(tok string) (uint16, error) {
	tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	v, err := strconv.ParseUint(tok, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", tok)
	}
	return uint16(v), nil
}

// Lookup finds the label bound to addr, if any, preferring the
// lexicographically smallest name when more than one symbol shares an
// address.
func Lookup(symbols map[string]uint16, addr uint16) (string, bool) {
	best := ""
	found := false
	for name, a := range symbols {
		if a != addr {
			continue
		}
		if !found || name < best {
			best = name
			found = true
		}
	}
	return best, found
}
