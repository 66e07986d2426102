package lineparse

import "testing"

func TestParse(t *testing.T) {
	src := `; header comment
start: MOV #5, R0   ; load count
L:  DEC R0
    BNE L
    HALT
lonely:
.ORIG 0x2000
`
	lines := Parse(src)
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6: %+v", len(lines), lines)
	}

	if lines[0].Label != "start" || lines[0].Opcode != "MOV" {
		t.Errorf("line 0: %+v", lines[0])
	}
	if len(lines[0].Operands) != 2 || lines[0].Operands[0] != "#5" || lines[0].Operands[1] != "R0" {
		t.Errorf("line 0 operands: %+v", lines[0].Operands)
	}

	if lines[1].Label != "L" || lines[1].Opcode != "DEC" {
		t.Errorf("line 1: %+v", lines[1])
	}

	if lines[3].Opcode != "HALT" || len(lines[3].Operands) != 0 {
		t.Errorf("line 3: %+v", lines[3])
	}

	if lines[4].Label != "lonely" || lines[4].Opcode != "" {
		t.Errorf("line 4 (label only): %+v", lines[4])
	}

	if lines[5].Opcode != ".ORIG" || len(lines[5].Operands) != 1 {
		t.Errorf("line 5: %+v", lines[5])
	}
}

func TestParseSkipsBlank(t *testing.T) {
	lines := Parse("\n\n; just a comment\n   \n")
	if len(lines) != 0 {
		t.Fatalf("got %d lines, want 0", len(lines))
	}
}
