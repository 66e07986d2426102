package disasm

import "testing"

type fakeMem map[uint16]uint16

func (m fakeMem) ReadWordCode(addr uint16) uint16 { return m[addr] }

func TestDisassembleMovImmediate(t *testing.T) {
	mem := fakeMem{0: 0012700, 2: 1234}
	in := Disassemble(mem, 0)
	if in.Text != "MOV #0x04D2, R0" {
		t.Errorf("Text = %q", in.Text)
	}
	if in.Size != 4 {
		t.Errorf("Size = %d, want 4", in.Size)
	}
}

func TestDisassembleHalt(t *testing.T) {
	mem := fakeMem{0: 0}
	in := Disassemble(mem, 0)
	if in.Text != "HALT" || in.Size != 2 {
		t.Errorf("got %+v", in)
	}
}

func TestDisassembleRts(t *testing.T) {
	mem := fakeMem{0: 0000025} // RTS R5
	in := Disassemble(mem, 0)
	if in.Text != "RTS R5" {
		t.Errorf("Text = %q", in.Text)
	}
}

func TestDisassembleBranchComputesAbsoluteTarget(t *testing.T) {
	// BNE with offset -2, at address 0x10: target = 0x10+2-4 = 0x0E
	offset := int8(-2)
	mem := fakeMem{0x10: 0001000 | (uint16(uint8(offset)) & 0xFF)}
	in := Disassemble(mem, 0x10)
	if in.Text != "BNE 0x000E" {
		t.Errorf("Text = %q", in.Text)
	}
}

func TestDisassembleIndexedOperand(t *testing.T) {
	// CLR 4(R1): mode 6 reg 1 -> dst spec 061
	mem := fakeMem{0: 0005061, 2: 4}
	in := Disassemble(mem, 0)
	if in.Text != "CLR 4(R1)" {
		t.Errorf("Text = %q", in.Text)
	}
}

func TestDisassembleUnknownWordFallsBackToWordDirective(t *testing.T) {
	mem := fakeMem{0: 0177777}
	in := Disassemble(mem, 0)
	if in.Text != ".WORD 0xFFFF" {
		t.Errorf("Text = %q", in.Text)
	}
}

func TestDisassembleJsrTwoOperandForm(t *testing.T) {
	mem := fakeMem{0: 0004000 | (5 << 6) | 067, 2: 2}
	in := Disassemble(mem, 0)
	if in.Text != "JSR R5, 0x0006" {
		t.Errorf("Text = %q", in.Text)
	}
}
