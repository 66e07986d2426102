// Package disasm renders fetched instruction words back into the
// symbolic syntax pkg/assembler accepts, one instruction at a time.
package disasm

import "fmt"

// entry pairs a mask/value match with the mnemonic and operand shape it
// names, in the disamtable style: checked in order, first match wins.
type entry struct {
	mask, value uint16
	mnemonic    string
	shape       shape
}

type shape int

const (
	shapeNone shape = iota
	shapeDD         // one operand, in the low 6 bits
	shapeSD         // two operands: src in bits 6-11, dst in low 6 bits
	shapeRR         // register in bits 6-8, operand in low 6 bits (JSR)
	shapeR          // register in low 3 bits (RTS)
	shapeBranch     // signed byte offset in the low 8 bits
	shapeTrap       // vector in the low 8 bits
)

var table = []entry{
	{0177777, 0000000, "HALT", shapeNone},
	{0177770, 0000020, "RTS", shapeR},
	{0177700, 0000100, "JMP", shapeDD},
	{0177000, 0004000, "JSR", shapeRR},
	{0177400, 0104000, "TRAP", shapeTrap},

	{0177700, 0005000, "CLR", shapeDD},
	{0177700, 0005200, "INC", shapeDD},
	{0177700, 0005300, "DEC", shapeDD},
	{0177700, 0005700, "TST", shapeDD},
	{0177700, 0006000, "ROR", shapeDD},
	{0177700, 0006100, "ROL", shapeDD},
	{0177700, 0006200, "ASR", shapeDD},
	{0177700, 0006300, "ASL", shapeDD},

	{0177700, 0105000, "CLRB", shapeDD},
	{0177700, 0105200, "INCB", shapeDD},
	{0177700, 0105300, "DECB", shapeDD},
	{0177700, 0105700, "TSTB", shapeDD},

	{0177400, 0000400, "BR", shapeBranch},
	{0177400, 0001000, "BNE", shapeBranch},
	{0177400, 0001400, "BEQ", shapeBranch},

	{0170000, 0010000, "MOV", shapeSD},
	{0170000, 0020000, "CMP", shapeSD},
	{0170000, 0030000, "BIT", shapeSD},
	{0170000, 0040000, "BIC", shapeSD},
	{0170000, 0050000, "BIS", shapeSD},
	{0170000, 0060000, "ADD", shapeSD},
	{0170000, 0160000, "SUB", shapeSD},

	{0170000, 0110000, "MOVB", shapeSD},
	{0170000, 0120000, "CMPB", shapeSD},
	{0170000, 0130000, "BITB", shapeSD},
	{0170000, 0140000, "BICB", shapeSD},
	{0170000, 0150000, "BISB", shapeSD},
}

// Reader gives the disassembler access to whatever code words follow
// the instruction, for modes with an extension word. It never needs
// more than the three words at addr, addr+2 and addr+4 (a two-operand
// instruction with an extension word for each operand).
type Reader interface {
	ReadWordCode(addr uint16) uint16
}

// Instruction is one decoded instruction: its address, the bytes it
// occupies, and its text in pkg/assembler's syntax. Deferred modes other
// than @# render as @ forms that pkg/assembler does not parse.
type Instruction struct {
	Addr uint16
	Size uint16
	Text string
}

// Disassemble decodes the instruction at addr. An instruction word
// matching no table entry decodes as ".WORD" with its raw value, so a
// caller can always keep stepping by the returned Size.
func Disassemble(r Reader, addr uint16) Instruction {
	instr := r.ReadWordCode(addr)

	e, ok := lookup(instr)
	if !ok {
		return Instruction{Addr: addr, Size: 2, Text: fmt.Sprintf(".WORD 0x%04X", instr)}
	}

	next := addr + 2
	var text string

	switch e.shape {
	case shapeNone:
		text = e.mnemonic
	case shapeR:
		text = fmt.Sprintf("%s R%d", e.mnemonic, instr&7)
	case shapeDD:
		operand, size := formatOperand(r, instr&077, next)
		text = fmt.Sprintf("%s %s", e.mnemonic, operand)
		next += size
	case shapeRR:
		reg := (instr >> 6) & 7
		operand, size := formatOperand(r, instr&077, next)
		text = fmt.Sprintf("%s R%d, %s", e.mnemonic, reg, operand)
		next += size
	case shapeSD:
		src, srcSize := formatOperand(r, (instr>>6)&077, next)
		next += srcSize
		dst, dstSize := formatOperand(r, instr&077, next)
		next += dstSize
		text = fmt.Sprintf("%s %s, %s", e.mnemonic, src, dst)
	case shapeBranch:
		off := int16(int8(instr & 0xFF))
		target := addr + 2 + uint16(off*2)
		text = fmt.Sprintf("%s 0x%04X", e.mnemonic, target)
	case shapeTrap:
		text = fmt.Sprintf("TRAP #%d", instr&0xFF)
	}

	return Instruction{Addr: addr, Size: next - addr, Text: text}
}

func lookup(instr uint16) (entry, bool) {
	for _, e := range table {
		if instr&e.mask == e.value {
			return e, true
		}
	}
	return entry{}, false
}

// formatOperand renders the 6-bit mode/register spec at pc using
// pkg/assembler's own operand syntax, and reports how many extension
// words it consumed.
func formatOperand(r Reader, spec uint16, pc uint16) (string, uint16) {
	mode := (spec >> 3) & 7
	reg := spec & 7
	regName := fmt.Sprintf("R%d", reg)

	switch mode {
	case 0:
		return regName, 0
	case 1:
		return fmt.Sprintf("(%s)", regName), 0
	case 2:
		if reg == 7 {
			imm := r.ReadWordCode(pc)
			return fmt.Sprintf("#0x%04X", imm), 2
		}
		return fmt.Sprintf("(%s)+", regName), 0
	case 3:
		if reg == 7 {
			addr := r.ReadWordCode(pc)
			return fmt.Sprintf("@#0x%04X", addr), 2
		}
		return fmt.Sprintf("@(%s)+", regName), 0
	case 4:
		return fmt.Sprintf("-(%s)", regName), 0
	case 5:
		return fmt.Sprintf("@-(%s)", regName), 0
	case 6:
		disp := int16(r.ReadWordCode(pc))
		if reg == 7 {
			target := pc + 2 + uint16(disp)
			return fmt.Sprintf("0x%04X", target), 2
		}
		return fmt.Sprintf("%d(%s)", disp, regName), 2
	case 7:
		disp := int16(r.ReadWordCode(pc))
		if reg == 7 {
			target := pc + 2 + uint16(disp)
			return fmt.Sprintf("@0x%04X", target), 2
		}
		return fmt.Sprintf("@%d(%s)", disp, regName), 2
	}

	return "?", 0
}
