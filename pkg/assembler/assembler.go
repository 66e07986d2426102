// Package assembler implements the two-pass PDP-11 symbolic assembler:
// operand addressing-mode encoding and label resolution.
package assembler

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdp11kit/pdp11/internal/lineparse"
	"github.com/pdp11kit/pdp11/internal/word"
)

// Assemble runs the two-pass driver over source and returns the
// assembled program, or the first static error encountered.
func Assemble(source string) (*Program, error) {
	lines := lineparse.Parse(source)
	symbols := make(map[string]uint16)

	if err := pass1(lines, symbols); err != nil {
		return nil, err
	}

	words, start, err := pass2(lines, symbols)
	if err != nil {
		return nil, err
	}

	return &Program{Start: start, Words: words, Symbols: symbols}, nil
}

// AssembleFile reads path and assembles it.
func AssembleFile(path string) (*Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Assemble(string(src))
}

// pass1 walks the lines once, binding each label to the pc it precedes
// and advancing pc by the size each instruction will occupy once
// encoded, without requiring forward-referenced symbols to already be
// defined.
func pass1(lines []lineparse.Line, symbols map[string]uint16) error {
	var pc uint16
	sawOrig := false

	for _, ln := range lines {
		if ln.Label != "" {
			symbols[word.Upper(ln.Label)] = pc
		}
		if ln.Opcode == "" {
			continue
		}

		switch ln.Opcode {
		case ".ORIG":
			v, err := origValue(ln)
			if err != nil {
				return staticErrf(ln.LineNo, "%s", err)
			}
			pc = v
			if !sawOrig {
				sawOrig = true
			}
			continue
		case ".WORD":
			if len(ln.Operands) != 1 {
				return staticErrf(ln.LineNo, ".WORD requires one operand")
			}
			pc += 2
			continue
		case "HALT":
			pc += 2
			continue
		case "RTS":
			if len(ln.Operands) != 1 {
				return staticErrf(ln.LineNo, "RTS requires one operand")
			}
			pc += 2
			continue
		case "TRAP":
			if len(ln.Operands) != 1 {
				return staticErrf(ln.LineNo, "TRAP requires one operand")
			}
			pc += 2
			continue
		}

		if base, ok := doubleOpBase(ln.Opcode); ok {
			_ = base
			if len(ln.Operands) != 2 {
				return staticErrf(ln.LineNo, "%s requires two operands", ln.Opcode)
			}
			src, err := encodeOperand(ln.Operands[0], pc, symbols, true)
			if err != nil {
				return staticErrf(ln.LineNo, "%s", err)
			}
			srcExtra := extraSize(src)
			dst, err := encodeOperand(ln.Operands[1], pc+srcExtra, symbols, true)
			if err != nil {
				return staticErrf(ln.LineNo, "%s", err)
			}
			pc += 2 + srcExtra + extraSize(dst)
			continue
		}

		if base, ok := singleOpBase(ln.Opcode); ok {
			_ = base
			if len(ln.Operands) != 1 {
				return staticErrf(ln.LineNo, "%s requires one operand", ln.Opcode)
			}
			dst, err := encodeOperand(ln.Operands[0], pc, symbols, true)
			if err != nil {
				return staticErrf(ln.LineNo, "%s", err)
			}
			pc += 2 + extraSize(dst)
			continue
		}

		if _, ok := branchOps[ln.Opcode]; ok {
			if len(ln.Operands) != 1 {
				return staticErrf(ln.LineNo, "%s requires one operand", ln.Opcode)
			}
			pc += 2
			continue
		}

		if ln.Opcode == "JSR" {
			if len(ln.Operands) != 2 {
				return staticErrf(ln.LineNo, "JSR requires two operands")
			}
			if _, ok := word.IsRegister(ln.Operands[0]); !ok {
				return staticErrf(ln.LineNo, "JSR first operand must be a register")
			}
			dst, err := encodeOperand(ln.Operands[1], pc, symbols, true)
			if err != nil {
				return staticErrf(ln.LineNo, "%s", err)
			}
			pc += 2 + extraSize(dst)
			continue
		}

		return staticErrf(ln.LineNo, "unknown opcode: %s", ln.Opcode)
	}

	return nil
}

// pass2 re-walks the lines with a fresh pc, this time emitting the
// actual words and rejecting any symbol still undefined.
func pass2(lines []lineparse.Line, symbols map[string]uint16) ([]uint16, uint16, error) {
	var words []uint16
	var pc uint16
	var start uint16
	sawOrig := false

	for _, ln := range lines {
		if ln.Opcode == "" {
			continue
		}

		switch ln.Opcode {
		case ".ORIG":
			v, err := origValue(ln)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			pc = v
			if !sawOrig {
				start = v
				sawOrig = true
			}
			continue
		case ".WORD":
			v, err := resolveValue(ln.Operands[0], symbols, false)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			words = append(words, uint16(v))
			pc += 2
			continue
		case "HALT":
			words = append(words, opHALT)
			pc += 2
			continue
		case "RTS":
			reg, ok := word.IsRegister(ln.Operands[0])
			if !ok {
				return nil, 0, staticErrf(ln.LineNo, "RTS operand must be a register")
			}
			words = append(words, opRTS|reg)
			pc += 2
			continue
		case "TRAP":
			vec, err := trapVector(ln.Operands[0])
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			words = append(words, opTRAP|vec)
			pc += 2
			continue
		}

		if base, ok := doubleOpBase(ln.Opcode); ok {
			if len(ln.Operands) != 2 {
				return nil, 0, staticErrf(ln.LineNo, "%s requires two operands", ln.Opcode)
			}
			src, err := encodeOperand(ln.Operands[0], pc, symbols, false)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			srcExtra := extraSize(src)
			dst, err := encodeOperand(ln.Operands[1], pc+srcExtra, symbols, false)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			words = append(words, base|(src.Spec<<6)|dst.Spec)
			if src.HasExtra {
				words = append(words, uint16(src.Extra))
			}
			if dst.HasExtra {
				words = append(words, uint16(dst.Extra))
			}
			pc += 2 + srcExtra + extraSize(dst)
			continue
		}

		if base, ok := singleOpBase(ln.Opcode); ok {
			if len(ln.Operands) != 1 {
				return nil, 0, staticErrf(ln.LineNo, "%s requires one operand", ln.Opcode)
			}
			dst, err := encodeOperand(ln.Operands[0], pc, symbols, false)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			words = append(words, base|dst.Spec)
			if dst.HasExtra {
				words = append(words, uint16(dst.Extra))
			}
			pc += 2 + extraSize(dst)
			continue
		}

		if base, ok := branchOps[ln.Opcode]; ok {
			if len(ln.Operands) != 1 {
				return nil, 0, staticErrf(ln.LineNo, "%s requires one operand", ln.Opcode)
			}
			target, err := resolveValue(ln.Operands[0], symbols, false)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			offset := (target - int32(pc) - 2) / 2
			if offset < -128 || offset > 127 {
				return nil, 0, staticErrf(ln.LineNo, "branch offset out of range: %d", offset)
			}
			words = append(words, base|(uint16(offset)&0xFF))
			pc += 2
			continue
		}

		if ln.Opcode == "JSR" {
			if len(ln.Operands) != 2 {
				return nil, 0, staticErrf(ln.LineNo, "JSR requires two operands")
			}
			reg, ok := word.IsRegister(ln.Operands[0])
			if !ok {
				return nil, 0, staticErrf(ln.LineNo, "JSR first operand must be a register")
			}
			dst, err := encodeOperand(ln.Operands[1], pc, symbols, false)
			if err != nil {
				return nil, 0, staticErrf(ln.LineNo, "%s", err)
			}
			words = append(words, opJSR|(reg<<6)|dst.Spec)
			if dst.HasExtra {
				words = append(words, uint16(dst.Extra))
			}
			pc += 2 + extraSize(dst)
			continue
		}

		return nil, 0, staticErrf(ln.LineNo, "unknown opcode: %s", ln.Opcode)
	}

	return words, start, nil
}

func extraSize(e OperandEnc) uint16 {
	if e.HasExtra {
		return 2
	}
	return 0
}

func doubleOpBase(opcode string) (uint16, bool) {
	if b, ok := doubleOpWord[opcode]; ok {
		return b, true
	}
	if b, ok := doubleOpByte[opcode]; ok {
		return b, true
	}
	return 0, false
}

func singleOpBase(opcode string) (uint16, bool) {
	if b, ok := singleOpWord[opcode]; ok {
		return b, true
	}
	if b, ok := singleOpByte[opcode]; ok {
		return b, true
	}
	return 0, false
}

func origValue(ln lineparse.Line) (uint16, error) {
	if len(ln.Operands) != 1 {
		return 0, fmt.Errorf(".ORIG requires one operand")
	}
	v, err := word.ParseNumber(ln.Operands[0])
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func trapVector(tok string) (uint16, error) {
	tok = strings.TrimSpace(tok)
	tok = strings.TrimPrefix(tok, "#")
	v, err := word.ParseNumber(tok)
	if err != nil {
		return 0, fmt.Errorf("TRAP operand must be numeric")
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("TRAP vector out of range: %d", v)
	}
	return uint16(v), nil
}

// resolveValue evaluates a number-or-symbol token, looking symbols up
// case-insensitively. With allowUndefined it returns 0 for a symbol not
// yet in the table, which lets pass 1 compute sizes ahead of full symbol
// resolution.
func resolveValue(tok string, symbols map[string]uint16, allowUndefined bool) (int32, error) {
	tok = strings.TrimSpace(tok)
	if v, ok := word.IsNumber(tok); ok {
		return v, nil
	}
	if v, ok := symbols[word.Upper(tok)]; ok {
		return int32(v), nil
	}
	if allowUndefined {
		return 0, nil
	}
	return 0, fmt.Errorf("undefined symbol: %s", tok)
}

// encodeOperand classifies token into an addressing mode and returns
// its 6-bit mode/register spec plus any extension word.
func encodeOperand(token string, pc uint16, symbols map[string]uint16, allowUndefined bool) (OperandEnc, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return OperandEnc{}, fmt.Errorf("empty operand")
	}

	if reg, ok := word.IsRegister(t); ok {
		return OperandEnc{Spec: reg}, nil
	}

	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")+") {
		inner := t[1 : len(t)-2]
		reg, ok := word.IsRegister(inner)
		if !ok {
			return OperandEnc{}, fmt.Errorf("invalid autoincrement operand: %s", token)
		}
		return OperandEnc{Spec: (2 << 3) | reg}, nil
	}

	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		inner := t[1 : len(t)-1]
		reg, ok := word.IsRegister(inner)
		if !ok {
			return OperandEnc{}, fmt.Errorf("invalid register-deferred operand: %s", token)
		}
		return OperandEnc{Spec: (1 << 3) | reg}, nil
	}

	if strings.HasPrefix(t, "-(") && strings.HasSuffix(t, ")") {
		inner := t[2 : len(t)-1]
		reg, ok := word.IsRegister(inner)
		if !ok {
			return OperandEnc{}, fmt.Errorf("invalid autodecrement operand: %s", token)
		}
		return OperandEnc{Spec: (4 << 3) | reg}, nil
	}

	if strings.HasPrefix(t, "#") {
		v, err := resolveValue(t[1:], symbols, allowUndefined)
		if err != nil {
			return OperandEnc{}, err
		}
		return OperandEnc{Spec: (2 << 3) | 7, HasExtra: true, Extra: v}, nil
	}

	if strings.HasPrefix(t, "@#") {
		v, err := resolveValue(t[2:], symbols, allowUndefined)
		if err != nil {
			return OperandEnc{}, err
		}
		return OperandEnc{Spec: (3 << 3) | 7, HasExtra: true, Extra: v}, nil
	}

	if idx := strings.IndexByte(t, '('); idx >= 0 && strings.HasSuffix(t, ")") {
		dispTok := strings.TrimSpace(t[:idx])
		inner := t[idx+1 : len(t)-1]
		reg, ok := word.IsRegister(inner)
		if !ok {
			return OperandEnc{}, fmt.Errorf("invalid indexed operand: %s", token)
		}
		var disp int32
		if dispTok != "" {
			v, err := resolveValue(dispTok, symbols, allowUndefined)
			if err != nil {
				return OperandEnc{}, err
			}
			disp = v
		}
		return OperandEnc{Spec: (6 << 3) | reg, HasExtra: true, Extra: disp}, nil
	}

	// Bare symbol or number: PC-relative literal.
	v, err := resolveValue(t, symbols, allowUndefined)
	if err != nil {
		return OperandEnc{}, err
	}
	return OperandEnc{
		Spec:     (6 << 3) | 7,
		HasExtra: true,
		Extra:    v - int32(pc) - 4,
	}, nil
}
