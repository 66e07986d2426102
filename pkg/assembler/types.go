package assembler

import (
	"encoding/binary"
	"fmt"
)

// OperandEnc is the result of encoding one operand token: a 6-bit
// mode/register spec plus an optional 16-bit extension word.
type OperandEnc struct {
	Spec     uint16
	HasExtra bool
	Extra    int32
}

// Program is the assembled output: a start address, the contiguous word
// image placed from that address, and the label -> address symbol table.
type Program struct {
	Start   uint16
	Words   []uint16
	Symbols map[string]uint16
}

// Bytes renders the word image as a little-endian byte stream, the
// binary image format loaders and dumps consume.
func (p *Program) Bytes() []byte {
	buf := make([]byte, len(p.Words)*2)
	for i, w := range p.Words {
		binary.LittleEndian.PutUint16(buf[i*2:], w)
	}
	return buf
}

// StaticError is a fatal assembler-time error tied to a source line.
type StaticError struct {
	Line int
	Msg  string
}

func (e *StaticError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func staticErrf(line int, format string, args ...interface{}) error {
	return &StaticError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
