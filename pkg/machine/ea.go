package machine

// ea is the result of decoding a 6-bit operand spec: either a register
// index, or a memory address in the code bank or the data bank.
type ea struct {
	isReg  bool
	isCode bool
	reg    uint16
	addr   uint16
}

// resolveEA decodes spec (mode in bits 3-5, register in bits 0-2) for
// an access of the given byte width, applying auto-increment/decrement
// side effects and extension-word fetches as it goes.
func (c *CPU) resolveEA(spec uint16, byteWidth bool) ea {
	mode := (spec >> 3) & 7
	reg := spec & 7

	delta := uint16(2)
	if byteWidth && reg != 6 && reg != 7 {
		delta = 1
	}

	switch mode {
	case 0: // register
		return ea{isReg: true, reg: reg}

	case 1: // register deferred
		return ea{addr: c.R[reg]}

	case 2: // autoincrement
		addr := c.R[reg]
		c.R[reg] += delta
		return ea{addr: addr, isCode: reg == 7}

	case 3: // autoincrement deferred
		ptr := c.R[reg]
		c.R[reg] += delta
		if reg == 7 {
			return ea{addr: c.readWordCode(ptr)}
		}
		return ea{addr: c.readWord(ptr)}

	case 4: // autodecrement
		c.R[reg] -= delta
		return ea{addr: c.R[reg]}

	case 5: // autodecrement deferred
		c.R[reg] -= delta
		return ea{addr: c.readWord(c.R[reg])}

	case 6: // index
		disp := int16(c.fetchWord())
		addr := c.R[reg] + uint16(disp)
		return ea{addr: addr, isCode: reg == 7}

	case 7: // index deferred
		disp := int16(c.fetchWord())
		ptr := c.R[reg] + uint16(disp)
		if reg == 7 {
			return ea{addr: c.readWordCode(ptr)}
		}
		return ea{addr: c.readWord(ptr)}
	}

	panic("unreachable addressing mode")
}

// readEA reads through an already-resolved ea, without touching the
// register file or fetching another extension word: callers that need
// to both read and write the same operand (read-modify-write
// instructions) resolve once with resolveEA and pass the result to
// readEA/writeEA, rather than resolving twice via readOperand and
// writeOperand.
func (c *CPU) readEA(e ea) uint16 {
	switch {
	case e.isReg:
		return c.R[e.reg]
	case e.isCode:
		return c.readWordCode(e.addr)
	default:
		return c.readWord(e.addr)
	}
}

// writeEA writes through an already-resolved ea. A mode-2 or mode-6
// destination on R7 (immediate or PC-relative) resolves into the code
// bank, so the write has to land there too, not in the currently
// selected data bank. Mode 7 on R7 reads only its pointer from the code
// bank; the target it names is in the data bank.
func (c *CPU) writeEA(e ea, v uint16) {
	switch {
	case e.isReg:
		c.R[e.reg] = v
	case e.isCode:
		c.writeWordCode(e.addr, v)
	default:
		c.writeWord(e.addr, v)
	}
}

func (c *CPU) readEAByte(e ea) uint8 {
	switch {
	case e.isReg:
		return uint8(c.R[e.reg])
	case e.isCode:
		return uint8(c.readWordCode(e.addr))
	default:
		return c.readByte(e.addr)
	}
}

// writeEAByte stores v into an already-resolved byte ea. When the
// target is a register and signExtend is set (MOVB's convention), the
// whole register is replaced with the sign-extended value; otherwise
// only the low byte is touched and the high byte survives.
func (c *CPU) writeEAByte(e ea, v uint8, signExtend bool) {
	if e.isReg {
		if signExtend {
			c.R[e.reg] = uint16(int16(int8(v)))
		} else {
			c.R[e.reg] = (c.R[e.reg] & 0xFF00) | uint16(v)
		}
		return
	}
	if e.isCode {
		// The low byte of the little-endian word at e.addr is the byte
		// at e.addr itself, so this changes exactly that byte and keeps
		// the one at e.addr+1, whether or not e.addr is even.
		word := c.readWordCode(e.addr)
		c.writeWordCode(e.addr, (word&^0xFF)|uint16(v))
		return
	}
	c.writeByte(e.addr, v)
}

func (c *CPU) readOperand(spec uint16) uint16 {
	return c.readEA(c.resolveEA(spec, false))
}

func (c *CPU) writeOperand(spec uint16, v uint16) {
	c.writeEA(c.resolveEA(spec, false), v)
}

func (c *CPU) readOperandByte(spec uint16) uint8 {
	return c.readEAByte(c.resolveEA(spec, true))
}

func (c *CPU) writeOperandByte(spec uint16, v uint8, signExtend bool) {
	c.writeEAByte(c.resolveEA(spec, true), v, signExtend)
}

// operandAddress resolves spec to the address it names, for JMP/JSR,
// without performing the read or write a normal operand access would.
func (c *CPU) operandAddress(spec uint16) uint16 {
	e := c.resolveEA(spec, false)
	if e.isReg {
		return c.R[e.reg]
	}
	return e.addr
}
