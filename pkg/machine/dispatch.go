package machine

// opEntry pairs a mask/value match against the fetched instruction
// word with the function that carries it out, in the disamtable style:
// checked in order, first match wins.
type opEntry struct {
	mask, value uint16
	exec        func(c *CPU, instr uint16)
}

var opTable = []opEntry{
	{0177777, 0000000, execHALT},
	{0177770, 0000020, execRTS},
	{0177700, 0000100, execJMP},
	{0177000, 0004000, execJSR},
	{0177400, 0104000, execTRAP},

	{0177700, 0005000, execCLR},
	{0177700, 0005200, execINC},
	{0177700, 0005300, execDEC},
	{0177700, 0005700, execTST},
	{0177700, 0006000, execROR},
	{0177700, 0006100, execROL},
	{0177700, 0006200, execASR},
	{0177700, 0006300, execASL},

	{0177700, 0105000, execCLRB},
	{0177700, 0105200, execINCB},
	{0177700, 0105300, execDECB},
	{0177700, 0105700, execTSTB},

	{0177400, 0000400, execBR},
	{0177400, 0001000, execBNE},
	{0177400, 0001400, execBEQ},

	{0170000, 0010000, execMOV},
	{0170000, 0020000, execCMP},
	{0170000, 0030000, execBIT},
	{0170000, 0040000, execBIC},
	{0170000, 0050000, execBIS},
	{0170000, 0060000, execADD},
	{0170000, 0160000, execSUB},

	{0170000, 0110000, execMOVB},
	{0170000, 0120000, execCMPB},
	{0170000, 0130000, execBITB},
	{0170000, 0140000, execBICB},
	{0170000, 0150000, execBISB},
}

// Step fetches, decodes, and executes exactly one instruction. It
// returns a *FaultError for an instruction word matching no table
// entry.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}

	c.pc = c.R[7]
	instr := c.fetchWord()

	for _, e := range opTable {
		if instr&e.mask == e.value {
			e.exec(c, instr)
			return nil
		}
	}

	return &FaultError{PC: c.pc, Instr: instr}
}

func execHALT(c *CPU, _ uint16) {
	c.Halted = true
}

func execRTS(c *CPU, instr uint16) {
	reg := instr & 7
	old := c.R[reg]
	c.R[reg] = c.readWord(c.R[6])
	c.R[6] += 2
	c.R[7] = old
}

func execJMP(c *CPU, instr uint16) {
	c.R[7] = c.operandAddress(instr & 077)
}

func execJSR(c *CPU, instr uint16) {
	reg := (instr >> 6) & 7
	addr := c.operandAddress(instr & 077)
	c.R[6] -= 2
	c.writeWord(c.R[6], c.R[reg])
	c.R[reg] = c.R[7]
	c.R[7] = addr
}

func execCLR(c *CPU, instr uint16) {
	c.writeOperand(instr&077, 0)
	c.psw = c.psw &^ (FLAGN | FLAGV | FLAGC)
	c.psw |= FLAGZ
}

func execINC(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, false)
	val := c.readEA(e)
	res := val + 1
	c.writeEA(e, res)
	c.setNZ(res)
	c.setFlag(FLAGV, val == 0x7FFF)
}

func execDEC(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, false)
	val := c.readEA(e)
	res := val - 1
	c.writeEA(e, res)
	c.setNZ(res)
	c.setFlag(FLAGV, val == 0x8000)
}

func execTST(c *CPU, instr uint16) {
	val := c.readOperand(instr & 077)
	c.setNZ(val)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func execROR(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, false)
	val := c.readEA(e)
	newC := val&1 != 0
	res := val >> 1
	if c.c() {
		res |= 0x8000
	}
	c.writeEA(e, res)
	c.setFlag(FLAGC, newC)
	c.setNZ(res)
	c.setFlag(FLAGV, c.n() != c.c())
}

func execROL(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, false)
	val := c.readEA(e)
	newC := val&0x8000 != 0
	res := val << 1
	if c.c() {
		res |= 1
	}
	c.writeEA(e, res)
	c.setFlag(FLAGC, newC)
	c.setNZ(res)
	c.setFlag(FLAGV, c.n() != c.c())
}

func execASR(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, false)
	val := c.readEA(e)
	newC := val&1 != 0
	res := (val & 0x8000) | (val >> 1)
	c.writeEA(e, res)
	c.setFlag(FLAGC, newC)
	c.setNZ(res)
	c.setFlag(FLAGV, c.n() != c.c())
}

func execASL(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, false)
	val := c.readEA(e)
	newC := val&0x8000 != 0
	res := val << 1
	c.writeEA(e, res)
	c.setFlag(FLAGC, newC)
	c.setNZ(res)
	c.setFlag(FLAGV, c.n() != c.c())
}

func execCLRB(c *CPU, instr uint16) {
	c.writeOperandByte(instr&077, 0, false)
	c.psw = c.psw &^ (FLAGN | FLAGV | FLAGC)
	c.psw |= FLAGZ
}

func execINCB(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, true)
	val := c.readEAByte(e)
	res := val + 1
	c.writeEAByte(e, res, false)
	c.setNZByte(res)
	c.setFlag(FLAGV, val == 0x7F)
}

func execDECB(c *CPU, instr uint16) {
	e := c.resolveEA(instr&077, true)
	val := c.readEAByte(e)
	res := val - 1
	c.writeEAByte(e, res, false)
	c.setNZByte(res)
	c.setFlag(FLAGV, val == 0x80)
}

func execTSTB(c *CPU, instr uint16) {
	val := c.readOperandByte(instr & 077)
	c.setNZByte(val)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func branchOffset(instr uint16) int16 {
	return int16(int8(instr & 0xFF))
}

func execBR(c *CPU, instr uint16) {
	c.R[7] += uint16(branchOffset(instr) * 2)
}

func execBNE(c *CPU, instr uint16) {
	if !c.z() {
		execBR(c, instr)
	}
}

func execBEQ(c *CPU, instr uint16) {
	if c.z() {
		execBR(c, instr)
	}
}

func execMOV(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	val := c.readOperand(src)
	c.writeOperand(dst, val)
	c.setNZ(val)
	c.setFlag(FLAGV, false)
}

func execCMP(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperand(src)
	d := c.readOperand(dst)
	res := uint32(d) - uint32(s)
	r16 := uint16(res)
	c.setNZ(r16)
	c.setFlag(FLAGV, (d^s)&(d^r16)&0x8000 != 0)
	c.setFlag(FLAGC, res&0x10000 != 0)
}

func execADD(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperand(src)
	e := c.resolveEA(dst, false)
	d := c.readEA(e)
	res := uint32(s) + uint32(d)
	r16 := uint16(res)
	c.writeEA(e, r16)
	c.setNZ(r16)
	c.setFlag(FLAGV, (^(s^d))&(s^r16)&0x8000 != 0)
	c.setFlag(FLAGC, res&0x10000 != 0)
}

func execSUB(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperand(src)
	e := c.resolveEA(dst, false)
	d := c.readEA(e)
	res := uint32(d) - uint32(s)
	r16 := uint16(res)
	c.writeEA(e, r16)
	c.setNZ(r16)
	c.setFlag(FLAGV, (d^s)&(d^r16)&0x8000 != 0)
	c.setFlag(FLAGC, res&0x10000 != 0)
}

func execBIT(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperand(src)
	d := c.readOperand(dst)
	c.setNZ(s & d)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func execBIC(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperand(src)
	e := c.resolveEA(dst, false)
	d := c.readEA(e)
	res := d &^ s
	c.writeEA(e, res)
	c.setNZ(res)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func execBIS(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperand(src)
	e := c.resolveEA(dst, false)
	d := c.readEA(e)
	res := d | s
	c.writeEA(e, res)
	c.setNZ(res)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func execMOVB(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	val := c.readOperandByte(src)
	c.writeOperandByte(dst, val, true)
	c.setNZByte(val)
	c.setFlag(FLAGV, false)
}

func execCMPB(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperandByte(src)
	d := c.readOperandByte(dst)
	res := uint16(d) - uint16(s)
	r8 := uint8(res)
	c.setNZByte(r8)
	c.setFlag(FLAGV, (d^s)&(d^r8)&0x80 != 0)
	c.setFlag(FLAGC, res&0x100 != 0)
}

func execBITB(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperandByte(src)
	d := c.readOperandByte(dst)
	c.setNZByte(s & d)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func execBICB(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperandByte(src)
	e := c.resolveEA(dst, true)
	d := c.readEAByte(e)
	res := d &^ s
	c.writeEAByte(e, res, false)
	c.setNZByte(res)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}

func execBISB(c *CPU, instr uint16) {
	src, dst := (instr>>6)&077, instr&077
	s := c.readOperandByte(src)
	e := c.resolveEA(dst, true)
	d := c.readEAByte(e)
	res := d | s
	c.writeEAByte(e, res, false)
	c.setNZByte(res)
	c.setFlag(FLAGV, false)
	c.setFlag(FLAGC, false)
}
