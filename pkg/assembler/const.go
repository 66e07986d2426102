package assembler

// Opcode base values. All constants are written in base 8 to match the
// PDP-11 field layout they encode into (base | src<<6 | dst, or
// base | dst for single-operand forms).

const (
	opMOV = 0010000
	opCMP = 0020000
	opBIT = 0030000
	opBIC = 0040000
	opBIS = 0050000
	opADD = 0060000
	opSUB = 0160000

	opMOVB = 0110000
	opCMPB = 0120000
	opBITB = 0130000
	opBICB = 0140000
	opBISB = 0150000
)

const (
	opCLR = 0005000
	opINC = 0005200
	opDEC = 0005300
	opTST = 0005700
	opROR = 0006000
	opROL = 0006100
	opASR = 0006200
	opASL = 0006300
	opJMP = 0000100

	opCLRB = 0105000
	opINCB = 0105200
	opDECB = 0105300
	opTSTB = 0105700
)

const (
	opHALT = 0000000
	opRTS  = 0000020
	opTRAP = 0104000
	opJSR  = 0004000

	opBR  = 0000400
	opBNE = 0001000
	opBEQ = 0001400
)

// doubleOpWord/doubleOpByte/singleOpWord/singleOpByte map an upper-cased
// mnemonic to its base opcode. They are consulted in this order by the
// two-pass driver so that e.g. MOVB is tried before the single-operand
// table (which never contains it).
var doubleOpWord = map[string]uint16{
	"MOV": opMOV,
	"CMP": opCMP,
	"BIT": opBIT,
	"BIC": opBIC,
	"BIS": opBIS,
	"ADD": opADD,
	"SUB": opSUB,
}

var doubleOpByte = map[string]uint16{
	"MOVB": opMOVB,
	"CMPB": opCMPB,
	"BITB": opBITB,
	"BICB": opBICB,
	"BISB": opBISB,
}

var singleOpWord = map[string]uint16{
	"CLR": opCLR,
	"INC": opINC,
	"DEC": opDEC,
	"TST": opTST,
	"ROR": opROR,
	"ROL": opROL,
	"ASR": opASR,
	"ASL": opASL,
	"JMP": opJMP,
}

var singleOpByte = map[string]uint16{
	"CLRB": opCLRB,
	"INCB": opINCB,
	"DECB": opDECB,
	"TSTB": opTSTB,
}

var branchOps = map[string]uint16{
	"BR":  opBR,
	"BNE": opBNE,
	"BEQ": opBEQ,
}
