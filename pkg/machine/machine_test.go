package machine

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

// run loads hand-encoded words at address 0, for tests that don't want
// to pull in the assembler package (each entry is a raw instruction or
// extension word), and runs them for at most maxSteps instructions.
func run(t *testing.T, words []uint16, maxSteps int) *CPU {
	t.Helper()
	c := New()
	c.Load(0, words)
	if _, err := c.Run(maxSteps); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return c
}

func TestMovImmediateThenHalt(t *testing.T) {
	is := is.New(t)
	// MOV #1234, R0 ; HALT
	words := []uint16{
		opWord(0010000, 027, 0), // MOV, src=mode2 reg7 (immediate), dst=R0
		1234,
		0,
	}
	c := run(t, words, 10)
	is.Equal(c.R[0], uint16(1234))
	is.True(c.Halted)
}

func TestDecLoopSetsZero(t *testing.T) {
	is := is.New(t)
	// MOV #5, R0; L: DEC R0; BNE L; HALT
	offset := int8(-2)
	words := []uint16{
		opWord(0010000, 027, 0), // MOV #5, R0
		5,
		0005300,                       // DEC R0 (mode0 reg0)
		0001000 | uint16(offset)&0xFF, // BNE -2 words
		0,
	}
	c := run(t, words, 100)
	is.Equal(c.R[0], uint16(0))
	_, z, _, _ := c.Flags()
	is.True(z)
}

func TestJsrRts(t *testing.T) {
	is := is.New(t)
	// MOV #0, R0; JSR R5, S; HALT; S: INC R0; RTS R5
	// S is at byte address 10; the JSR operand's extension word carries
	// the PC-relative displacement from the address right after that
	// extension is fetched (8) to S (10), i.e. 2.
	words := []uint16{
		opWord(0010000, 027, 0), // MOV #0, R0
		0,
		0004000 | (5 << 6) | 067, // JSR R5, S (mode 6, reg 7: PC-relative)
		2,                        // displacement to S
		0,                        // HALT
		0005200,                  // INC R0 (S:)
		0000020 | 5,              // RTS R5
	}
	c := run(t, words, 100)
	is.Equal(c.R[0], uint16(1))
	is.True(c.Halted)
}

func TestAslOverflow(t *testing.T) {
	is := is.New(t)
	// MOV #0x4000, R0; ASL R0
	words := []uint16{
		opWord(0010000, 0027, 0),
		0x4000,
		0006300, // ASL R0
	}
	c := New()
	c.Load(0, words)
	if _, err := c.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	is.Equal(c.R[0], uint16(0x8000))
	n, z, v, cf := c.Flags()
	is.True(n)
	is.True(!z)
	is.True(v)
	is.True(!cf)
}

func TestClrbPreservesHighByte(t *testing.T) {
	is := is.New(t)
	// MOV #0x1234, R0; CLRB R0
	words := []uint16{
		opWord(0010000, 0027, 0),
		0x1234,
		0105000, // CLRB R0
	}
	c := run(t, words, 10)
	is.Equal(c.R[0], uint16(0x1200))
}

func TestBankedMemoryRoundTrip(t *testing.T) {
	is := is.New(t)
	c := New()
	c.MemBank = 2
	c.writeWord(0x100, 0xBEEF)
	c.MemBank = 3
	is.Equal(c.readWord(0x100), uint16(0))
	c.MemBank = 2
	is.Equal(c.readWord(0x100), uint16(0xBEEF))
}

func TestCodeBankWriteVisibleRegardlessOfDataBank(t *testing.T) {
	is := is.New(t)
	c := New()
	c.MemBank = 3
	c.writeWordCode(0x50, 0x1111)
	is.Equal(c.readWordCode(0x50), uint16(0x1111))
}

func TestFaultOnUnimplementedInstruction(t *testing.T) {
	c := New()
	c.Load(0, []uint16{0177777}) // not in the opcode table
	_, err := c.Run(1)
	if err == nil {
		t.Fatal("expected a fault error")
	}
	if !strings.Contains(err.Error(), "unimplemented instruction") {
		t.Errorf("err = %v, want unimplemented instruction", err)
	}
}

func TestBreakpointStopsBeforeExecuting(t *testing.T) {
	is := is.New(t)
	c := New()
	c.Load(0, []uint16{
		opWord(0010000, 0027, 0), // MOV #7, R0
		7,
		0,
	})
	c.SetBreakpoint(4) // address of the HALT word
	reason, err := c.Run(10)
	is.NoErr(err)
	is.Equal(reason, StopBreakpoint)
	is.True(c.BreakHit)
	is.Equal(c.BreakAddr, uint16(4))
	is.Equal(c.R[0], uint16(7))
	is.True(!c.Halted)
}

func TestMemoryWatchTrace(t *testing.T) {
	is := is.New(t)
	var sb strings.Builder
	c := New()
	c.Log = &sb
	c.Watch = WatchDescriptor{Enabled: true, Start: 0x10, End: 0x10}
	c.writeWord(0x10, 0x42)
	is.True(strings.Contains(sb.String(), "MEM W PC=0x0000 addr=0x0010 size=2 val=0x0042"))
}

func TestIncAutoincrementResolvesEaOnce(t *testing.T) {
	is := is.New(t)
	// INC (R1)+
	c := New()
	c.Load(0, []uint16{
		0005221, // INC (R1)+ (mode2 reg1)
		0,       // HALT
	})
	c.R[1] = 0x100
	c.writeWord(0x100, 5)

	if _, err := c.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	is.Equal(c.readWord(0x100), uint16(6))
	is.Equal(c.R[1], uint16(0x102)) // advanced exactly once
}

func TestIncPcRelativeWritesCodeBank(t *testing.T) {
	is := is.New(t)
	// INC 12(R7), targeting 0x10, executed with a non-zero data bank selected: the
	// destination is PC-relative, so it must land in the code bank
	// regardless of which data bank is active.
	c := New()
	c.Load(0, []uint16{
		0005267, // INC 12(R7) (mode6 reg7)
		12,      // displacement: 4 (pc after extension) + 12 = 0x10
		0,       // HALT
	})
	c.writeWordCode(0x10, 41)
	c.MemBank = 3

	if _, err := c.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	is.Equal(c.readWordCode(0x10), uint16(42))
	is.Equal(c.readWordBank(3, 0x10), uint16(0)) // untouched
}

// opWord builds a double-operand instruction word from its base opcode
// and 6-bit src/dst specs.
func opWord(base, src, dst uint16) uint16 {
	return base | (src << 6) | dst
}
