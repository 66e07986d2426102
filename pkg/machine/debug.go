package machine

import "fmt"

// WatchDescriptor selects which data-bank accesses get logged: either
// every access (TraceAll) or ones whose address falls in [Start, End]
// inclusive, when Enabled.
type WatchDescriptor struct {
	Enabled  bool
	TraceAll bool
	Start    uint16
	End      uint16
}

func (c *CPU) watched(addr uint16) bool {
	if c.Watch.TraceAll {
		return true
	}
	return c.Watch.Enabled && addr >= c.Watch.Start && addr <= c.Watch.End
}

// trace emits one memory-watch log line for a data-bank access. dir is
// 'R' or 'W', size is 1 or 2 bytes. Code-bank fetches never call this.
func (c *CPU) trace(dir byte, addr uint16, size int, val uint32) {
	if !c.watched(addr) {
		return
	}
	width := 4
	if size == 1 {
		width = 2
	}
	fmt.Fprintf(c.Log, "MEM %c PC=0x%04X addr=0x%04X size=%d val=0x%0*X\n",
		dir, c.pc, addr, size, width, val)
}

// SetBreakpoint adds addr to the breakpoint set the run loop checks
// before every step.
func (c *CPU) SetBreakpoint(addr uint16) {
	c.Breakpoints[addr] = struct{}{}
}

// ClearBreakpoints empties the breakpoint set and clears any sticky
// break-hit state from a previous run.
func (c *CPU) ClearBreakpoints() {
	c.Breakpoints = make(map[uint16]struct{})
	c.BreakHit = false
	c.BreakAddr = 0
}
