// pdp11 assembles and runs the two-pass symbolic assembler's programs
// on the fetch-decode-execute core in pkg/machine.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pdp11kit/pdp11/pkg/assembler"
	"github.com/pdp11kit/pdp11/pkg/disasm"
	"github.com/pdp11kit/pdp11/pkg/machine"
	"github.com/pdp11kit/pdp11/pkg/symtab"
	"github.com/pdp11kit/pdp11/pkg/wordimage"
)

func main() {
	var cli struct {
		Run runCmd `cmd:"" default:"1" help:"assemble and run a program"`
		Asm asmCmd `cmd:"" help:"assemble a program to a word-image binary"`
	}

	ctx := kong.Parse(&cli, kong.Exit(func(code int) {
		os.Exit(usageExitCode(code))
	}))
	err := ctx.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pdp11:", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// usageExitCode remaps kong's own exit(1)-on-parse-failure into the
// CLI surface's usage-error code, which also happens to be 1, but
// keeps the mapping explicit rather than accidental.
func usageExitCode(code int) int {
	if code == 0 {
		return 0
	}
	return 1
}

type asmCmd struct {
	Source string `arg:"" type:"existingfile" help:"assembly source file"`
	Out    string `name:"out" default:"a.out" help:"path for the word-image binary"`
	Map    string `name:"map" help:"path to write the symbol map"`
}

func (a *asmCmd) Run() error {
	prog, err := assembler.AssembleFile(a.Source)
	if err != nil {
		return usageError{err}
	}

	f, err := os.Create(a.Out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := wordimage.Encode(f, prog.Words); err != nil {
		return err
	}

	if a.Map != "" {
		mf, err := os.Create(a.Map)
		if err != nil {
			return err
		}
		defer mf.Close()
		if err := symtab.Write(mf, prog.Symbols); err != nil {
			return err
		}
	}
	return nil
}

type runCmd struct {
	Source     string `arg:"" type:"existingfile" help:"assembly source file"`
	MaxSteps   int    `arg:"" optional:"" default:"1000000" help:"instruction budget"`
	Trace      bool   `name:"trace" help:"print each instruction before it executes"`
	TraceMem   bool   `name:"trace-mem" help:"log every data-bank memory access"`
	Watch      string `name:"watch" help:"trace accesses in addr[:len]"`
	MapOut     string `name:"map" help:"write the assembled symbol map to this path"`
	DumpSym    bool   `name:"dump-symbols" help:"print the symbol map to stdout before running"`
	Break      string `name:"break" help:"breakpoint address, as label or 0xADDR"`
}

// usageError marks a failure the CLI surface classifies as exit code
// 1 rather than 2: bad flags or a source file that won't assemble.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }

func (r *runCmd) Run() error {
	prog, err := assembler.AssembleFile(r.Source)
	if err != nil {
		return usageError{err}
	}

	if r.DumpSym {
		symtab.Write(os.Stdout, prog.Symbols)
	}
	if r.MapOut != "" {
		mf, err := os.Create(r.MapOut)
		if err != nil {
			return err
		}
		defer mf.Close()
		if err := symtab.Write(mf, prog.Symbols); err != nil {
			return err
		}
	}

	cpu := machine.New()
	cpu.Log = os.Stdout
	cpu.InChar = readStdinByte
	cpu.OutChar = writeStdoutByte
	cpu.Load(prog.Start, prog.Words)

	if r.Watch != "" {
		wd, err := parseWatch(r.Watch)
		if err != nil {
			return usageError{err}
		}
		cpu.Watch = wd
	}
	if r.TraceMem {
		cpu.Watch.Enabled = true
		cpu.Watch.TraceAll = true
	}
	if r.Break != "" {
		addr, err := resolveBreak(r.Break, prog.Symbols)
		if err != nil {
			return usageError{err}
		}
		cpu.SetBreakpoint(addr)
	}

	restore := enableRawConsole()
	defer restore()

	reason, err := runTraced(cpu, r.MaxSteps, r.Trace)
	if err != nil {
		return runtimeError{err}
	}

	switch reason {
	case machine.StopBreakpoint:
		fmt.Fprintf(os.Stderr, "pdp11: breakpoint hit at 0x%04X\n", cpu.BreakAddr)
	case machine.StopStepLimit:
		if !cpu.Halted {
			fmt.Fprintln(os.Stderr, "pdp11: step limit reached")
		}
	}
	return nil
}

// runtimeError marks a failure the CLI surface classifies as exit
// code 2: the core faulted mid-run.
type runtimeError struct{ err error }

func (r runtimeError) Error() string { return r.err.Error() }

// runTraced steps the core one instruction at a time when tracing is
// on, printing the disassembly of each instruction before it runs;
// otherwise it defers to the core's own run loop.
func runTraced(cpu *machine.CPU, maxSteps int, trace bool) (machine.StopReason, error) {
	if !trace {
		return cpu.Run(maxSteps)
	}

	for i := 0; i < maxSteps; i++ {
		if cpu.Halted {
			return machine.StopHalted, nil
		}
		if _, hit := cpu.Breakpoints[cpu.R[7]]; hit && len(cpu.Breakpoints) > 0 {
			cpu.BreakHit = true
			cpu.BreakAddr = cpu.R[7]
			return machine.StopBreakpoint, nil
		}
		in := disasm.Disassemble(cpu, cpu.R[7])
		fmt.Fprintf(os.Stdout, "0x%04X  %s\n", in.Addr, in.Text)
		if err := cpu.Step(); err != nil {
			return machine.StopStepLimit, err
		}
		if cpu.Halted {
			return machine.StopHalted, nil
		}
	}
	return machine.StopStepLimit, nil
}

// parseWatch accepts addr or addr:len and turns it into an inclusive
// range. addr is always hex, with or without a 0x prefix; len is
// decimal unless prefixed (0x hex, 0 or 0o octal, 0b binary).
func parseWatch(spec string) (machine.WatchDescriptor, error) {
	parts := strings.SplitN(spec, ":", 2)
	start, err := parseAddr(parts[0])
	if err != nil {
		return machine.WatchDescriptor{}, err
	}
	length := uint16(1)
	if len(parts) == 2 {
		n, err := strconv.ParseUint(parts[1], 0, 16)
		if err != nil {
			return machine.WatchDescriptor{}, fmt.Errorf("invalid watch length %q", parts[1])
		}
		length = uint16(n)
	}
	end := start
	if length > 0 {
		end = start + length - 1
	}
	return machine.WatchDescriptor{Enabled: true, Start: start, End: end}, nil
}

func parseAddr(tok string) (uint16, error) {
	tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	v, err := strconv.ParseUint(tok, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", tok)
	}
	return uint16(v), nil
}

// resolveBreak accepts either a label bound in symbols or a raw
// 0xADDR literal.
func resolveBreak(tok string, symbols map[string]uint16) (uint16, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		return parseAddr(tok)
	}
	addr, ok := symbols[strings.ToUpper(tok)]
	if !ok {
		return 0, fmt.Errorf("undefined breakpoint label: %s", tok)
	}
	return addr, nil
}

func readStdinByte() int {
	var b [1]byte
	n, err := os.Stdin.Read(b[:])
	if n == 0 || err != nil {
		return -1
	}
	return int(b[0])
}

func writeStdoutByte(b byte) {
	os.Stdout.Write([]byte{b})
}
