// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive debugger for the NES CPU. A host
// owns a 2A03 CPU wired to the NES memory bus and lets you load iNES
// cartridge images or raw binaries, step and run code, set address and
// data breakpoints, watch and latch memory-mapped registers, dump and
// disassemble memory, evaluate expressions and drive the CPU from Lua
// scripts.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/nes6502/bus"
	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/disasm"
	"github.com/beevik/nes6502/ines"
	"github.com/beevik/term"
)

var errQuit = errors.New("exiting program")

// Command files may execute other command files up to this depth.
const maxExecuteDepth = 8

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles
	displayIONames

	displayAll = displayRegisters | displayCycles | displayIONames
)

type state int32

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
	stateInterrupted
	stateHalted
)

// reason describes why a run loop left the running state.
func (s state) reason() string {
	switch s {
	case stateBreakpoint, stateStepOverBreakpoint:
		return "breakpoint"
	case stateInterrupted:
		return "interrupted"
	case stateHalted:
		return "halted"
	default:
		return ""
	}
}

// A lineReader supplies command lines to the host.
type lineReader interface {
	ReadLine() (string, error)
}

type scanner struct {
	*bufio.Scanner
}

func (s scanner) ReadLine() (string, error) {
	if s.Scan() {
		return s.Text(), nil
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// A Host represents a NES CPU and its memory bus together with a
// debugger, an expression evaluator and a Lua scripting engine.
type Host struct {
	output      *bufio.Writer
	interactive bool
	terminal    bool
	color       bool
	bus         *bus.Bus
	mem         cpu.Memory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	handler     *debugHandler
	header      *ines.Header
	lastCmd     *cmd.Command
	lastArgs    []string
	lastErr     error
	state       atomic.Int32
	exprParser  *exprParser
	settings    *settings
	ioLog       []bus.Access
	brkAddr     int
	depth       int
}

// New creates a new NES CPU host environment.
func New() *Host {
	h := &Host{
		output:     bufio.NewWriter(io.Discard),
		exprParser: newExprParser(),
		settings:   newSettings(),
		brkAddr:    -1,
	}

	// Create the CPU on the bus. Inspection commands use a view of the
	// bus that never records register accesses.
	h.bus = bus.New()
	h.mem = h.bus.View()
	h.cpu = cpu.NewCPU(h.bus)

	// Create a CPU debugger and attach it to the CPU.
	h.handler = newDebugHandler(h)
	h.debugger = cpu.NewDebugger(h.handler)
	h.cpu.AttachDebugger(h.debugger)
	h.cpu.AttachUnusedOpcodeHandler(h.handler)
	h.bus.AddListener(h.handler)

	h.onSettingsUpdate()
	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. When the reader
// is a terminal, line editing, history and tab completion are available.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.interactive = interactive
	h.terminal = false
	h.color = false

	var input lineReader
	if f, ok := r.(*os.File); ok && interactive && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		if st, err := term.MakeRawInput(fd); err == nil {
			defer term.Restore(fd, st)
			t := term.NewTerminal(struct {
				io.Reader
				io.Writer
			}{r, w}, "* ")
			t.AutoCompleteCallback = h.autocomplete
			input, w = t, t
			h.terminal, h.color = true, true
		}
	}
	if input == nil {
		input = scanner{bufio.NewScanner(r)}
	}
	h.output = bufio.NewWriter(w)

	if interactive {
		h.println()
	}
	h.displayPC()

	h.runCommands(input)
	h.flush()
}

// Break interrupts a running CPU. It is safe to call from another
// goroutine, such as a signal handler.
func (h *Host) Break() {
	h.state.CompareAndSwap(int32(stateRunning), int32(stateInterrupted))
}

func (h *Host) runCommands(input lineReader) error {
	for {
		h.prompt()

		line, err := input.ReadLine()
		if errors.Is(err, term.ErrPasteIndicator) {
			err = nil
		}
		if err != nil {
			return nil
		}

		if err := h.exec(line); err != nil {
			return err
		}
	}
}

// exec looks up and runs a single command line. An empty line repeats the
// previous command when the host is interactive.
func (h *Host) exec(line string) error {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return nil
	}

	var c *cmd.Command
	var args []string
	if line == "" {
		if !h.interactive || h.lastCmd == nil {
			return nil
		}
		c, args = h.lastCmd, h.lastArgs
	} else {
		n, a, err := cmds.Lookup(line)
		switch {
		case errors.Is(err, cmd.ErrNotFound):
			h.errorf("Command not found.\n")
			return nil
		case errors.Is(err, cmd.ErrAmbiguous):
			h.errorf("Command is ambiguous.\n")
			return nil
		case err != nil:
			h.errorf("ERROR: %v.\n", err)
			return nil
		}

		if t, ok := n.(*cmd.Tree); ok {
			t.DisplayHelp(h.output)
			h.flush()
			return nil
		}
		c, args = n.(*cmd.Command), a
	}

	h.lastCmd, h.lastArgs = c, args
	handler := c.Data.(cmdHandler)
	return handler(h, c, args)
}

func (h *Host) autocomplete(line string, pos int, key rune) (newLine string, newPos int, ok bool) {
	if key != '\t' {
		return "", 0, false
	}

	matches := cmds.Autocomplete(line[:pos])
	switch len(matches) {
	case 0:
		return line, pos, true
	case 1:
		s := matches[0] + " "
		return s + line[pos:], len(s), true
	default:
		p := matches[0]
		for _, m := range matches[1:] {
			for !strings.HasPrefix(m, p) {
				p = p[:len(p)-1]
			}
		}
		if len(p) < pos {
			return line, pos, true
		}
		return p + line[pos:], len(p), true
	}
}

func (h *Host) getState() state {
	return state(h.state.Load())
}

func (h *Host) setState(s state) {
	h.state.Store(int32(s))
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) colorf(color, format string, args ...any) {
	if h.color {
		h.output.WriteString(color)
	}
	fmt.Fprintf(h.output, format, args...)
	if h.color {
		h.output.WriteString(term.Reset)
	}
	h.flush()
}

func (h *Host) errorf(format string, args ...any) {
	h.colorf(term.Red, format, args...)
}

func (h *Host) noticef(format string, args ...any) {
	h.colorf(term.Yellow, format, args...)
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) prompt() {
	if h.interactive && !h.terminal {
		h.print("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) displayUsage(c *cmd.Command) {
	c.DisplayUsage(h.output)
	h.flush()
}

func (h *Host) cmdBreakpointList(c *cmd.Command, args []string) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c *cmd.Command, args []string) error {
	b := h.breakpointArg(c, args)
	if b == nil {
		return nil
	}

	h.debugger.RemoveBreakpoint(b.Address)
	h.printf("Breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointEnable(c *cmd.Command, args []string) error {
	b := h.breakpointArg(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = false
	h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointDisable(c *cmd.Command, args []string) error {
	b := h.breakpointArg(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = true
	h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

// breakpointArg returns the existing breakpoint named by the command's
// address argument. It reports problems to the user and returns nil.
func (h *Host) breakpointArg(c *cmd.Command, args []string) *cpu.Breakpoint {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.errorf("No breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDataBreakpointList(c *cmd.Command, args []string) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	if len(args) > 1 {
		value, err := h.parseExpr(args[1])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c *cmd.Command, args []string) error {
	b := h.dataBreakpointArg(c, args)
	if b == nil {
		return nil
	}

	h.debugger.RemoveDataBreakpoint(b.Address)
	h.printf("Data breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c *cmd.Command, args []string) error {
	b := h.dataBreakpointArg(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = false
	h.printf("Data breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointDisable(c *cmd.Command, args []string) error {
	b := h.dataBreakpointArg(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = true
	h.printf("Data breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) dataBreakpointArg(c *cmd.Command, args []string) *cpu.DataBreakpoint {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.errorf("No data breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDisassemble(c *cmd.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"$"}
	}

	var addr uint16
	switch args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	case ".":
		addr = h.cpu.Reg.PC

	default:
		a, err := h.parseExpr(args[0])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(args) > 1 {
		l, err := h.parseExpr(args[1])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, displayIONames)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastArgs = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	expr := strings.Join(args, " ")
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	h.printf("$%04X (%d)\n", uint16(v), v)
	return nil
}

func (h *Host) cmdExecute(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}
	if h.depth >= maxExecuteDepth {
		h.errorf("Command files nested too deeply.\n")
		return nil
	}

	file, err := os.Open(args[0])
	if err != nil {
		h.errorf("Failed to open '%s': %v\n", filepath.Base(args[0]), err)
		return nil
	}
	defer file.Close()

	interactive := h.interactive
	h.interactive = false
	h.depth++
	defer func() {
		h.interactive = interactive
		h.depth--
	}()

	return h.runCommands(scanner{bufio.NewScanner(file)})
}

func (h *Host) cmdHeader(c *cmd.Command, args []string) error {
	if h.header == nil {
		h.println("No cartridge header loaded.")
		return nil
	}
	h.println(h.header.Summary())
	return nil
}

func (h *Host) cmdHelp(c *cmd.Command, args []string) error {
	if err := cmds.GetHelp(h.output, args); err != nil {
		h.errorf("%v.\n", err)
		return nil
	}
	h.flush()
	return nil
}

func (h *Host) cmdReset(c *cmd.Command, args []string) error {
	h.cpu.Reset()
	h.brkAddr = -1
	h.printf("CPU reset. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdNMI(c *cmd.Command, args []string) error {
	h.cpu.NMI()
	h.printf("NMI taken. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdIRQ(c *cmd.Command, args []string) error {
	if !h.cpu.IRQ() {
		h.noticef("IRQ ignored: interrupts are disabled.\n")
		return nil
	}
	h.printf("IRQ taken. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdIOList(c *cmd.Command, args []string) error {
	if len(h.ioLog) == 0 {
		h.println("No register accesses logged.")
		return nil
	}
	for _, a := range h.ioLog {
		h.println(a.String())
	}
	return nil
}

func (h *Host) cmdIOLatch(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.registerArg(args[0])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	v, err := h.parseExpr(args[1])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	h.bus.Latch(addr, byte(v))
	h.printf("%s ($%04X) latched to $%02X.\n", bus.RegisterName(addr), addr, byte(v))
	return nil
}

// registerArg resolves a memory-mapped register given by name or address.
func (h *Host) registerArg(s string) (uint16, error) {
	addr, ok := bus.RegisterAddr(s)
	if !ok {
		var err error
		if addr, err = h.parseExpr(s); err != nil {
			return 0, err
		}
	}
	if !bus.IsRegister(addr) {
		return 0, fmt.Errorf("$%04X is not a memory-mapped register", addr)
	}
	return addr, nil
}

func (h *Host) cmdIOClear(c *cmd.Command, args []string) error {
	h.ioLog = h.ioLog[:0]
	h.println("Register access log cleared.")
	return nil
}

func (h *Host) cmdLoadImage(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := args[0]
	if filepath.Ext(filename) == "" {
		filename += ".nes"
	}

	if err := h.LoadImage(filename); err != nil {
		h.errorf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded '%s': %d x 16K PRG ROM, mapper %d. PC=$%04X.\n",
		filepath.Base(filename), h.header.PRGBanks, h.header.Mapper(), h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

// LoadImage loads the PRG ROM of an iNES cartridge image and resets the
// CPU through the image's reset vector.
func (h *Host) LoadImage(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	img, err := ines.Decode(b)
	if err != nil {
		return err
	}

	h.loadImage(img)
	return nil
}

// loadImage maps the PRG ROM of a cartridge image into $8000-$FFFF, makes
// the cartridge space the program window and resets the CPU. A single 16K
// bank is mirrored into both halves of the window.
func (h *Host) loadImage(img *ines.Image) {
	prg := img.PRGWindow()
	origin := img.PRGOrigin()
	h.mem.StoreBytes(origin, prg)
	if origin == 0xc000 {
		h.mem.StoreBytes(0x8000, prg)
	}
	h.cpu.SetProgram(0x8000, 0x8000)

	header := img.Header
	h.header = &header
	h.brkAddr = -1
	h.cpu.Reset()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
}

func (h *Host) cmdLoadBinary(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	filename := args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	addr, err := h.parseExpr(args[1])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		h.errorf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	if err := h.cpu.LoadProgram(addr, b, addr); err != nil {
		h.errorf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.header = nil
	h.brkAddr = -1
	h.settings.NextDisasmAddr = addr
	h.printf("Loaded '%s' to $%04X..$%04X.\n", filepath.Base(filename), addr, int(addr)+len(b)-1)
	h.displayPC()
	return nil
}

func (h *Host) cmdLoadRaw(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := args[0]
	b, err := os.ReadFile(filename)
	if err != nil {
		h.errorf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	if err := h.loadRaw(b); err != nil {
		h.errorf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded '%s' to $0000..$%04X. PC=$%04X.\n", filepath.Base(filename), len(b)-1, h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

// loadRaw copies an entire file, header included, to $0000. Execution
// starts just past the iNES header and the program window ends with the
// file.
func (h *Host) loadRaw(b []byte) error {
	if len(b) <= ines.HeaderSize || len(b) > 0x10000 {
		return fmt.Errorf("%w: %d bytes", cpu.ErrInvalidProgram, len(b))
	}

	h.mem.StoreBytes(0, b)
	if err := h.cpu.SetProgram(ines.HeaderSize, len(b)-ines.HeaderSize); err != nil {
		return err
	}
	h.cpu.SetPC(ines.HeaderSize)

	h.header = nil
	if hdr, err := ines.ParseHeader(b); err == nil {
		h.header = &hdr
	}
	h.brkAddr = -1
	h.settings.NextDisasmAddr = ines.HeaderSize
	return nil
}

func (h *Host) cmdMemoryDump(c *cmd.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"$"}
	}

	var addr uint16
	switch args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr

	case ".":
		addr = h.cpu.Reg.PC

	default:
		a, err := h.parseExpr(args[0])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(args) >= 2 {
		var err error
		bytes, err = h.parseExpr(args[1])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastArgs = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.errorf("%v\n", err)
		return nil
	}

	for _, s := range args[1:] {
		v, err := h.parseExpr(s)
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		h.mem.StoreByte(addr, byte(v))
		addr++
	}
	return nil
}

func (h *Host) cmdMemoryCopy(c *cmd.Command, args []string) error {
	if len(args) < 3 {
		h.displayUsage(c)
		return nil
	}

	var addr [3]uint16
	for i := range addr {
		a, err := h.parseExpr(args[i])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		addr[i] = a
	}

	dst, src0, src1 := addr[0], addr[1], addr[2]
	if src1 < src0 {
		h.errorf("Source end address must not precede source start address.\n")
		return nil
	}
	if int(dst)+int(src1-src0) > 0xffff {
		h.errorf("Destination range extends past $FFFF.\n")
		return nil
	}

	b := make([]byte, int(src1-src0)+1)
	h.mem.LoadBytes(src0, b)
	h.mem.StoreBytes(dst, b)
	h.printf("Copied $%04X..$%04X to $%04X..$%04X.\n", src0, src1, dst, int(dst)+len(b)-1)
	return nil
}

func (h *Host) cmdQuit(c *cmd.Command, args []string) error {
	return errQuit
}

func (h *Host) cmdRegister(c *cmd.Command, args []string) error {
	switch len(args) {
	case 0:
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)

	case 1:
		h.displayUsage(c)

	default:
		r, err := lookupRegister(args[0])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}

		v, err := h.exprParser.Parse(strings.Join(args[1:], " "), h)
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}

		h.setRegister(r, v)
		h.printf("Register %s set to %s.\n", r.name, h.formatRegister(r))
	}
	return nil
}

func (h *Host) cmdRun(c *cmd.Command, args []string) error {
	if len(args) > 0 {
		pc, err := h.parseExpr(args[0])
		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)

	h.run(0)
	if h.getState() == stateInterrupted {
		h.noticef("Interrupted at $%04X.\n", h.cpu.Reg.PC)
		h.displayPC()
	}
	h.setState(stateProcessingCommands)

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdScript(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	err := h.runScript(args[0])
	switch {
	case errors.Is(err, errQuit):
		return err
	case err != nil:
		h.errorf("Script '%s' failed: %v\n", filepath.Base(args[0]), err)
	}
	return nil
}

func (h *Host) cmdSet(c *cmd.Command, args []string) error {
	switch len(args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := args[0], strings.Join(args[1:], " ")

		f, err := h.settings.Lookup(key)
		if err == nil {
			switch f.kind {
			case reflect.Bool:
				var v bool
				if v, err = stringToBool(value); err == nil {
					err = h.settings.Set(key, v)
				}
			default:
				var v int64
				if v, err = h.exprParser.Parse(value, h); err == nil {
					err = h.settings.Set(key, v)
				}
			}
		}

		if err != nil {
			h.errorf("%v\n", err)
			return nil
		}

		h.println("Setting updated.")
		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c *cmd.Command, args []string) error {
	h.stepN(args, func() { h.step() })
	return nil
}

func (h *Host) cmdStepOver(c *cmd.Command, args []string) error {
	h.stepN(args, h.stepOver)
	return nil
}

// stepN runs a stepping function the number of times given by the first
// argument, displaying the last few instructions stepped.
func (h *Host) stepN(args []string, fn func()) {
	count := 1
	if len(args) > 0 {
		n, err := h.parseExpr(args[0])
		if err == nil {
			count = int(n)
		}
	}

	h.setState(stateRunning)
	for i := count - 1; i >= 0 && h.getState() == stateRunning; i-- {
		fn()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.setState(stateProcessingCommands)

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
}

func (h *Host) cmdStepOut(c *cmd.Command, args []string) error {
	h.setState(stateRunning)
	depth := 0
	for h.getState() == stateRunning {
		h.step()
		if h.getState() != stateRunning {
			break
		}

		switch h.cpu.LastTrace().Inst.Name {
		case "JSR":
			depth++
		case "RTS", "RTI":
			if depth == 0 {
				h.setState(stateProcessingCommands)
			}
			depth--
		}
	}
	h.setState(stateProcessingCommands)

	h.displayPC()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// run steps the CPU until it leaves the running state or, if limit is
// positive, until limit instructions have been stepped. It returns the
// number of instructions executed.
func (h *Host) run(limit int) int {
	h.setState(stateRunning)
	n := 0
	for h.getState() == stateRunning && (limit <= 0 || n < limit) {
		if !h.step() {
			break
		}
		n++
	}
	return n
}

// step executes one instruction and delivers the register accesses it
// made. When the previous step stopped on a BRK, that BRK is executed
// instead of being reported again. It reports whether the CPU could step.
func (h *Host) step() bool {
	resume := h.brkAddr >= 0 && int(h.cpu.Reg.PC) == h.brkAddr
	h.brkAddr = -1
	if resume {
		h.cpu.AttachBrkHandler(nil)
	}

	_, err := h.cpu.Step()
	if resume {
		h.attachHandlers()
	}
	h.bus.Flush()

	if err != nil {
		h.lastErr = err
		h.setState(stateHalted)
		switch {
		case errors.Is(err, cpu.ErrProgramExhausted):
			h.errorf("Program window exhausted: PC=$%04X.\n", h.cpu.Reg.PC)
		default:
			h.errorf("Execution stopped: %v.\n", err)
		}
		return false
	}
	return true
}

func (h *Host) stepOver() {
	cpu := h.cpu

	// JSR instructions need to be handled specially.
	inst := cpu.GetInstruction(cpu.Reg.PC)
	if inst.Name != "JSR" {
		h.step()
		return
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either modify an already existing breakpoint on that instrution, or
	// create a temporary one.
	next := cpu.Reg.PC + uint16(inst.Length)
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(next)
	if b == nil {
		b = h.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	// Run until interrupted.
	for h.getState() == stateRunning {
		h.step()
	}
	b.StepOver = false

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	if h.getState() == stateStepOverBreakpoint {
		h.setState(stateRunning)
	}

	// Remove the temporarily created breakpoint.
	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(next)
	}
}

// attachHandlers installs the optional CPU handlers selected by the
// current settings.
func (h *Host) attachHandlers() {
	if h.settings.BrkStop {
		h.cpu.AttachBrkHandler(h.handler)
	} else {
		h.cpu.AttachBrkHandler(nil)
	}
	if h.settings.TraceSteps {
		h.cpu.AttachTraceHandler(h.handler)
	} else {
		h.cpu.AttachTraceHandler(nil)
	}
}

func (h *Host) onSettingsUpdate() {
	h.exprParser.hexMode = h.settings.HexMode
	h.attachHandlers()
	h.trimIOLog()
}

func (h *Host) trimIOLog() {
	n := max(h.settings.IOLogSize, 0)
	if len(h.ioLog) > n {
		h.ioLog = append(h.ioLog[:0], h.ioLog[len(h.ioLog)-n:]...)
	}
}

func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.exprParser.Parse(expr, h)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x10000 + v
	}
	return uint16(v), nil
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	var line string
	line, next = disasm.Disassemble(h.mem, addr)

	b := make([]byte, next-addr)
	h.mem.LoadBytes(addr, b)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, disasm.CodeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.FormatRegisters(&h.cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-12d", h.cpu.Cycles)
	}

	if (flags & displayIONames) != 0 {
		if name := ioName(b); name != "" {
			str += " ; " + name
		}
	}

	return str, next
}

// ioName returns the name of the memory-mapped register an absolute
// addressed instruction refers to.
func ioName(b []byte) string {
	inst := cpu.Decode(b[0])
	switch inst.Mode {
	case cpu.ABS, cpu.ABX, cpu.ABY:
		return bus.RegisterName(uint16(b[1]) | uint16(b[2])<<8)
	}
	return ""
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := addr0, 6, 32; a <= addr1 && a >= addr0; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.mem.LoadByte(a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.mem.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) resolveIdentifier(s string) (int64, error) {
	s = strings.ToLower(s)

	switch s {
	case "sp":
		return int64(h.cpu.Reg.SP) | 0x0100, nil
	case ".":
		return int64(h.cpu.Reg.PC), nil
	case "cycles":
		return int64(h.cpu.Cycles), nil
	}

	if r, err := lookupRegister(s); err == nil {
		return h.registerValue(r), nil
	}
	if addr, ok := bus.RegisterAddr(s); ok {
		return int64(addr), nil
	}

	return 0, fmt.Errorf("identifier '%s' not found", s)
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.setState(stateStepOverBreakpoint)
	} else {
		h.setState(stateBreakpoint)
		h.noticef("Breakpoint hit at $%04X.\n", b.Address)
		h.displayPC()
	}
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.noticef("Data breakpoint hit on address $%04X.\n", b.Address)

	h.setState(stateBreakpoint)

	if cpu.LastPC != cpu.Reg.PC {
		d, _ := h.disassemble(cpu.LastPC, displayAll)
		h.println(d)
	}

	h.displayPC()
}

func (h *Host) onBrk(cpu *cpu.CPU) {
	h.brkAddr = int(cpu.Reg.PC)
	h.setState(stateBreakpoint)
	h.noticef("BRK at $%04X.\n", cpu.Reg.PC)
	h.displayPC()
}

func (h *Host) onUnusedOpcode(cpu *cpu.CPU, inst *cpu.Instruction, addr uint16) {
	if h.settings.LogUnused {
		h.noticef("Unimplemented opcode $%02X at $%04X.\n", inst.Opcode, addr)
	}
}

func (h *Host) onTrace(cpu *cpu.CPU, t *cpu.Trace) {
	h.println(disasm.FormatTrace(t))
}

func (h *Host) onAccess(a bus.Access) {
	h.ioLog = append(h.ioLog, a)
	h.trimIOLog()
	if h.settings.LogIO {
		h.printf("    %s\n", a)
	}
}
