// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the 2A03 CPU found in the NES: an NMOS 6502
// instruction set without decimal arithmetic.
package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrProgramExhausted = errors.New("program counter outside program image")
	ErrInvalidProgram   = errors.New("invalid program window")
)

// BrkHandler is an interface implemented by types that wish to be notified
// when a BRK instruction is about to be executed.
type BrkHandler interface {
	OnBrk(cpu *CPU)
}

// UnusedOpcodeHandler is an interface implemented by types that wish to be
// notified after the CPU steps over an unofficial opcode.
type UnusedOpcodeHandler interface {
	OnUnusedOpcode(cpu *CPU, inst *Instruction, addr uint16)
}

// CPU represents a single 2A03 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Reg           Registers       // CPU registers
	Mem           Memory          // assigned memory
	Cycles        uint64          // total executed CPU cycles
	LastPC        uint16          // Previous program counter
	InstSet       *InstructionSet // Instruction set used by the CPU
	program       Program
	deltaCycles   int8
	trace         Trace
	debugger      *Debugger
	brkHandler    BrkHandler
	unusedHandler UnusedOpcodeHandler
	traceHandler  TraceHandler
	storeByte     func(cpu *CPU, addr uint16, v byte)
}

// A Program describes the window of memory holding the supplied program
// image: code starts at Start and occupies Length bytes. A zero Length
// means the whole address space is executable.
type Program struct {
	Start  uint16
	Length int
}

// Contains reports whether the 'n' bytes starting at 'addr' all lie inside
// the program window.
func (p Program) Contains(addr uint16, n int) bool {
	if p.Length == 0 {
		return true
	}
	return int(addr) >= int(p.Start) && int(addr)+n <= int(p.Start)+p.Length
}

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe
)

// Number of cycles taken by the reset and interrupt sequences.
const interruptCycles = 7

// NewCPU creates an emulated 2A03 CPU bound to the specified memory. The
// registers start in their power-up state with PC = 0; call Reset to
// load the reset vector or SetPC to start elsewhere.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:       m,
		InstSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reg.Init()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// SetProgram configures the program window. Instructions fetched from
// outside [start, start+length) cause Step to fail with
// ErrProgramExhausted. A length of zero removes the window.
func (cpu *CPU) SetProgram(start uint16, length int) error {
	if length < 0 || int(start)+length > 0x10000 {
		return fmt.Errorf("%w: $%04X+%d", ErrInvalidProgram, start, length)
	}
	cpu.program = Program{Start: start, Length: length}
	return nil
}

// Program returns the configured program window.
func (cpu *CPU) Program() Program {
	return cpu.program
}

// LoadProgram copies 'image' into memory at 'origin', configures the
// program window to cover it and sets the program counter to 'entry'.
func (cpu *CPU) LoadProgram(origin uint16, image []byte, entry uint16) error {
	if err := cpu.SetProgram(origin, len(image)); err != nil {
		return err
	}
	cpu.Mem.StoreBytes(origin, image)
	cpu.SetPC(entry)
	return nil
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode := cpu.Mem.LoadByte(addr)
	return cpu.InstSet.Lookup(opcode)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	opcode := cpu.Mem.LoadByte(addr)
	inst := cpu.InstSet.Lookup(opcode)
	return addr + uint16(inst.Length)
}

// Step the cpu by one instruction and return the number of cycles it
// took. Step fails only when a program window is configured and the
// instruction at PC does not lie wholly inside it; the CPU state is left
// untouched in that case.
func (cpu *CPU) Step() (int, error) {
	pc := cpu.Reg.PC
	if !cpu.program.Contains(pc, 1) {
		return 0, fmt.Errorf("%w: PC=$%04X", ErrProgramExhausted, pc)
	}

	// Grab the next opcode at the current PC and look up its instruction.
	inst := cpu.InstSet.Lookup(cpu.Mem.LoadByte(pc))
	if !cpu.program.Contains(pc, int(inst.Length)) {
		return 0, fmt.Errorf("%w: %s at $%04X truncated", ErrProgramExhausted, inst.Name, pc)
	}

	// If a BRK instruction is about to be executed and a BRK handler has been
	// installed, call the BRK handler instead of executing the instruction.
	if inst.Opcode == 0x00 && cpu.brkHandler != nil {
		cpu.brkHandler.OnBrk(cpu)
		return 0, nil
	}

	// Fetch the operand (if any) and advance the PC.
	var buf [2]byte
	operand := buf[:inst.Length-1]
	cpu.Mem.LoadBytes(pc+1, operand)
	cpu.LastPC = pc
	cpu.Reg.PC = pc + uint16(inst.Length)

	// Resolve the operand and execute the instruction.
	op := Resolve(inst.Mode, operand, &cpu.Reg, cpu.Mem)
	cpu.deltaCycles = 0
	inst.fn(cpu, inst, &op)

	// Branches account for their own page crossings.
	cycles := int(inst.Cycles) + int(cpu.deltaCycles)
	if op.PageCrossed && inst.Mode != REL {
		cycles += int(inst.BPCycles)
	}
	cpu.Cycles += uint64(cycles)

	cpu.trace = Trace{
		PC:       pc,
		Inst:     inst,
		Operand:  buf,
		Resolved: op,
		Cycles:   cycles,
		Reg:      cpu.Reg,
	}

	if inst.Unused && cpu.unusedHandler != nil {
		cpu.unusedHandler.OnUnusedOpcode(cpu, inst, pc)
	}
	if cpu.traceHandler != nil {
		cpu.traceHandler.OnTrace(cpu, &cpu.trace)
	}

	// Update the debugger so it handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return cycles, nil
}

// LastTrace returns the trace of the most recently executed instruction.
func (cpu *CPU) LastTrace() *Trace {
	return &cpu.trace
}

// Reset runs the reset sequence. The stack pointer drops by three as the
// three pushes are performed with writes suppressed, interrupts are
// disabled and PC is loaded from the reset vector at $FFFC.
func (cpu *CPU) Reset() {
	cpu.Reg.SP -= 3
	cpu.Reg.PS.Set(InterruptDisable)
	cpu.Reg.PC = cpu.Mem.LoadAddress(vectorReset)
	cpu.Cycles += interruptCycles
}

// NMI raises a non-maskable interrupt: PC and status are pushed,
// interrupts are disabled and PC is loaded from the vector at $FFFA.
func (cpu *CPU) NMI() {
	cpu.interrupt(false, vectorNMI)
	cpu.Cycles += interruptCycles
}

// IRQ raises a maskable interrupt request through the vector at $FFFE.
// The request is ignored while the InterruptDisable flag is set. IRQ
// reports whether the interrupt was taken.
func (cpu *CPU) IRQ() bool {
	if cpu.Reg.PS.Get(InterruptDisable) {
		return false
	}
	cpu.interrupt(false, vectorIRQ)
	cpu.Cycles += interruptCycles
	return true
}

// AttachBrkHandler attaches a handler that is called whenever the BRK
// instruction is executed.
func (cpu *CPU) AttachBrkHandler(handler BrkHandler) {
	cpu.brkHandler = handler
}

// AttachUnusedOpcodeHandler attaches a handler that is called after each
// unofficial opcode is stepped over.
func (cpu *CPU) AttachUnusedOpcodeHandler(handler UnusedOpcodeHandler) {
	cpu.unusedHandler = handler
}

// AttachTraceHandler attaches a handler that receives the trace of every
// executed instruction. Pass nil to detach it.
func (cpu *CPU) AttachTraceHandler(handler TraceHandler) {
	cpu.traceHandler = handler
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the current debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Load the byte value of a resolved operand. Memory reads are recorded in
// the operand.
func (cpu *CPU) load(op *Operand) byte {
	switch op.Mode {
	case IMM, ACC:
		return op.Value
	case IMP, REL:
		panic("invalid addressing mode")
	}
	op.Value = cpu.Mem.LoadByte(op.Addr)
	return op.Value
}

// Store the byte value 'v' to the location of a resolved operand.
func (cpu *CPU) store(op *Operand, v byte) {
	switch op.Mode {
	case ACC:
		cpu.Reg.A = v
	case IMM, IMP, REL:
		panic("invalid addressing mode")
	default:
		cpu.storeByte(cpu, op.Addr, v)
	}
	op.Value = v
}

// Take a relative branch if flag 'f' equals 'want'. A taken branch costs
// one extra cycle, plus the instruction's page penalty if the target lies
// on a different page.
func (cpu *CPU) branch(inst *Instruction, op *Operand, f Flag, want bool) {
	if cpu.Reg.PS.Get(f) != want {
		return
	}
	cpu.Reg.PC = op.Addr
	cpu.deltaCycles++
	if op.PageCrossed {
		cpu.deltaCycles += int8(inst.BPCycles)
	}
}

// Store the byte value 'v' at the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

// Store the byte value 'v' at the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Mem.StoreByte(addr, v)
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack, high byte first.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() byte {
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack.
func (cpu *CPU) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(lo) | (uint16(hi) << 8)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.PS.Put(Zero, v == 0)
	cpu.Reg.PS.Put(Negative, v&0x80 != 0)
}

// Push the program counter and status flags, disable interrupts and
// continue at the address stored in 'vector'.
func (cpu *CPU) interrupt(brk bool, vector uint16) {
	cpu.pushAddress(cpu.Reg.PC)
	cpu.push(cpu.Reg.PS.Push(brk))
	cpu.Reg.PS.Set(InterruptDisable)
	cpu.Reg.PC = cpu.Mem.LoadAddress(vector)
}
