// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An Operand is the result of resolving an instruction's addressing mode.
type Operand struct {
	Mode        Mode   // addressing mode that produced the operand
	Addr        uint16 // effective address (or branch target for REL)
	Value       byte   // operand value for IMM and ACC modes
	PageCrossed bool   // indexing or branching crossed a page boundary
}

// HasAddr reports whether the operand refers to a memory address.
func (o *Operand) HasAddr() bool {
	switch o.Mode {
	case IMM, IMP, ACC:
		return false
	}
	return true
}

// Resolve computes the operand of an instruction whose operand bytes
// (following the opcode) are 'operand'. Register values are taken from
// 'reg', whose PC must already point past the instruction. Indirect modes
// read their pointers from 'mem'. Resolve never fails: zero-page arithmetic
// wraps at 8 bits and all other arithmetic wraps at 16 bits.
func Resolve(mode Mode, operand []byte, reg *Registers, mem Memory) Operand {
	op := Operand{Mode: mode}
	switch mode {
	case IMM:
		op.Value = operand[0]
	case IMP:
	case ACC:
		op.Value = reg.A
	case REL:
		op.Addr = uint16(int32(reg.PC) + int32(int8(operand[0])))
		op.PageCrossed = (op.Addr & 0xff00) != (reg.PC & 0xff00)
	case ZPG:
		op.Addr = operandToAddress(operand)
	case ZPX:
		op.Addr = offsetZeroPage(operandToAddress(operand), reg.X)
	case ZPY:
		op.Addr = offsetZeroPage(operandToAddress(operand), reg.Y)
	case ABS:
		op.Addr = operandToAddress(operand)
	case ABX:
		op.Addr, op.PageCrossed = offsetAddress(operandToAddress(operand), reg.X)
	case ABY:
		op.Addr, op.PageCrossed = offsetAddress(operandToAddress(operand), reg.Y)
	case IND:
		op.Addr = mem.LoadAddress(operandToAddress(operand))
	case IDX:
		zpaddr := offsetZeroPage(operandToAddress(operand), reg.X)
		op.Addr = mem.LoadAddress(zpaddr)
	case IDY:
		zpaddr := operandToAddress(operand)
		op.Addr, op.PageCrossed = offsetAddress(mem.LoadAddress(zpaddr), reg.Y)
	default:
		panic("invalid addressing mode")
	}
	return op
}
