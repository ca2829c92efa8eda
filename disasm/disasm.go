// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 2A03 instruction set disassembler and the
// register and trace formatting used by the debugger host.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/nes6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"A",       // ACC
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the little-endian byte
// slice.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code.
func Disassemble(m cpu.Memory, addr uint16) (line string, next uint16) {
	inst := cpu.Decode(m.LoadByte(addr))
	next = addr + uint16(inst.Length)
	return format(inst, operandBytes(m, addr, inst), next), next
}

func operandBytes(m cpu.Memory, addr uint16, inst *cpu.Instruction) []byte {
	operand := make([]byte, inst.Length-1)
	m.LoadBytes(addr+1, operand)
	return operand
}

func format(inst *cpu.Instruction, operand []byte, next uint16) string {
	switch inst.Mode {
	case cpu.IMP:
		return inst.Name
	case cpu.ACC:
		return inst.Name + " A"
	case cpu.REL:
		// Convert relative offset to absolute address.
		target := next + uint16(int8(operand[0]))
		operand = []byte{byte(target), byte(target >> 8)}
	}
	return inst.Name + " " + fmt.Sprintf(modeFormat[inst.Mode], hexString(operand))
}

// CodeString returns the machine code bytes as space-separated hex pairs.
func CodeString(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(hex[v>>4])
		sb.WriteByte(hex[v&0xf])
	}
	return sb.String()
}

// FormatRegisters returns a string describing the contents of the CPU
// registers, e.g. "A=05 X=00 Y=00 PS=[nv-bdIzc] SP=FD PC=0015".
func FormatRegisters(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, r.PS, r.SP, r.PC)
}

// FormatTrace returns a one-line description of an executed instruction:
// where it was fetched, its machine code and disassembly, the effective
// address and value it touched, and the registers it left behind.
func FormatTrace(t *cpu.Trace) string {
	if t.Inst == nil {
		return ""
	}

	operand := t.OperandBytes()
	code := append([]byte{t.Inst.Opcode}, operand...)
	line := format(t.Inst, operand, t.PC+uint16(t.Inst.Length))

	var ea string
	switch {
	case t.Inst.Mode == cpu.REL, t.Inst.Name == "JMP", t.Inst.Name == "JSR":
	case t.Resolved.HasAddr():
		ea = fmt.Sprintf("[$%04X]=$%02X", t.Resolved.Addr, t.Resolved.Value)
	}

	return fmt.Sprintf("%04X-   %-8s    %-15s %-13s %s C=%d  ; %s",
		t.PC, CodeString(code), line, ea, FormatRegisters(&t.Reg), t.Cycles, t.Inst.Description)
}
