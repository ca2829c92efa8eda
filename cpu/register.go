// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers contains the state of all 2A03 CPU registers.
type Registers struct {
	A  byte   // accumulator
	X  byte   // X indexing register
	Y  byte   // Y indexing register
	SP byte   // stack pointer ($100 + SP = stack memory location)
	PC uint16 // program counter
	PS Status // processor status flags
}

// Power-up register values.
const (
	initSP = 0xfd
	initPS = InterruptDisableBit | ReservedBit
)

// Init puts the registers into their power-up state: A, X, Y = 0,
// SP = $FD, PS = $24 (interrupts disabled) and PC = 0.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = initSP
	r.PC = 0
	r.PS = initPS
}

// StackAddr returns the memory address the stack pointer refers to.
func (r *Registers) StackAddr() uint16 {
	return stackAddress(r.SP)
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
