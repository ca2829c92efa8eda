// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// A Trace records one executed instruction: where it was fetched, how it
// decoded, what its operand resolved to, and the registers it left behind.
type Trace struct {
	PC       uint16       // address the instruction was fetched from
	Inst     *Instruction // decoded instruction
	Operand  [2]byte      // raw operand bytes; Inst.Length-1 are valid
	Resolved Operand      // resolved operand, including the value moved
	Cycles   int          // cycles consumed
	Reg      Registers    // registers after execution
}

// OperandBytes returns the raw operand bytes of the instruction.
func (t *Trace) OperandBytes() []byte {
	if t.Inst == nil {
		return nil
	}
	return t.Operand[:t.Inst.Length-1]
}

// A TraceHandler receives the trace of every instruction the CPU executes.
// It is called after the instruction has completed.
type TraceHandler interface {
	OnTrace(cpu *CPU, t *Trace)
}
