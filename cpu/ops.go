// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Add 'v' and the carry to the accumulator. The 2A03 has no decimal
// mode, so the Decimal flag is ignored.
func (cpu *CPU) addWithCarry(v byte) {
	acc := cpu.Reg.A
	sum := uint16(acc) + uint16(v) + uint16(boolToByte(cpu.Reg.PS.Get(Carry)))
	result := byte(sum)

	cpu.Reg.PS.Put(Carry, sum > 0xff)
	cpu.Reg.PS.Put(Overflow, (acc^result)&(v^result)&0x80 != 0)
	cpu.Reg.A = result
	cpu.updateNZ(result)
}

// Compare 'reg' against 'v' as an unsigned subtraction.
func (cpu *CPU) compare(reg, v byte) {
	cpu.Reg.PS.Put(Carry, reg >= v)
	cpu.updateNZ(reg - v)
}

// Add with carry
func (cpu *CPU) adc(inst *Instruction, op *Operand) {
	cpu.addWithCarry(cpu.load(op))
}

// Boolean AND
func (cpu *CPU) and(inst *Instruction, op *Operand) {
	cpu.Reg.A &= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(inst *Instruction, op *Operand) {
	v := cpu.load(op)
	cpu.Reg.PS.Put(Carry, v&0x80 != 0)
	v <<= 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Carry, false)
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Carry, true)
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Zero, true)
}

// Bit Test
func (cpu *CPU) bit(inst *Instruction, op *Operand) {
	v := cpu.load(op)
	cpu.Reg.PS.Put(Zero, v&cpu.Reg.A == 0)
	cpu.Reg.PS.Put(Negative, v&0x80 != 0)
	cpu.Reg.PS.Put(Overflow, v&0x40 != 0)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Negative, true)
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Zero, false)
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Negative, false)
}

// Break. The byte following BRK is skipped, so the pushed return
// address is the BRK address plus two.
func (cpu *CPU) brk(inst *Instruction, op *Operand) {
	cpu.Reg.PC++
	cpu.interrupt(true, vectorBRK)
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Overflow, false)
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction, op *Operand) {
	cpu.branch(inst, op, Overflow, true)
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Clear(Carry)
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Clear(Decimal)
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Clear(InterruptDisable)
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Clear(Overflow)
}

// Compare to accumulator
func (cpu *CPU) cmp(inst *Instruction, op *Operand) {
	cpu.compare(cpu.Reg.A, cpu.load(op))
}

// Compare to X register
func (cpu *CPU) cpx(inst *Instruction, op *Operand) {
	cpu.compare(cpu.Reg.X, cpu.load(op))
}

// Compare to Y register
func (cpu *CPU) cpy(inst *Instruction, op *Operand) {
	cpu.compare(cpu.Reg.Y, cpu.load(op))
}

// Decrement memory value
func (cpu *CPU) dec(inst *Instruction, op *Operand) {
	v := cpu.load(op) - 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Decrement X register
func (cpu *CPU) dex(inst *Instruction, op *Operand) {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
}

// Decrement Y register
func (cpu *CPU) dey(inst *Instruction, op *Operand) {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
}

// Boolean XOR
func (cpu *CPU) eor(inst *Instruction, op *Operand) {
	cpu.Reg.A ^= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Increment memory value
func (cpu *CPU) inc(inst *Instruction, op *Operand) {
	v := cpu.load(op) + 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Increment X register
func (cpu *CPU) inx(inst *Instruction, op *Operand) {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
}

// Increment Y register
func (cpu *CPU) iny(inst *Instruction, op *Operand) {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
}

// Jump to memory address. Indirect jumps through $xxFF fetch the high
// byte from $xx00; the resolver has already applied this.
func (cpu *CPU) jmp(inst *Instruction, op *Operand) {
	cpu.Reg.PC = op.Addr
}

// Jump to subroutine
func (cpu *CPU) jsr(inst *Instruction, op *Operand) {
	cpu.pushAddress(cpu.Reg.PC - 1)
	cpu.Reg.PC = op.Addr
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction, op *Operand) {
	cpu.Reg.A = cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction, op *Operand) {
	cpu.Reg.X = cpu.load(op)
	cpu.updateNZ(cpu.Reg.X)
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction, op *Operand) {
	cpu.Reg.Y = cpu.load(op)
	cpu.updateNZ(cpu.Reg.Y)
}

// Logical Shift Right
func (cpu *CPU) lsr(inst *Instruction, op *Operand) {
	v := cpu.load(op)
	cpu.Reg.PS.Put(Carry, v&1 != 0)
	v >>= 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// No-operation
func (cpu *CPU) nop(inst *Instruction, op *Operand) {
	// Do nothing
}

// Boolean OR
func (cpu *CPU) ora(inst *Instruction, op *Operand) {
	cpu.Reg.A |= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Push Accumulator
func (cpu *CPU) pha(inst *Instruction, op *Operand) {
	cpu.push(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(inst *Instruction, op *Operand) {
	cpu.push(cpu.Reg.PS.Push(true))
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(inst *Instruction, op *Operand) {
	cpu.Reg.A = cpu.pop()
	cpu.updateNZ(cpu.Reg.A)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Pull(cpu.pop())
}

// Rotate Left
func (cpu *CPU) rol(inst *Instruction, op *Operand) {
	v := cpu.load(op)
	carryIn := boolToByte(cpu.Reg.PS.Get(Carry))
	cpu.Reg.PS.Put(Carry, v&0x80 != 0)
	v = v<<1 | carryIn
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Rotate Right
func (cpu *CPU) ror(inst *Instruction, op *Operand) {
	v := cpu.load(op)
	carryIn := boolToByte(cpu.Reg.PS.Get(Carry))
	cpu.Reg.PS.Put(Carry, v&1 != 0)
	v = v>>1 | carryIn<<7
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Return from Interrupt
func (cpu *CPU) rti(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Pull(cpu.pop())
	cpu.Reg.PC = cpu.popAddress()
}

// Return from Subroutine
func (cpu *CPU) rts(inst *Instruction, op *Operand) {
	cpu.Reg.PC = cpu.popAddress() + 1
}

// Subtract with Carry. Subtraction is addition of the one's complement.
func (cpu *CPU) sbc(inst *Instruction, op *Operand) {
	cpu.addWithCarry(^cpu.load(op))
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Set(Carry)
}

// Set Decimal flag
func (cpu *CPU) sed(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Set(Decimal)
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction, op *Operand) {
	cpu.Reg.PS.Set(InterruptDisable)
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, op *Operand) {
	cpu.store(op, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction, op *Operand) {
	cpu.store(op, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction, op *Operand) {
	cpu.store(op, cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(inst *Instruction, op *Operand) {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(inst *Instruction, op *Operand) {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(inst *Instruction, op *Operand) {
	cpu.Reg.X = cpu.Reg.SP
	cpu.updateNZ(cpu.Reg.X)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(inst *Instruction, op *Operand) {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(inst *Instruction, op *Operand) {
	cpu.Reg.SP = cpu.Reg.X
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(inst *Instruction, op *Operand) {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
}

// Unofficial opcode: occupies one byte and has no effect.
func (cpu *CPU) unused(inst *Instruction, op *Operand) {
}
