// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symUnused opsym = iota
	symADC
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA
)

type instfunc func(c *CPU, inst *Instruction, op *Operand)

// Emulator implementation for each opcode symbol
type opcodeImpl struct {
	name string
	fn   instfunc
}

var impl = [...]opcodeImpl{
	symUnused: {"???", (*CPU).unused},
	symADC:    {"ADC", (*CPU).adc},
	symAND:    {"AND", (*CPU).and},
	symASL:    {"ASL", (*CPU).asl},
	symBCC:    {"BCC", (*CPU).bcc},
	symBCS:    {"BCS", (*CPU).bcs},
	symBEQ:    {"BEQ", (*CPU).beq},
	symBIT:    {"BIT", (*CPU).bit},
	symBMI:    {"BMI", (*CPU).bmi},
	symBNE:    {"BNE", (*CPU).bne},
	symBPL:    {"BPL", (*CPU).bpl},
	symBRK:    {"BRK", (*CPU).brk},
	symBVC:    {"BVC", (*CPU).bvc},
	symBVS:    {"BVS", (*CPU).bvs},
	symCLC:    {"CLC", (*CPU).clc},
	symCLD:    {"CLD", (*CPU).cld},
	symCLI:    {"CLI", (*CPU).cli},
	symCLV:    {"CLV", (*CPU).clv},
	symCMP:    {"CMP", (*CPU).cmp},
	symCPX:    {"CPX", (*CPU).cpx},
	symCPY:    {"CPY", (*CPU).cpy},
	symDEC:    {"DEC", (*CPU).dec},
	symDEX:    {"DEX", (*CPU).dex},
	symDEY:    {"DEY", (*CPU).dey},
	symEOR:    {"EOR", (*CPU).eor},
	symINC:    {"INC", (*CPU).inc},
	symINX:    {"INX", (*CPU).inx},
	symINY:    {"INY", (*CPU).iny},
	symJMP:    {"JMP", (*CPU).jmp},
	symJSR:    {"JSR", (*CPU).jsr},
	symLDA:    {"LDA", (*CPU).lda},
	symLDX:    {"LDX", (*CPU).ldx},
	symLDY:    {"LDY", (*CPU).ldy},
	symLSR:    {"LSR", (*CPU).lsr},
	symNOP:    {"NOP", (*CPU).nop},
	symORA:    {"ORA", (*CPU).ora},
	symPHA:    {"PHA", (*CPU).pha},
	symPHP:    {"PHP", (*CPU).php},
	symPLA:    {"PLA", (*CPU).pla},
	symPLP:    {"PLP", (*CPU).plp},
	symROL:    {"ROL", (*CPU).rol},
	symROR:    {"ROR", (*CPU).ror},
	symRTI:    {"RTI", (*CPU).rti},
	symRTS:    {"RTS", (*CPU).rts},
	symSBC:    {"SBC", (*CPU).sbc},
	symSEC:    {"SEC", (*CPU).sec},
	symSED:    {"SED", (*CPU).sed},
	symSEI:    {"SEI", (*CPU).sei},
	symSTA:    {"STA", (*CPU).sta},
	symSTX:    {"STX", (*CPU).stx},
	symSTY:    {"STY", (*CPU).sty},
	symTAX:    {"TAX", (*CPU).tax},
	symTAY:    {"TAY", (*CPU).tay},
	symTSX:    {"TSX", (*CPU).tsx},
	symTXA:    {"TXA", (*CPU).txa},
	symTXS:    {"TXS", (*CPU).txs},
	symTYA:    {"TYA", (*CPU).tya},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

var modeInfo = [...]struct {
	name  string
	desc  string
	bytes byte
}{
	IMM: {"IMM", "Immediate", 1},
	IMP: {"IMP", "", 0},
	REL: {"REL", "Relative", 1},
	ZPG: {"ZPG", "Zero Page", 1},
	ZPX: {"ZPX", "Zero Page, X", 1},
	ZPY: {"ZPY", "Zero Page, Y", 1},
	ABS: {"ABS", "Absolute", 2},
	ABX: {"ABX", "Absolute, X", 2},
	ABY: {"ABY", "Absolute, Y", 2},
	IND: {"IND", "Indirect", 2},
	IDX: {"IDX", "Indirect, X", 1},
	IDY: {"IDY", "Indirect, Y", 1},
	ACC: {"ACC", "Accumulator", 0},
}

// String returns the three-letter mode tag.
func (m Mode) String() string {
	if int(m) < len(modeInfo) {
		return modeInfo[m].name
	}
	return "???"
}

// OperandBytes returns the number of operand bytes following the opcode.
func (m Mode) OperandBytes() int {
	return int(modeInfo[m].bytes)
}

// Opcode data for a single table slot. The opcode is the slot index.
type opcodeData struct {
	sym      opsym // internal opcode symbol
	mode     Mode  // addressing mode
	length   byte  // length of opcode + operand in bytes
	cycles   byte  // number of CPU cycles to execute command
	bpcycles byte  // additional CPU cycles if command crosses page boundary
}

// The 2A03 opcode map, one row per high nibble. Empty entries are the
// unofficial opcodes, which are modeled as one-byte no-ops.
var opcodeTable = [256]opcodeData{
	// 0x00
	{symBRK, IMP, 1, 7, 0}, {symORA, IDX, 2, 6, 0}, {}, {},
	{}, {symORA, ZPG, 2, 3, 0}, {symASL, ZPG, 2, 5, 0}, {},
	{symPHP, IMP, 1, 3, 0}, {symORA, IMM, 2, 2, 0}, {symASL, ACC, 1, 2, 0}, {},
	{}, {symORA, ABS, 3, 4, 0}, {symASL, ABS, 3, 6, 0}, {},

	// 0x10
	{symBPL, REL, 2, 2, 1}, {symORA, IDY, 2, 5, 1}, {}, {},
	{}, {symORA, ZPX, 2, 4, 0}, {symASL, ZPX, 2, 6, 0}, {},
	{symCLC, IMP, 1, 2, 0}, {symORA, ABY, 3, 4, 1}, {}, {},
	{}, {symORA, ABX, 3, 4, 1}, {symASL, ABX, 3, 7, 0}, {},

	// 0x20
	{symJSR, ABS, 3, 6, 0}, {symAND, IDX, 2, 6, 0}, {}, {},
	{symBIT, ZPG, 2, 3, 0}, {symAND, ZPG, 2, 3, 0}, {symROL, ZPG, 2, 5, 0}, {},
	{symPLP, IMP, 1, 4, 0}, {symAND, IMM, 2, 2, 0}, {symROL, ACC, 1, 2, 0}, {},
	{symBIT, ABS, 3, 4, 0}, {symAND, ABS, 3, 4, 0}, {symROL, ABS, 3, 6, 0}, {},

	// 0x30
	{symBMI, REL, 2, 2, 1}, {symAND, IDY, 2, 5, 1}, {}, {},
	{}, {symAND, ZPX, 2, 4, 0}, {symROL, ZPX, 2, 6, 0}, {},
	{symSEC, IMP, 1, 2, 0}, {symAND, ABY, 3, 4, 1}, {}, {},
	{}, {symAND, ABX, 3, 4, 1}, {symROL, ABX, 3, 7, 0}, {},

	// 0x40
	{symRTI, IMP, 1, 6, 0}, {symEOR, IDX, 2, 6, 0}, {}, {},
	{}, {symEOR, ZPG, 2, 3, 0}, {symLSR, ZPG, 2, 5, 0}, {},
	{symPHA, IMP, 1, 3, 0}, {symEOR, IMM, 2, 2, 0}, {symLSR, ACC, 1, 2, 0}, {},
	{symJMP, ABS, 3, 3, 0}, {symEOR, ABS, 3, 4, 0}, {symLSR, ABS, 3, 6, 0}, {},

	// 0x50
	{symBVC, REL, 2, 2, 1}, {symEOR, IDY, 2, 5, 1}, {}, {},
	{}, {symEOR, ZPX, 2, 4, 0}, {symLSR, ZPX, 2, 6, 0}, {},
	{symCLI, IMP, 1, 2, 0}, {symEOR, ABY, 3, 4, 1}, {}, {},
	{}, {symEOR, ABX, 3, 4, 1}, {symLSR, ABX, 3, 7, 0}, {},

	// 0x60
	{symRTS, IMP, 1, 6, 0}, {symADC, IDX, 2, 6, 0}, {}, {},
	{}, {symADC, ZPG, 2, 3, 0}, {symROR, ZPG, 2, 5, 0}, {},
	{symPLA, IMP, 1, 4, 0}, {symADC, IMM, 2, 2, 0}, {symROR, ACC, 1, 2, 0}, {},
	{symJMP, IND, 3, 5, 0}, {symADC, ABS, 3, 4, 0}, {symROR, ABS, 3, 6, 0}, {},

	// 0x70
	{symBVS, REL, 2, 2, 1}, {symADC, IDY, 2, 5, 1}, {}, {},
	{}, {symADC, ZPX, 2, 4, 0}, {symROR, ZPX, 2, 6, 0}, {},
	{symSEI, IMP, 1, 2, 0}, {symADC, ABY, 3, 4, 1}, {}, {},
	{}, {symADC, ABX, 3, 4, 1}, {symROR, ABX, 3, 7, 0}, {},

	// 0x80
	{}, {symSTA, IDX, 2, 6, 0}, {}, {},
	{symSTY, ZPG, 2, 3, 0}, {symSTA, ZPG, 2, 3, 0}, {symSTX, ZPG, 2, 3, 0}, {},
	{symDEY, IMP, 1, 2, 0}, {}, {symTXA, IMP, 1, 2, 0}, {},
	{symSTY, ABS, 3, 4, 0}, {symSTA, ABS, 3, 4, 0}, {symSTX, ABS, 3, 4, 0}, {},

	// 0x90
	{symBCC, REL, 2, 2, 1}, {symSTA, IDY, 2, 6, 0}, {}, {},
	{symSTY, ZPX, 2, 4, 0}, {symSTA, ZPX, 2, 4, 0}, {symSTX, ZPY, 2, 4, 0}, {},
	{symTYA, IMP, 1, 2, 0}, {symSTA, ABY, 3, 5, 0}, {symTXS, IMP, 1, 2, 0}, {},
	{}, {symSTA, ABX, 3, 5, 0}, {}, {},

	// 0xA0
	{symLDY, IMM, 2, 2, 0}, {symLDA, IDX, 2, 6, 0}, {symLDX, IMM, 2, 2, 0}, {},
	{symLDY, ZPG, 2, 3, 0}, {symLDA, ZPG, 2, 3, 0}, {symLDX, ZPG, 2, 3, 0}, {},
	{symTAY, IMP, 1, 2, 0}, {symLDA, IMM, 2, 2, 0}, {symTAX, IMP, 1, 2, 0}, {},
	{symLDY, ABS, 3, 4, 0}, {symLDA, ABS, 3, 4, 0}, {symLDX, ABS, 3, 4, 0}, {},

	// 0xB0
	{symBCS, REL, 2, 2, 1}, {symLDA, IDY, 2, 5, 1}, {}, {},
	{symLDY, ZPX, 2, 4, 0}, {symLDA, ZPX, 2, 4, 0}, {symLDX, ZPY, 2, 4, 0}, {},
	{symCLV, IMP, 1, 2, 0}, {symLDA, ABY, 3, 4, 1}, {symTSX, IMP, 1, 2, 0}, {},
	{symLDY, ABX, 3, 4, 1}, {symLDA, ABX, 3, 4, 1}, {symLDX, ABY, 3, 4, 1}, {},

	// 0xC0
	{symCPY, IMM, 2, 2, 0}, {symCMP, IDX, 2, 6, 0}, {}, {},
	{symCPY, ZPG, 2, 3, 0}, {symCMP, ZPG, 2, 3, 0}, {symDEC, ZPG, 2, 5, 0}, {},
	{symINY, IMP, 1, 2, 0}, {symCMP, IMM, 2, 2, 0}, {symDEX, IMP, 1, 2, 0}, {},
	{symCPY, ABS, 3, 4, 0}, {symCMP, ABS, 3, 4, 0}, {symDEC, ABS, 3, 6, 0}, {},

	// 0xD0
	{symBNE, REL, 2, 2, 1}, {symCMP, IDY, 2, 5, 1}, {}, {},
	{}, {symCMP, ZPX, 2, 4, 0}, {symDEC, ZPX, 2, 6, 0}, {},
	{symCLD, IMP, 1, 2, 0}, {symCMP, ABY, 3, 4, 1}, {}, {},
	{}, {symCMP, ABX, 3, 4, 1}, {symDEC, ABX, 3, 7, 0}, {},

	// 0xE0
	{symCPX, IMM, 2, 2, 0}, {symSBC, IDX, 2, 6, 0}, {}, {},
	{symCPX, ZPG, 2, 3, 0}, {symSBC, ZPG, 2, 3, 0}, {symINC, ZPG, 2, 5, 0}, {},
	{symINX, IMP, 1, 2, 0}, {symSBC, IMM, 2, 2, 0}, {symNOP, IMP, 1, 2, 0}, {},
	{symCPX, ABS, 3, 4, 0}, {symSBC, ABS, 3, 4, 0}, {symINC, ABS, 3, 6, 0}, {},

	// 0xF0
	{symBEQ, REL, 2, 2, 1}, {symSBC, IDY, 2, 5, 1}, {}, {},
	{}, {symSBC, ZPX, 2, 4, 0}, {symINC, ZPX, 2, 6, 0}, {},
	{symSED, IMP, 1, 2, 0}, {symSBC, ABY, 3, 4, 1}, {}, {},
	{}, {symSBC, ABX, 3, 4, 1}, {symINC, ABX, 3, 7, 0}, {},
}

// Unused opcodes occupy one byte and the minimum instruction time.
const (
	unusedLength = 1
	unusedCycles = 2
)

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name        string   // all-caps name of the instruction
	Mode        Mode     // addressing mode
	Opcode      byte     // hexadecimal opcode value
	Length      byte     // combined size of opcode and operand, in bytes
	Cycles      byte     // number of CPU cycles to execute the instruction
	BPCycles    byte     // additional cycles required if boundary page crossed
	Unused      bool     // opcode is not part of the official instruction set
	Description string   // human-readable form, e.g. "ORA Indirect, X"
	fn          instfunc // emulator implementation of the function
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	instructions [256]Instruction // all instructions by opcode
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// Create the instruction set from the opcode table.
func newInstructionSet() *InstructionSet {
	set := &InstructionSet{}
	for i, d := range opcodeTable {
		inst := &set.instructions[i]
		inst.Opcode = byte(i)
		inst.Name = impl[d.sym].name
		inst.fn = impl[d.sym].fn

		if d.sym == symUnused {
			inst.Mode = IMP
			inst.Length = unusedLength
			inst.Cycles = unusedCycles
			inst.Unused = true
			inst.Description = "Not used."
			continue
		}

		if int(d.length) != 1+d.mode.OperandBytes() {
			panic("opcode table: length does not match addressing mode")
		}
		inst.Mode = d.mode
		inst.Length = d.length
		inst.Cycles = d.cycles
		inst.BPCycles = d.bpcycles
		inst.Description = inst.Name
		if desc := modeInfo[d.mode].desc; desc != "" {
			inst.Description += " " + desc
		}
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the 2A03 instruction set. The returned set is
// shared and must not be modified.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}

// Decode returns the instruction for an opcode byte. Every byte decodes
// to an instruction; unofficial opcodes decode to an Unused one.
func Decode(opcode byte) *Instruction {
	return instructionSet.Lookup(opcode)
}
