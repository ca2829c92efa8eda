package cpu_test

import (
	"testing"

	"github.com/beevik/nes6502/cpu"
)

func TestDecodeIsTotal(t *testing.T) {
	official := 0
	for i := 0; i < 256; i++ {
		inst := cpu.Decode(byte(i))
		if inst == nil {
			t.Fatalf("opcode $%02X decoded to nil", i)
		}
		if inst.Opcode != byte(i) {
			t.Errorf("opcode $%02X decoded as $%02X", i, inst.Opcode)
		}
		if inst.Length < 1 || inst.Length > 3 {
			t.Errorf("opcode $%02X length %d out of range", i, inst.Length)
		}
		if inst.Unused {
			if inst.Length != 1 || inst.Cycles != 2 || inst.Name != "???" {
				t.Errorf("unused opcode $%02X: length %d, cycles %d, name %s", i, inst.Length, inst.Cycles, inst.Name)
			}
			continue
		}

		official++
		if inst.Cycles < 2 {
			t.Errorf("opcode $%02X cycles %d < 2", i, inst.Cycles)
		}
		if int(inst.Length) != 1+inst.Mode.OperandBytes() {
			t.Errorf("opcode $%02X %s length %d does not match mode %s", i, inst.Name, inst.Length, inst.Mode)
		}
	}

	if official != 151 {
		t.Errorf("official opcode count incorrect. exp: 151, got: %d", official)
	}
}

func TestDecodeReference(t *testing.T) {
	cases := []struct {
		opcode   byte
		name     string
		mode     cpu.Mode
		length   byte
		cycles   byte
		bpcycles byte
	}{
		{0x00, "BRK", cpu.IMP, 1, 7, 0},
		{0x01, "ORA", cpu.IDX, 2, 6, 0},
		{0x0a, "ASL", cpu.ACC, 1, 2, 0},
		{0x10, "BPL", cpu.REL, 2, 2, 1},
		{0x1e, "ASL", cpu.ABX, 3, 7, 0},
		{0x20, "JSR", cpu.ABS, 3, 6, 0},
		{0x4c, "JMP", cpu.ABS, 3, 3, 0},
		{0x6c, "JMP", cpu.IND, 3, 5, 0},
		{0x8d, "STA", cpu.ABS, 3, 4, 0},
		{0x91, "STA", cpu.IDY, 2, 6, 0},
		{0x96, "STX", cpu.ZPY, 2, 4, 0},
		{0x9a, "TXS", cpu.IMP, 1, 2, 0},
		{0xa9, "LDA", cpu.IMM, 2, 2, 0},
		{0xb1, "LDA", cpu.IDY, 2, 5, 1},
		{0xbe, "LDX", cpu.ABY, 3, 4, 1},
		{0xc9, "CMP", cpu.IMM, 2, 2, 0},
		{0xea, "NOP", cpu.IMP, 1, 2, 0},
		{0xfe, "INC", cpu.ABX, 3, 7, 0},
	}

	for _, tc := range cases {
		inst := cpu.Decode(tc.opcode)
		if inst.Name != tc.name || inst.Mode != tc.mode || inst.Length != tc.length ||
			inst.Cycles != tc.cycles || inst.BPCycles != tc.bpcycles {
			t.Errorf("opcode $%02X: got %s %s len=%d cycles=%d+%d", tc.opcode,
				inst.Name, inst.Mode, inst.Length, inst.Cycles, inst.BPCycles)
		}
	}
}

func TestDecodeDescription(t *testing.T) {
	cases := []struct {
		opcode byte
		desc   string
	}{
		{0x01, "ORA Indirect, X"},
		{0x00, "BRK"},
		{0xa9, "LDA Immediate"},
		{0xb6, "LDX Zero Page, Y"},
		{0x02, "Not used."},
	}

	for _, tc := range cases {
		if got := cpu.Decode(tc.opcode).Description; got != tc.desc {
			t.Errorf("opcode $%02X description: exp %q, got %q", tc.opcode, tc.desc, got)
		}
	}
}

func TestGetInstruction(t *testing.T) {
	c, mem := newCPU()
	mem.StoreBytes(0x0300, []byte{0x20, 0x00, 0x40, 0xea})
	if inst := c.GetInstruction(0x0300); inst.Name != "JSR" {
		t.Errorf("GetInstruction: exp JSR, got %s", inst.Name)
	}
	if next := c.NextAddr(0x0300); next != 0x0303 {
		t.Errorf("NextAddr: exp $0303, got $%04X", next)
	}
}
