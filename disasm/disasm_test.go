package disasm_test

import (
	"strings"
	"testing"

	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/disasm"
)

func TestDisassemble(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(0x8000, []byte{
		0xa9, 0x05, // LDA #$05
		0x8d, 0x00, 0x20, // STA $2000
		0xbd, 0x34, 0x12, // LDA $1234,X
		0xb6, 0x10, // LDX $10,Y
		0x6c, 0xfc, 0xff, // JMP ($FFFC)
		0xa1, 0x20, // LDA ($20,X)
		0x91, 0x20, // STA ($20),Y
		0x0a,       // ASL A
		0xd0, 0xfe, // BNE $8014
		0x10, 0x02, // BPL $801A
		0xea, // NOP
		0x02, // unused
	})

	want := []struct {
		line string
		next uint16
	}{
		{"LDA #$05", 0x8002},
		{"STA $2000", 0x8005},
		{"LDA $1234,X", 0x8008},
		{"LDX $10,Y", 0x800a},
		{"JMP ($FFFC)", 0x800d},
		{"LDA ($20,X)", 0x800f},
		{"STA ($20),Y", 0x8011},
		{"ASL A", 0x8012},
		{"BNE $8012", 0x8014},
		{"BPL $8018", 0x8016},
		{"NOP", 0x8017},
		{"???", 0x8018},
	}

	addr := uint16(0x8000)
	for i, w := range want {
		line, next := disasm.Disassemble(mem, addr)
		if line != w.line || next != w.next {
			t.Errorf("%d: exp %q/$%04X, got %q/$%04X", i, w.line, w.next, line, next)
		}
		addr = next
	}
}

func TestFormatRegisters(t *testing.T) {
	r := cpu.Registers{A: 0x05, SP: 0xfd, PC: 0x0015, PS: 0x24}
	got := disasm.FormatRegisters(&r)
	if got != "A=05 X=00 Y=00 PS=[nv-bdIzc] SP=FD PC=0015" {
		t.Errorf("got %q", got)
	}
}

func TestFormatTrace(t *testing.T) {
	mem := cpu.NewFlatMemory()
	c := cpu.NewCPU(mem)
	if err := c.LoadProgram(0x0010, []byte{0xa9, 0x80, 0x85, 0x40}, 0x0010); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatal(err)
		}
	}

	line := disasm.FormatTrace(c.LastTrace())
	for _, s := range []string{"0012-", "85 40", "STA $40", "[$0040]=$80", "A=80", "PC=0014", "C=3", "STA Zero Page"} {
		if !strings.Contains(line, s) {
			t.Errorf("trace %q missing %q", line, s)
		}
	}

	if got := disasm.FormatTrace(&cpu.Trace{}); got != "" {
		t.Errorf("empty trace formatted as %q", got)
	}
}

func TestCodeString(t *testing.T) {
	if got := disasm.CodeString([]byte{0x4c, 0x00, 0xc0}); got != "4C 00 C0" {
		t.Errorf("got %q", got)
	}
}
