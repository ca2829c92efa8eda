package cpu_test

import (
	"testing"

	"github.com/beevik/nes6502/cpu"
)

func TestResolveZeroPageWrap(t *testing.T) {
	mem := cpu.NewFlatMemory()
	reg := cpu.Registers{X: 0x02, Y: 0x02}

	for _, mode := range []cpu.Mode{cpu.ZPX, cpu.ZPY} {
		op := cpu.Resolve(mode, []byte{0xff}, &reg, mem)
		if op.Addr != 0x0001 {
			t.Errorf("%s: exp $0001, got $%04X", mode, op.Addr)
		}
		if op.PageCrossed {
			t.Errorf("%s: zero-page indexing reported a page cross", mode)
		}
	}
}

func TestResolveAbsoluteIndexed(t *testing.T) {
	mem := cpu.NewFlatMemory()
	cases := []struct {
		mode    cpu.Mode
		x, y    byte
		operand []byte
		addr    uint16
		crossed bool
	}{
		{cpu.ABS, 0x10, 0x10, []byte{0x34, 0x12}, 0x1234, false},
		{cpu.ABX, 0x01, 0x00, []byte{0x00, 0x20}, 0x2001, false},
		{cpu.ABX, 0x01, 0x00, []byte{0xff, 0x20}, 0x2100, true},
		{cpu.ABY, 0x00, 0x80, []byte{0x80, 0x20}, 0x2100, true},
		{cpu.ABY, 0x00, 0x7f, []byte{0x80, 0x20}, 0x20ff, false},
		{cpu.ABX, 0x02, 0x00, []byte{0xff, 0xff}, 0x0001, true},
	}

	for i, tc := range cases {
		reg := cpu.Registers{X: tc.x, Y: tc.y}
		op := cpu.Resolve(tc.mode, tc.operand, &reg, mem)
		if op.Addr != tc.addr || op.PageCrossed != tc.crossed {
			t.Errorf("%d: %s exp $%04X/%v, got $%04X/%v", i, tc.mode, tc.addr, tc.crossed, op.Addr, op.PageCrossed)
		}
	}
}

func TestResolveIndirect(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.StoreAddress(0x0012, 0x3000)
	mem.StoreByte(0x00ff, 0xf0)
	mem.StoreByte(0x0000, 0x40)
	mem.StoreAddress(0x0200, 0x5678)

	cases := []struct {
		mode    cpu.Mode
		x, y    byte
		operand []byte
		addr    uint16
		crossed bool
	}{
		{cpu.IDX, 0x02, 0x00, []byte{0x10}, 0x3000, false},
		{cpu.IDX, 0x13, 0x00, []byte{0xff}, 0x3000, false}, // $FF+$13 wraps to $12
		{cpu.IDY, 0x00, 0x05, []byte{0x12}, 0x3005, false},
		{cpu.IDY, 0x00, 0x10, []byte{0xff}, 0x4100, true}, // pointer at $FF takes its high byte from $00
		{cpu.IND, 0x00, 0x00, []byte{0x00, 0x02}, 0x5678, false},
	}

	for i, tc := range cases {
		reg := cpu.Registers{X: tc.x, Y: tc.y}
		op := cpu.Resolve(tc.mode, tc.operand, &reg, mem)
		if op.Addr != tc.addr || op.PageCrossed != tc.crossed {
			t.Errorf("%d: %s exp $%04X/%v, got $%04X/%v", i, tc.mode, tc.addr, tc.crossed, op.Addr, op.PageCrossed)
		}
	}
}

func TestResolveValues(t *testing.T) {
	mem := cpu.NewFlatMemory()
	reg := cpu.Registers{A: 0x99, PC: 0x0400}

	if op := cpu.Resolve(cpu.IMM, []byte{0x42}, &reg, mem); op.Value != 0x42 || op.HasAddr() {
		t.Errorf("IMM: got %+v", op)
	}
	if op := cpu.Resolve(cpu.ACC, nil, &reg, mem); op.Value != 0x99 || op.HasAddr() {
		t.Errorf("ACC: got %+v", op)
	}
	if op := cpu.Resolve(cpu.IMP, nil, &reg, mem); op.HasAddr() {
		t.Errorf("IMP: got %+v", op)
	}
	if op := cpu.Resolve(cpu.REL, []byte{0xfe}, &reg, mem); op.Addr != 0x03fe || !op.PageCrossed {
		t.Errorf("REL backward: got $%04X/%v", op.Addr, op.PageCrossed)
	}
	if op := cpu.Resolve(cpu.REL, []byte{0x7f}, &reg, mem); op.Addr != 0x047f || op.PageCrossed {
		t.Errorf("REL forward: got $%04X/%v", op.Addr, op.PageCrossed)
	}
}
