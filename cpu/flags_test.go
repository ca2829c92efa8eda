package cpu_test

import (
	"testing"

	"github.com/beevik/nes6502/cpu"
)

func TestFlagSet(t *testing.T) {
	cases := []struct {
		flag   cpu.Flag
		status cpu.Status
		want   cpu.Status
	}{
		{cpu.Carry, 0x00, 0x01},
		{cpu.Carry, 0xf0, 0xf1},
		{cpu.Zero, 0x00, 0x02},
		{cpu.InterruptDisable, 0xf0, 0xf4},
		{cpu.Decimal, 0x00, 0x08},
		{cpu.Overflow, 0x00, 0x40},
		{cpu.Negative, 0x7f, 0xff},
		{cpu.Negative, 0xff, 0xff},
	}

	for i, tc := range cases {
		s := tc.status
		s.Set(tc.flag)
		if s != tc.want {
			t.Errorf("%d: Set(%s) wanted $%02x, got $%02x", i, tc.flag, byte(tc.want), byte(s))
		}
		if !s.Get(tc.flag) {
			t.Errorf("%d: Get(%s) false after Set", i, tc.flag)
		}
	}
}

func TestFlagClear(t *testing.T) {
	cases := []struct {
		flag   cpu.Flag
		status cpu.Status
		want   cpu.Status
	}{
		{cpu.Carry, 0xff, 0xfe},
		{cpu.Zero, 0x02, 0x00},
		{cpu.InterruptDisable, 0x24, 0x20},
		{cpu.Decimal, 0x00, 0x00},
		{cpu.Overflow, 0xc0, 0x80},
		{cpu.Negative, 0x80, 0x00},
	}

	for i, tc := range cases {
		s := tc.status
		s.Clear(tc.flag)
		if s != tc.want {
			t.Errorf("%d: Clear(%s) wanted $%02x, got $%02x", i, tc.flag, byte(tc.want), byte(s))
		}
		if s.Get(tc.flag) {
			t.Errorf("%d: Get(%s) true after Clear", i, tc.flag)
		}
	}
}

func TestFlagGetDoesNotMutate(t *testing.T) {
	s := cpu.Status(0xa5)
	for _, f := range cpu.Flags() {
		s.Get(f)
	}
	if s != 0xa5 {
		t.Errorf("Get mutated status: $%02x", byte(s))
	}
}

func TestFlagBitsDistinct(t *testing.T) {
	var seen cpu.Status
	for _, f := range cpu.Flags() {
		m := f.Mask()
		if m&(m-1) != 0 || m == 0 {
			t.Errorf("flag %s mask $%02x is not a single bit", f, byte(m))
		}
		if seen&m != 0 {
			t.Errorf("flag %s overlaps another flag", f)
		}
		if m == cpu.BreakBit || m == cpu.ReservedBit {
			t.Errorf("flag %s uses a reserved bit", f)
		}
		seen |= m
	}
}

func TestZeroFlagValueIsInert(t *testing.T) {
	var f cpu.Flag
	s := cpu.Status(0x00)
	s.Set(f)
	if s != 0 || s.Get(f) {
		t.Errorf("zero Flag value changed status: $%02x", byte(s))
	}
}

func TestStatusPushPull(t *testing.T) {
	s := cpu.Status(0x81)
	if got := s.Push(false); got != 0xa1 {
		t.Errorf("Push(false) wanted $a1, got $%02x", got)
	}
	if got := s.Push(true); got != 0xb1 {
		t.Errorf("Push(true) wanted $b1, got $%02x", got)
	}

	s.Pull(0xdf)
	if s != 0xef {
		t.Errorf("Pull wanted $ef, got $%02x", byte(s))
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		status cpu.Status
		want   string
	}{
		{0x24, "nv-bdIzc"},
		{0xc3, "NV-bdiZC"},
		{0xff, "NV-BDIZC"},
	}

	for i, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("%d: wanted %s, got %s", i, tc.want, got)
		}
	}
}
