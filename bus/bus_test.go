package bus_test

import (
	"testing"

	"github.com/beevik/nes6502/bus"
	"github.com/beevik/nes6502/cpu"
)

func TestRegionOf(t *testing.T) {
	cases := []struct {
		addr   uint16
		region bus.Region
	}{
		{0x0000, bus.RAM},
		{0x07ff, bus.RAM},
		{0x1fff, bus.RAM},
		{0x2000, bus.PPU},
		{0x2007, bus.PPU},
		{0x3fff, bus.PPU},
		{0x4000, bus.APU},
		{0x4013, bus.APU},
		{0x4014, bus.DMA},
		{0x4015, bus.APU},
		{0x4016, bus.Joypad},
		{0x4017, bus.Joypad},
		{0x4020, bus.Cartridge},
		{0x8000, bus.Cartridge},
		{0xffff, bus.Cartridge},
	}

	for _, tc := range cases {
		if got := bus.RegionOf(tc.addr); got != tc.region {
			t.Errorf("RegionOf($%04X): exp %s, got %s", tc.addr, tc.region, got)
		}
	}
}

func TestRegisterNames(t *testing.T) {
	cases := []struct {
		addr uint16
		name string
	}{
		{bus.PPUCTRL, "PPUCTRL"},
		{bus.PPUSTATUS, "PPUSTATUS"},
		{bus.PPUDATA, "PPUDATA"},
		{bus.SQ1VOL, "SQ1_VOL"},
		{bus.SQ2HI, "SQ2_HI"},
		{bus.TRILINEAR, "TRI_LINEAR"},
		{bus.NOISEHI, "NOISE_HI"},
		{bus.DMCLEN, "DMC_LEN"},
		{bus.OAMDMA, "OAMDMA"},
		{bus.SNDCHN, "SND_CHN"},
		{bus.JOY1, "JOY1"},
		{bus.JOY2, "JOY2"},
		{0x2008, ""},
		{0x0200, ""},
	}

	for _, tc := range cases {
		if got := bus.RegisterName(tc.addr); got != tc.name {
			t.Errorf("RegisterName($%04X): exp %q, got %q", tc.addr, tc.name, got)
		}
	}

	count := 0
	for a := 0; a < 0x10000; a++ {
		if bus.IsRegister(uint16(a)) {
			count++
		}
	}
	if count != 32 {
		t.Errorf("mapped register count: exp 32, got %d", count)
	}

	if addr, ok := bus.RegisterAddr("ppustatus"); !ok || addr != bus.PPUSTATUS {
		t.Errorf("RegisterAddr(ppustatus): exp $2002, got $%04X %v", addr, ok)
	}
	if _, ok := bus.RegisterAddr("PPU"); ok {
		t.Error("RegisterAddr(PPU): expected no match")
	}
}

func TestRamIsFlat(t *testing.T) {
	b := bus.New()
	b.StoreByte(0x0000, 0x11)
	b.StoreByte(0x0800, 0x22)
	b.StoreByte(0x2008, 0x33)

	if b.LoadByte(0x0000) != 0x11 || b.LoadByte(0x0800) != 0x22 || b.LoadByte(0x2008) != 0x33 {
		t.Error("flat memory read back incorrectly")
	}
	if n := len(b.Pending()); n != 0 {
		t.Errorf("ordinary memory recorded %d accesses", n)
	}
}

func TestRegisterAccessRecorded(t *testing.T) {
	b := bus.New()
	b.Latch(bus.PPUSTATUS, 0x80)

	b.StoreByte(bus.PPUCTRL, 0x90)
	if v := b.LoadByte(bus.PPUSTATUS); v != 0x80 {
		t.Errorf("PPUSTATUS read: exp $80, got $%02X", v)
	}
	b.StoreByte(bus.JOY1, 0x01)

	want := []bus.Access{
		{Addr: bus.PPUCTRL, Value: 0x90, Write: true},
		{Addr: bus.PPUSTATUS, Value: 0x80},
		{Addr: bus.JOY1, Value: 0x01, Write: true},
	}
	got := b.Pending()
	if len(got) != len(want) {
		t.Fatalf("pending accesses: exp %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("access %d: exp %+v, got %+v", i, want[i], got[i])
		}
	}

	// A register write does not change what a later read returns.
	if v := b.View().LoadByte(bus.PPUCTRL); v != 0x00 {
		t.Errorf("PPUCTRL latch changed by write: $%02X", v)
	}
}

func TestFlush(t *testing.T) {
	b := bus.New()
	var first, second []bus.Access
	b.AddListener(bus.ListenerFunc(func(a bus.Access) { first = append(first, a) }))
	b.AddListener(bus.ListenerFunc(func(a bus.Access) { second = append(second, a) }))

	b.StoreByte(bus.PPUADDR, 0x3f)
	b.StoreByte(bus.PPUADDR, 0x00)
	if len(first) != 0 {
		t.Fatal("listener called before flush")
	}

	if n := b.Flush(); n != 2 {
		t.Errorf("Flush returned %d, exp 2", n)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("listeners received %d and %d accesses", len(first), len(second))
	}
	if first[0].Value != 0x3f || first[1].Value != 0x00 {
		t.Errorf("accesses delivered out of order: %+v", first)
	}
	if len(b.Pending()) != 0 {
		t.Error("pending accesses not cleared by flush")
	}
	if n := b.Flush(); n != 0 {
		t.Errorf("second Flush returned %d", n)
	}
}

func TestViewDoesNotRecord(t *testing.T) {
	b := bus.New()
	v := b.View()
	v.StoreByte(bus.PPUSTATUS, 0xc0)
	if got := v.LoadByte(bus.PPUSTATUS); got != 0xc0 {
		t.Errorf("view read: exp $C0, got $%02X", got)
	}
	v.StoreAddress(bus.SQ1VOL, 0x1234)
	if got := v.LoadAddress(bus.SQ1VOL); got != 0x1234 {
		t.Errorf("view address: exp $1234, got $%04X", got)
	}
	if n := len(b.Pending()); n != 0 {
		t.Errorf("view recorded %d accesses", n)
	}
}

func TestBulkTransferWraps(t *testing.T) {
	b := bus.New()
	b.StoreBytes(0xfffe, []byte{1, 2, 3, 4})
	got := make([]byte, 4)
	b.LoadBytes(0xfffe, got)
	for i, v := range []byte{1, 2, 3, 4} {
		if got[i] != v {
			t.Errorf("byte %d: exp %d, got %d", i, v, got[i])
		}
	}
	if b.LoadByte(0x0001) != 4 {
		t.Error("bulk store did not wrap to $0000")
	}
}

func TestLoadAddressPageWrap(t *testing.T) {
	b := bus.New()
	b.StoreByte(0x02ff, 0x34)
	b.StoreByte(0x0200, 0x12)
	b.StoreByte(0x0300, 0x99)
	if got := b.LoadAddress(0x02ff); got != 0x1234 {
		t.Errorf("LoadAddress($02FF): exp $1234, got $%04X", got)
	}
}

func TestCPUOnBus(t *testing.T) {
	b := bus.New()
	c := cpu.NewCPU(b)
	code := []byte{
		0xad, 0x02, 0x20, // LDA $2002
		0xa9, 0x1e, // LDA #$1E
		0x8d, 0x01, 0x20, // STA $2001
		0x8d, 0x00, 0x03, // STA $0300
	}
	if err := c.LoadProgram(0x8000, code, 0x8000); err != nil {
		t.Fatal(err)
	}
	b.Latch(bus.PPUSTATUS, 0x80)

	var seen []bus.Access
	b.AddListener(bus.ListenerFunc(func(a bus.Access) { seen = append(seen, a) }))

	for i := 0; i < 4; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			if c.Reg.A != 0x80 || !c.Reg.PS.Get(cpu.Negative) {
				t.Errorf("LDA $2002: A=$%02X PS=%s", c.Reg.A, c.Reg.PS)
			}
		}
		b.Flush()
	}

	want := []bus.Access{
		{Addr: bus.PPUSTATUS, Value: 0x80},
		{Addr: bus.PPUMASK, Value: 0x1e, Write: true},
	}
	if len(seen) != len(want) {
		t.Fatalf("accesses: exp %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("access %d: exp %+v, got %+v", i, want[i], seen[i])
		}
	}
	if b.LoadByte(0x0300) != 0x1e {
		t.Error("RAM store through bus failed")
	}
}
