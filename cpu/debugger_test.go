package cpu_test

import (
	"testing"

	"github.com/beevik/nes6502/cpu"
)

type breakRecorder struct {
	breaks     []uint16
	dataBreaks []uint16
}

func (r *breakRecorder) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	r.breaks = append(r.breaks, b.Address)
}

func (r *breakRecorder) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	r.dataBreaks = append(r.dataBreaks, b.Address)
}

func TestBreakpoint(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xea,       // NOP
		0xea,       // NOP
		0xa9, 0x01, // LDA #$01
		0xea, // NOP
	)

	r := &breakRecorder{}
	d := cpu.NewDebugger(r)
	c.AttachDebugger(d)
	d.AddBreakpoint(0x1002)
	d.AddBreakpoint(0x1004).Disabled = true

	stepCPU(t, c, 4)
	if len(r.breaks) != 1 || r.breaks[0] != 0x1002 {
		t.Errorf("breakpoints hit: %v", r.breaks)
	}

	if got := d.GetBreakpoints(); len(got) != 2 || got[0].Address != 0x1002 || got[1].Address != 0x1004 {
		t.Errorf("GetBreakpoints returned unordered or wrong set")
	}
	d.RemoveBreakpoint(0x1002)
	if d.GetBreakpoint(0x1002) != nil {
		t.Error("breakpoint not removed")
	}
}

func TestDataBreakpoint(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x05, // LDA #$05
		0x8d, 0x00, 0x02, // STA $0200
		0x8d, 0x01, 0x02, // STA $0201
		0xa9, 0x07, // LDA #$07
		0x8d, 0x01, 0x02, // STA $0201
		0x48, // PHA
	)

	r := &breakRecorder{}
	d := cpu.NewDebugger(r)
	c.AttachDebugger(d)
	d.AddDataBreakpoint(0x0200)
	d.AddConditionalDataBreakpoint(0x0201, 0x07)
	d.AddDataBreakpoint(0x01fd)

	stepCPU(t, c, 6)
	want := []uint16{0x0200, 0x0201, 0x01fd}
	if len(r.dataBreaks) != len(want) {
		t.Fatalf("data breakpoints hit: %v", r.dataBreaks)
	}
	for i := range want {
		if r.dataBreaks[i] != want[i] {
			t.Errorf("data breakpoint %d: exp $%04X, got $%04X", i, want[i], r.dataBreaks[i])
		}
	}
	expectMem(t, c, 0x0201, 0x07)
}

func TestDetachDebugger(t *testing.T) {
	c := loadCPU(t, 0x1000, 0x8d, 0x00, 0x02, 0xea)

	r := &breakRecorder{}
	d := cpu.NewDebugger(r)
	c.AttachDebugger(d)
	d.AddDataBreakpoint(0x0200)
	d.AddBreakpoint(0x1003)
	c.DetachDebugger()

	stepCPU(t, c, 2)
	if len(r.breaks) != 0 || len(r.dataBreaks) != 0 {
		t.Errorf("detached debugger still notified: %v %v", r.breaks, r.dataBreaks)
	}
}
