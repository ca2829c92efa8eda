// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"github.com/beevik/nes6502/bus"
	"github.com/beevik/nes6502/cpu"
)

// The debugHandler receives notifications from the CPU, its debugger and
// the memory bus, and forwards them to the host.
type debugHandler struct {
	host *Host
}

func newDebugHandler(h *Host) *debugHandler {
	return &debugHandler{host: h}
}

func (h *debugHandler) OnBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	h.host.onBreakpoint(cpu, b)
}

func (h *debugHandler) OnDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.host.onDataBreakpoint(cpu, b)
}

func (h *debugHandler) OnBrk(cpu *cpu.CPU) {
	h.host.onBrk(cpu)
}

func (h *debugHandler) OnUnusedOpcode(cpu *cpu.CPU, inst *cpu.Instruction, addr uint16) {
	h.host.onUnusedOpcode(cpu, inst, addr)
}

func (h *debugHandler) OnTrace(cpu *cpu.CPU, t *cpu.Trace) {
	h.host.onTrace(cpu, t)
}

func (h *debugHandler) OnAccess(a bus.Access) {
	h.host.onAccess(a)
}
