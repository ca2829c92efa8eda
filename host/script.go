// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/nes6502/bus"
	lua "github.com/yuin/gopher-lua"
)

// runScript executes a Lua script against the host. Scripts see the
// global functions registered by newScriptState.
func (h *Host) runScript(filename string) error {
	L, quit := h.newScriptState()
	defer L.Close()

	err := L.DoFile(filename)
	h.setState(stateProcessingCommands)
	if *quit {
		return errQuit
	}
	return err
}

// newScriptState creates a Lua state whose globals drive the host. The
// returned flag is set when a script runs the quit command.
func (h *Host) newScriptState() (*lua.LState, *bool) {
	L := lua.NewState()
	quit := new(bool)

	api := map[string]lua.LGFunction{
		"print":  h.luaPrint,
		"step":   h.luaStep,
		"run":    h.luaRun,
		"reg":    h.luaReg,
		"setreg": h.luaSetReg,
		"flag":   h.luaFlag,
		"peek":   h.luaPeek,
		"poke":   h.luaPoke,
		"latch":  h.luaLatch,
		"io":     h.luaIO,
		"pc":     h.luaPC,
		"cycles": h.luaCycles,
		"reset":  h.luaReset,
		"nmi":    h.luaNMI,
		"irq":    h.luaIRQ,
		"disasm": h.luaDisasm,
		"cmd":    h.luaCmd(quit),
	}
	for name, fn := range api {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L, quit
}

// cmd(line) runs a host command.
func (h *Host) luaCmd(quit *bool) lua.LGFunction {
	return func(L *lua.LState) int {
		err := h.exec(L.CheckString(1))
		if errors.Is(err, errQuit) {
			*quit = true
			L.RaiseError("quit")
		}
		return 0
	}
}

func (h *Host) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	s := make([]string, n)
	for i := 1; i <= n; i++ {
		s[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	h.println(strings.Join(s, "\t"))
	return 0
}

// step([n]) steps up to n instructions. It returns the cycles consumed and
// the reason stepping stopped early, or nil.
func (h *Host) luaStep(L *lua.LState) int {
	n := L.OptInt(1, 1)
	start := h.cpu.Cycles

	h.setState(stateRunning)
	for i := 0; i < n && h.getState() == stateRunning; i++ {
		h.step()
	}
	return h.pushStop(L, lua.LNumber(h.cpu.Cycles-start))
}

// run([limit]) runs until a breakpoint, a halt or, if given, limit
// instructions. It returns the number of instructions stepped and the
// reason the run stopped, or nil if the limit was reached.
func (h *Host) luaRun(L *lua.LState) int {
	steps := h.run(L.OptInt(1, 0))
	return h.pushStop(L, lua.LNumber(steps))
}

func (h *Host) pushStop(L *lua.LState, v lua.LValue) int {
	L.Push(v)
	switch reason := h.getState().reason(); {
	case reason == "halted" && h.lastErr != nil:
		L.Push(lua.LString(h.lastErr.Error()))
	case reason != "":
		L.Push(lua.LString(reason))
	default:
		L.Push(lua.LNil)
	}
	h.setState(stateProcessingCommands)
	return 2
}

func (h *Host) luaReg(L *lua.LState) int {
	r := h.luaRegister(L)
	if r.size == 0 {
		L.Push(lua.LBool(h.registerValue(r) != 0))
	} else {
		L.Push(lua.LNumber(h.registerValue(r)))
	}
	return 1
}

func (h *Host) luaSetReg(L *lua.LState) int {
	r := h.luaRegister(L)
	switch v := L.CheckAny(2).(type) {
	case lua.LBool:
		h.setRegister(r, int64(boolToInt(bool(v))))
	case lua.LNumber:
		h.setRegister(r, int64(v))
	default:
		L.ArgError(2, "number or boolean expected")
	}
	return 0
}

func (h *Host) luaFlag(L *lua.LState) int {
	r := h.luaRegister(L)
	if r.size != 0 {
		L.ArgError(1, fmt.Sprintf("%s is not a status flag", r.name))
	}
	if L.GetTop() >= 2 {
		h.setRegister(r, int64(boolToInt(L.CheckBool(2))))
	}
	L.Push(lua.LBool(h.registerValue(r) != 0))
	return 1
}

func (h *Host) luaRegister(L *lua.LState) *register {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	return r
}

// peek(addr) reads memory without recording a register access.
func (h *Host) luaPeek(L *lua.LState) int {
	L.Push(lua.LNumber(h.mem.LoadByte(uint16(L.CheckInt(1)))))
	return 1
}

// poke(addr, v, ...) stores bytes starting at addr. Stores to
// memory-mapped registers latch the value.
func (h *Host) luaPoke(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	for i := 2; i <= L.GetTop(); i++ {
		h.mem.StoreByte(addr, byte(L.CheckInt(i)))
		addr++
	}
	return 0
}

// latch(reg, v) sets the value a memory-mapped register reads as. The
// register may be given by name or address.
func (h *Host) luaLatch(L *lua.LState) int {
	var addr uint16
	switch v := L.CheckAny(1).(type) {
	case lua.LString:
		a, ok := bus.RegisterAddr(string(v))
		if !ok {
			L.ArgError(1, fmt.Sprintf("unknown register '%s'", string(v)))
		}
		addr = a
	case lua.LNumber:
		addr = uint16(v)
	default:
		L.ArgError(1, "register name or address expected")
	}
	if !bus.IsRegister(addr) {
		L.ArgError(1, fmt.Sprintf("$%04X is not a memory-mapped register", addr))
	}
	h.bus.Latch(addr, byte(L.CheckInt(2)))
	return 0
}

// io() returns the logged register accesses, oldest first.
func (h *Host) luaIO(L *lua.LState) int {
	tb := L.NewTable()
	for _, a := range h.ioLog {
		e := L.NewTable()
		L.SetField(e, "addr", lua.LNumber(a.Addr))
		L.SetField(e, "name", lua.LString(bus.RegisterName(a.Addr)))
		L.SetField(e, "value", lua.LNumber(a.Value))
		L.SetField(e, "write", lua.LBool(a.Write))
		tb.Append(e)
	}
	L.Push(tb)
	return 1
}

func (h *Host) luaPC(L *lua.LState) int {
	if L.GetTop() >= 1 {
		h.cpu.SetPC(uint16(L.CheckInt(1)))
	}
	L.Push(lua.LNumber(h.cpu.Reg.PC))
	return 1
}

func (h *Host) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(h.cpu.Cycles))
	return 1
}

func (h *Host) luaReset(L *lua.LState) int {
	h.cpu.Reset()
	h.brkAddr = -1
	return 0
}

func (h *Host) luaNMI(L *lua.LState) int {
	h.cpu.NMI()
	return 0
}

func (h *Host) luaIRQ(L *lua.LState) int {
	L.Push(lua.LBool(h.cpu.IRQ()))
	return 1
}

// disasm([addr]) returns the disassembly of the instruction at addr, or
// at PC, and the address of the instruction that follows.
func (h *Host) luaDisasm(L *lua.LState) int {
	addr := uint16(L.OptInt(1, int(h.cpu.Reg.PC)))
	line, next := h.disassemble(addr, displayIONames)
	L.Push(lua.LString(line))
	L.Push(lua.LNumber(next))
	return 2
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
