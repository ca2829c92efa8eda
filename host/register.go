// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"

	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/prefixtree/v2"
)

// A register names a CPU register or status flag that the host can read
// and change. Flags have a size of zero.
type register struct {
	name string
	size int
	flag cpu.Flag
}

var registers = []register{
	{name: "A", size: 1},
	{name: "X", size: 1},
	{name: "Y", size: 1},
	{name: "SP", size: 1},
	{name: "PC", size: 2},
	{name: "PS", size: 1},
	{name: "Carry", flag: cpu.Carry},
	{name: "Zero", flag: cpu.Zero},
	{name: "Interrupt", flag: cpu.InterruptDisable},
	{name: "Decimal", flag: cpu.Decimal},
	{name: "Overflow", flag: cpu.Overflow},
	{name: "Negative", flag: cpu.Negative},
}

var registerTree = prefixtree.New[*register]()

func init() {
	for i := range registers {
		r := &registers[i]
		registerTree.Add(strings.ToLower(r.name), r)
		if r.size == 0 {
			registerTree.Add(strings.ToLower(r.flag.String()), r)
		}
	}
}

func lookupRegister(name string) (*register, error) {
	r, err := registerTree.FindValue(strings.ToLower(name))
	switch err {
	case nil:
		return r, nil
	case prefixtree.ErrPrefixAmbiguous:
		return nil, fmt.Errorf("register '%s' is ambiguous", name)
	default:
		return nil, fmt.Errorf("register '%s' not found", name)
	}
}

func (h *Host) registerValue(r *register) int64 {
	reg := &h.cpu.Reg
	switch r.name {
	case "A":
		return int64(reg.A)
	case "X":
		return int64(reg.X)
	case "Y":
		return int64(reg.Y)
	case "SP":
		return int64(reg.SP)
	case "PC":
		return int64(reg.PC)
	case "PS":
		return int64(reg.PS)
	}
	if reg.PS.Get(r.flag) {
		return 1
	}
	return 0
}

func (h *Host) setRegister(r *register, v int64) {
	reg := &h.cpu.Reg
	switch r.name {
	case "A":
		reg.A = byte(v)
	case "X":
		reg.X = byte(v)
	case "Y":
		reg.Y = byte(v)
	case "SP":
		reg.SP = byte(v)
	case "PC":
		reg.PC = uint16(v)
	case "PS":
		reg.PS.Pull(byte(v))
	default:
		reg.PS.Put(r.flag, v != 0)
	}
}

func (h *Host) formatRegister(r *register) string {
	v := h.registerValue(r)
	switch r.size {
	case 0:
		return fmt.Sprintf("%v", v != 0)
	case 1:
		return fmt.Sprintf("$%02X", v)
	default:
		return fmt.Sprintf("$%04X", v)
	}
}
