// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bus implements the NES CPU memory bus: a flat 64K address space
// in which the PPU, APU, DMA and joypad registers are memory-mapped.
package bus

import (
	"fmt"
	"strings"

	"github.com/beevik/nes6502/cpu"
)

// PPU registers
const (
	PPUCTRL   uint16 = 0x2000
	PPUMASK   uint16 = 0x2001
	PPUSTATUS uint16 = 0x2002
	OAMADDR   uint16 = 0x2003
	OAMDATA   uint16 = 0x2004
	PPUSCROLL uint16 = 0x2005
	PPUADDR   uint16 = 0x2006
	PPUDATA   uint16 = 0x2007
)

// APU registers
const (
	SQ1VOL      uint16 = 0x4000
	SQ1SWEEP    uint16 = 0x4001
	SQ1LO       uint16 = 0x4002
	SQ1HI       uint16 = 0x4003
	SQ2VOL      uint16 = 0x4004
	SQ2SWEEP    uint16 = 0x4005
	SQ2LO       uint16 = 0x4006
	SQ2HI       uint16 = 0x4007
	TRILINEAR   uint16 = 0x4008
	TRIUNUSED   uint16 = 0x4009
	TRILO       uint16 = 0x400a
	TRIHI       uint16 = 0x400b
	NOISEVOL    uint16 = 0x400c
	NOISEUNUSED uint16 = 0x400d
	NOISELO     uint16 = 0x400e
	NOISEHI     uint16 = 0x400f
	DMCFREQ     uint16 = 0x4010
	DMCRAW      uint16 = 0x4011
	DMCSTART    uint16 = 0x4012
	DMCLEN      uint16 = 0x4013
	SNDCHN      uint16 = 0x4015
)

// DMA and controller registers
const (
	OAMDMA uint16 = 0x4014
	JOY1   uint16 = 0x4016
	JOY2   uint16 = 0x4017
)

var registerNames = map[uint16]string{
	PPUCTRL:     "PPUCTRL",
	PPUMASK:     "PPUMASK",
	PPUSTATUS:   "PPUSTATUS",
	OAMADDR:     "OAMADDR",
	OAMDATA:     "OAMDATA",
	PPUSCROLL:   "PPUSCROLL",
	PPUADDR:     "PPUADDR",
	PPUDATA:     "PPUDATA",
	SQ1VOL:      "SQ1_VOL",
	SQ1SWEEP:    "SQ1_SWEEP",
	SQ1LO:       "SQ1_LO",
	SQ1HI:       "SQ1_HI",
	SQ2VOL:      "SQ2_VOL",
	SQ2SWEEP:    "SQ2_SWEEP",
	SQ2LO:       "SQ2_LO",
	SQ2HI:       "SQ2_HI",
	TRILINEAR:   "TRI_LINEAR",
	TRIUNUSED:   "TRI_UNUSED",
	TRILO:       "TRI_LO",
	TRIHI:       "TRI_HI",
	NOISEVOL:    "NOISE_VOL",
	NOISEUNUSED: "NOISE_UNUSED",
	NOISELO:     "NOISE_LO",
	NOISEHI:     "NOISE_HI",
	DMCFREQ:     "DMC_FREQ",
	DMCRAW:      "DMC_RAW",
	DMCSTART:    "DMC_START",
	DMCLEN:      "DMC_LEN",
	OAMDMA:      "OAMDMA",
	SNDCHN:      "SND_CHN",
	JOY1:        "JOY1",
	JOY2:        "JOY2",
}

// A Region identifies the device an address belongs to.
type Region byte

// Regions of the CPU address space.
const (
	RAM Region = iota
	PPU
	APU
	DMA
	Joypad
	Cartridge
)

var regionNames = [...]string{"RAM", "PPU", "APU", "DMA", "Joypad", "Cartridge"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return fmt.Sprintf("Region(%d)", byte(r))
}

// RegionOf classifies an address.
func RegionOf(addr uint16) Region {
	switch {
	case addr < 0x2000:
		return RAM
	case addr < 0x4000:
		return PPU
	case addr == OAMDMA:
		return DMA
	case addr == JOY1 || addr == JOY2:
		return Joypad
	case addr < 0x4020:
		return APU
	default:
		return Cartridge
	}
}

// IsRegister reports whether 'addr' is a memory-mapped register.
func IsRegister(addr uint16) bool {
	_, ok := registerNames[addr]
	return ok
}

// RegisterName returns the name of the register mapped at 'addr', or the
// empty string if no register lives there.
func RegisterName(addr uint16) string {
	return registerNames[addr]
}

// RegisterAddr returns the address of the register called 'name'. Names
// are matched without regard to case.
func RegisterAddr(name string) (uint16, bool) {
	for addr, n := range registerNames {
		if strings.EqualFold(n, name) {
			return addr, true
		}
	}
	return 0, false
}

// An Access records one CPU read or write of a memory-mapped register.
type Access struct {
	Addr  uint16 // register address
	Value byte   // byte read or written
	Write bool   // true for a store, false for a load
}

func (a Access) String() string {
	dir := "read "
	if a.Write {
		dir = "write"
	}
	return fmt.Sprintf("%s $%04X %-12s $%02X", dir, a.Addr, RegisterName(a.Addr), a.Value)
}

// A Listener receives register accesses when the bus is flushed.
type Listener interface {
	OnAccess(a Access)
}

// ListenerFunc adapts an ordinary function to the Listener interface.
type ListenerFunc func(a Access)

// OnAccess calls f(a).
func (f ListenerFunc) OnAccess(a Access) {
	f(a)
}

// Bus is the NES CPU address space. It implements cpu.Memory. Single-byte
// loads and stores of mapped registers are recorded and delivered to
// listeners by Flush, so devices never run in the middle of a CPU step.
// A register load returns the byte most recently latched with Latch.
type Bus struct {
	b         [64 * 1024]byte
	pending   []Access
	listeners []Listener
}

var _ cpu.Memory = (*Bus)(nil)

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// AddListener attaches a listener that receives every flushed access.
func (b *Bus) AddListener(l Listener) {
	b.listeners = append(b.listeners, l)
}

// LoadByte loads a single byte from the address and returns it.
func (b *Bus) LoadByte(addr uint16) byte {
	v := b.b[addr]
	if IsRegister(addr) {
		b.pending = append(b.pending, Access{Addr: addr, Value: v})
	}
	return v
}

// LoadBytes copies memory starting at 'addr' into 'p', wrapping at $FFFF.
// Bulk loads do not record register accesses.
func (b *Bus) LoadBytes(addr uint16, p []byte) {
	n := copy(p, b.b[addr:])
	for n < len(p) {
		n += copy(p[n:], b.b[:])
	}
}

// LoadAddress loads a 16-bit little-endian address. When the low byte sits
// at the end of a page, the high byte is read from the start of the same
// page.
func (b *Bus) LoadAddress(addr uint16) uint16 {
	lo := b.LoadByte(addr)
	hi := b.LoadByte(addr&0xff00 | uint16(byte(addr)+1))
	return uint16(lo) | uint16(hi)<<8
}

// StoreByte stores a byte to the requested address. Stores to a mapped
// register are recorded and leave the latched value untouched.
func (b *Bus) StoreByte(addr uint16, v byte) {
	if IsRegister(addr) {
		b.pending = append(b.pending, Access{Addr: addr, Value: v, Write: true})
		return
	}
	b.b[addr] = v
}

// StoreBytes copies 'p' into memory starting at 'addr', wrapping at $FFFF.
// Bulk stores write straight through and do not record accesses.
func (b *Bus) StoreBytes(addr uint16, p []byte) {
	n := copy(b.b[addr:], p)
	for n < len(p) {
		n += copy(b.b[:], p[n:])
	}
}

// StoreAddress stores a 16-bit address value to the requested address.
func (b *Bus) StoreAddress(addr uint16, v uint16) {
	b.StoreByte(addr, byte(v))
	b.StoreByte(addr&0xff00|uint16(byte(addr)+1), byte(v>>8))
}

// Latch sets the value a register returns when the CPU reads it. It is
// how devices publish state between steps. No access is recorded.
func (b *Bus) Latch(addr uint16, v byte) {
	b.b[addr] = v
}

// Pending returns a copy of the accesses recorded since the last flush.
func (b *Bus) Pending() []Access {
	return append([]Access(nil), b.pending...)
}

// Flush delivers the recorded accesses, in order, to every listener and
// then discards them. It returns the number of accesses delivered.
func (b *Bus) Flush() int {
	n := len(b.pending)
	for _, a := range b.pending {
		for _, l := range b.listeners {
			l.OnAccess(a)
		}
	}
	b.pending = b.pending[:0]
	return n
}

// View returns a cpu.Memory over the same address space that never
// records accesses. Stores through the view latch register values. It is
// meant for inspection tools such as memory dumps and disassembly.
func (b *Bus) View() cpu.Memory {
	return view{b}
}

type view struct {
	b *Bus
}

func (v view) LoadByte(addr uint16) byte {
	return v.b.b[addr]
}

func (v view) LoadBytes(addr uint16, p []byte) {
	v.b.LoadBytes(addr, p)
}

func (v view) StoreByte(addr uint16, x byte) {
	v.b.b[addr] = x
}

func (v view) StoreBytes(addr uint16, p []byte) {
	v.b.StoreBytes(addr, p)
}

func (v view) LoadAddress(addr uint16) uint16 {
	lo := v.b.b[addr]
	hi := v.b.b[addr&0xff00|uint16(byte(addr)+1)]
	return uint16(lo) | uint16(hi)<<8
}

func (v view) StoreAddress(addr uint16, x uint16) {
	v.b.b[addr] = byte(x)
	v.b.b[addr&0xff00|uint16(byte(addr)+1)] = byte(x >> 8)
}
