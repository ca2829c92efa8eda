// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur. Every method is total over the 16-bit address
// space; accesses running past $FFFF wrap to $0000.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) byte

	// LoadBytes loads multiple bytes from the address and stores them into
	// the buffer 'b'.
	LoadBytes(addr uint16, b []byte)

	// LoadAddress loads a 16-bit little-endian address value from the
	// requested address and returns it. The high byte is read from the
	// same page as the low byte (NMOS page-wrap behavior).
	LoadAddress(addr uint16) uint16

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint16, v byte)

	// StoreBytes stores multiple bytes to the requested address.
	StoreBytes(addr uint16, b []byte)

	// StoreAddress stores a 16-bit address 'v' to the requested address.
	StoreAddress(addr uint16, v uint16)
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer with no memory-mapped devices.
type FlatMemory struct {
	b [64 * 1024]byte
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes from the address, wrapping at $FFFF.
func (m *FlatMemory) LoadBytes(addr uint16, b []byte) {
	n := copy(b, m.b[addr:])
	for n < len(b) {
		n += copy(b[n:], m.b[:])
	}
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it.
//
// When the address spans 2 pages (i.e., address ends in 0xff), the high
// byte of the loaded address comes from a page-wrapped address. For example,
// LoadAddress on $12FF reads the low byte from $12FF and the high byte from
// $1200. This mimics the behavior of the NMOS 6502.
func (m *FlatMemory) LoadAddress(addr uint16) uint16 {
	return uint16(m.b[addr]) | uint16(m.b[pageWrapNext(addr)])<<8
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address, wrapping at
// $FFFF.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	n := copy(m.b[addr:], b)
	for n < len(b) {
		n += copy(m.b[:], b[n:])
	}
}

// StoreAddress stores a 16-bit address value to the requested address.
func (m *FlatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v)
	m.b[pageWrapNext(addr)] = byte(v >> 8)
}

// Return the address of the byte following 'addr' without carrying into
// the next page.
func pageWrapNext(addr uint16) uint16 {
	return addr&0xff00 | uint16(byte(addr)+1)
}

// Return the offset address 'addr' + 'offset'. If the offset
// crossed a page boundary, return 'pageCrossed' as true.
func offsetAddress(addr uint16, offset byte) (newAddr uint16, pageCrossed bool) {
	newAddr = addr + uint16(offset)
	pageCrossed = ((newAddr & 0xff00) != (addr & 0xff00))
	return newAddr, pageCrossed
}

// Offset a zero-page address 'addr' by 'offset', wrapping within the
// zero page.
func offsetZeroPage(addr uint16, offset byte) uint16 {
	return uint16(byte(addr) + offset)
}

// Convert a 1- or 2-byte little-endian operand into an address.
func operandToAddress(operand []byte) uint16 {
	switch len(operand) {
	case 1:
		return uint16(operand[0])
	case 2:
		return uint16(operand[1])<<8 | uint16(operand[0])
	}
	return 0
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func stackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}
