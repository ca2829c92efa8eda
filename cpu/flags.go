// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Status is the bit-packed processor status register.
type Status byte

// Bits assigned to the processor status byte
const (
	CarryBit            Status = 1 << 0
	ZeroBit             Status = 1 << 1
	InterruptDisableBit Status = 1 << 2
	DecimalBit          Status = 1 << 3
	BreakBit            Status = 1 << 4
	ReservedBit         Status = 1 << 5
	OverflowBit         Status = 1 << 6
	NegativeBit         Status = 1 << 7

	flagBits = CarryBit | ZeroBit | InterruptDisableBit | DecimalBit |
		OverflowBit | NegativeBit
)

// A Flag names one of the six processor status flags. Only the exported
// Flag values below exist; the break and reserved bits have no Flag.
type Flag struct {
	mask Status
	name string
}

// The processor status flags.
var (
	Carry            = Flag{CarryBit, "C"}
	Zero             = Flag{ZeroBit, "Z"}
	InterruptDisable = Flag{InterruptDisableBit, "I"}
	Decimal          = Flag{DecimalBit, "D"}
	Overflow         = Flag{OverflowBit, "V"}
	Negative         = Flag{NegativeBit, "N"}
)

// Flags lists every flag from the most significant bit down.
func Flags() []Flag {
	return []Flag{Negative, Overflow, Decimal, InterruptDisable, Zero, Carry}
}

// String returns the single-letter name of the flag.
func (f Flag) String() string {
	return f.name
}

// Mask returns the flag's bit within the status byte.
func (f Flag) Mask() Status {
	return f.mask
}

// Get reports whether the flag is set.
func (s Status) Get(f Flag) bool {
	return s&f.mask != 0
}

// Set sets the flag.
func (s *Status) Set(f Flag) {
	*s |= f.mask
}

// Clear clears the flag.
func (s *Status) Clear(f Flag) {
	*s &^= f.mask
}

// Put sets the flag if v is true and clears it otherwise.
func (s *Status) Put(f Flag, v bool) {
	if v {
		*s |= f.mask
	} else {
		*s &^= f.mask
	}
}

// Push returns the status byte as it is stored on the stack. The reserved
// bit is always set. The break bit is set only when brk is true (BRK and
// PHP); hardware interrupts push it clear.
func (s Status) Push(brk bool) byte {
	v := s&flagBits | ReservedBit
	if brk {
		v |= BreakBit
	}
	return byte(v)
}

// Pull restores the six flags from a byte pulled off the stack. The break
// and reserved bits of b are ignored.
func (s *Status) Pull(b byte) {
	*s = Status(b)&flagBits | ReservedBit
}

// String returns the flags as letters, upper case when set, e.g. "nv-bdIzc".
func (s Status) String() string {
	const names = "NV-BDIZC"
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		bit := Status(0x80 >> i)
		c := names[i]
		switch {
		case c == '-':
		case s&bit == 0:
			c += 'a' - 'A'
		}
		buf[i] = c
	}
	return string(buf)
}
