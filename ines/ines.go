// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ines reads the iNES cartridge image format: a 16-byte header
// followed by an optional trainer, the PRG ROM banks and the CHR ROM banks.
package ines

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Errors
var (
	ErrBadMagic    = errors.New("missing iNES magic number")
	ErrShortHeader = errors.New("iNES header truncated")
	ErrShortImage  = errors.New("iNES image truncated")
)

// Sizes of the fixed parts of an iNES image.
const (
	HeaderSize  = 16
	TrainerSize = 512
	PRGBankSize = 16 * 1024
	CHRBankSize = 8 * 1024
)

// "NES" followed by MS-DOS end-of-file.
var magic = [4]byte{'N', 'E', 'S', 0x1a}

// Header holds the metadata bytes of an iNES image.
type Header struct {
	PRGBanks byte // PRG ROM size in 16K units
	CHRBanks byte // CHR ROM size in 8K units; 0 means CHR RAM
	Flags6   byte // mirroring, battery, trainer, mapper low nibble
	Flags7   byte // console type, NES 2.0 signature, mapper high nibble
	Flags8   byte // PRG RAM size
	Flags9   byte // TV system
	Flags10  byte // TV system, PRG RAM presence (unofficial)
}

// rawHeader is the on-disk layout of the header.
type rawHeader struct {
	Magic   [4]byte
	Header  Header
	Padding [5]byte
}

// Mirroring describes how the PPU nametables are arranged.
type Mirroring byte

// Nametable mirroring arrangements
const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case FourScreen:
		return "four-screen"
	default:
		return fmt.Sprintf("Mirroring(%d)", byte(m))
	}
}

// ParseHeader decodes the header at the start of 'b'.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}

	var raw rawHeader
	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, &raw); err != nil {
		return Header{}, err
	}
	if raw.Magic != magic {
		return Header{}, fmt.Errorf("%w: % x", ErrBadMagic, raw.Magic[:])
	}
	return raw.Header, nil
}

// Mapper returns the iNES mapper number.
func (h *Header) Mapper() byte {
	return h.Flags7&0xf0 | h.Flags6>>4
}

// Mirroring returns the nametable arrangement wired on the cartridge.
func (h *Header) Mirroring() Mirroring {
	switch {
	case h.Flags6&0x08 != 0:
		return FourScreen
	case h.Flags6&0x01 != 0:
		return Vertical
	default:
		return Horizontal
	}
}

// HasBattery reports whether the cartridge has battery-backed PRG RAM.
func (h *Header) HasBattery() bool {
	return h.Flags6&0x02 != 0
}

// HasTrainer reports whether a 512-byte trainer precedes the PRG ROM.
func (h *Header) HasTrainer() bool {
	return h.Flags6&0x04 != 0
}

// PRGSize returns the size of the PRG ROM in bytes.
func (h *Header) PRGSize() int {
	return int(h.PRGBanks) * PRGBankSize
}

// CHRSize returns the size of the CHR ROM in bytes.
func (h *Header) CHRSize() int {
	return int(h.CHRBanks) * CHRBankSize
}

// PRGOffset returns the file offset of the first PRG ROM byte.
func (h *Header) PRGOffset() int {
	if h.HasTrainer() {
		return HeaderSize + TrainerSize
	}
	return HeaderSize
}

// An Image is a decoded iNES file.
type Image struct {
	Header  Header
	Trainer []byte
	PRG     []byte
	CHR     []byte
}

// Read decodes an iNES image from 'r'.
func Read(r io.Reader) (*Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Decode decodes an iNES image held in memory.
func Decode(b []byte) (*Image, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}

	img := &Image{Header: h}
	offset := HeaderSize
	if h.HasTrainer() {
		if len(b) < offset+TrainerSize {
			return nil, fmt.Errorf("%w: trainer", ErrShortImage)
		}
		img.Trainer = b[offset : offset+TrainerSize]
		offset += TrainerSize
	}

	if len(b) < offset+h.PRGSize() {
		return nil, fmt.Errorf("%w: PRG ROM wants %d bytes, %d present", ErrShortImage, h.PRGSize(), len(b)-offset)
	}
	img.PRG = b[offset : offset+h.PRGSize()]
	offset += h.PRGSize()

	if len(b) < offset+h.CHRSize() {
		return nil, fmt.Errorf("%w: CHR ROM wants %d bytes, %d present", ErrShortImage, h.CHRSize(), len(b)-offset)
	}
	img.CHR = b[offset : offset+h.CHRSize()]
	return img, nil
}

// PRGOrigin returns the CPU address the PRG ROM is loaded at. A single
// 16K bank sits at $C000 (mirrored from $8000 on NROM); larger images
// start at $8000.
func (img *Image) PRGOrigin() uint16 {
	if len(img.PRG) <= PRGBankSize {
		return 0xc000
	}
	return 0x8000
}

// PRGWindow returns the part of the PRG ROM that fits in the CPU's
// $8000-$FFFF cartridge space.
func (img *Image) PRGWindow() []byte {
	if len(img.PRG) > 2*PRGBankSize {
		return img.PRG[len(img.PRG)-2*PRGBankSize:]
	}
	return img.PRG
}

// Summary returns a multi-line description of the header.
func (h *Header) Summary() string {
	return fmt.Sprintf(
		"PRG ROM:   %d x 16K\n"+
			"CHR ROM:   %d x 8K\n"+
			"Mapper:    %d\n"+
			"Mirroring: %s\n"+
			"Battery:   %v\n"+
			"Trainer:   %v\n"+
			"Flags:     6=$%02X 7=$%02X 8=$%02X 9=$%02X 10=$%02X",
		h.PRGBanks, h.CHRBanks, h.Mapper(), h.Mirroring(), h.HasBattery(), h.HasTrainer(),
		h.Flags6, h.Flags7, h.Flags8, h.Flags9, h.Flags10)
}
