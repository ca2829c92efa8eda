package ines_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/beevik/nes6502/ines"
)

func makeImage(prg, chr byte, flags6, flags7 byte, trailer int) []byte {
	b := []byte{'N', 'E', 'S', 0x1a, prg, chr, flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	n := int(prg)*ines.PRGBankSize + int(chr)*ines.CHRBankSize
	if flags6&0x04 != 0 {
		n += ines.TrainerSize
	}
	body := make([]byte, n+trailer)
	for i := range body {
		body[i] = byte(i / 256)
	}
	return append(b, body...)
}

func TestParseHeader(t *testing.T) {
	b := makeImage(2, 1, 0x13, 0x40, 0)
	h, err := ines.ParseHeader(b)
	if err != nil {
		t.Fatal(err)
	}
	if h.PRGBanks != 2 || h.CHRBanks != 1 || h.Flags6 != 0x13 || h.Flags7 != 0x40 {
		t.Errorf("header fields incorrect: %+v", h)
	}
	if h.Mapper() != 0x41 {
		t.Errorf("Mapper: exp $41, got $%02X", h.Mapper())
	}
	if h.Mirroring() != ines.Vertical {
		t.Errorf("Mirroring: exp vertical, got %s", h.Mirroring())
	}
	if !h.HasBattery() || h.HasTrainer() {
		t.Errorf("battery/trainer flags incorrect: %v %v", h.HasBattery(), h.HasTrainer())
	}
}

func TestParseHeaderErrors(t *testing.T) {
	if _, err := ines.ParseHeader([]byte{'N', 'E', 'S'}); !errors.Is(err, ines.ErrShortHeader) {
		t.Errorf("short header: got %v", err)
	}

	b := makeImage(1, 0, 0, 0, 0)
	b[3] = 0x00
	if _, err := ines.ParseHeader(b); !errors.Is(err, ines.ErrBadMagic) {
		t.Errorf("bad magic: got %v", err)
	}
}

func TestMirroring(t *testing.T) {
	cases := []struct {
		flags6 byte
		want   ines.Mirroring
	}{
		{0x00, ines.Horizontal},
		{0x01, ines.Vertical},
		{0x08, ines.FourScreen},
		{0x09, ines.FourScreen},
	}
	for _, tc := range cases {
		h := ines.Header{Flags6: tc.flags6}
		if got := h.Mirroring(); got != tc.want {
			t.Errorf("flags6 $%02X: exp %s, got %s", tc.flags6, tc.want, got)
		}
	}
}

func TestRead(t *testing.T) {
	img, err := ines.Read(bytes.NewReader(makeImage(1, 1, 0, 0, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if len(img.PRG) != ines.PRGBankSize || len(img.CHR) != ines.CHRBankSize {
		t.Errorf("section sizes: PRG %d, CHR %d", len(img.PRG), len(img.CHR))
	}
	if img.PRG[0] != 0x00 || img.CHR[0] != 0x40 {
		t.Error("sections extracted from the wrong offsets")
	}
	if img.PRGOrigin() != 0xc000 {
		t.Errorf("PRGOrigin: exp $C000, got $%04X", img.PRGOrigin())
	}
}

func TestReadTrainer(t *testing.T) {
	img, err := ines.Decode(makeImage(2, 0, 0x04, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Trainer) != ines.TrainerSize {
		t.Errorf("trainer size %d", len(img.Trainer))
	}
	if img.PRG[0] != 0x02 {
		t.Errorf("PRG starts with $%02X, trainer not skipped", img.PRG[0])
	}
	if img.Header.PRGOffset() != ines.HeaderSize+ines.TrainerSize {
		t.Errorf("PRGOffset: %d", img.Header.PRGOffset())
	}
	if img.PRGOrigin() != 0x8000 || len(img.PRGWindow()) != 2*ines.PRGBankSize {
		t.Errorf("32K image: origin $%04X window %d", img.PRGOrigin(), len(img.PRGWindow()))
	}
}

func TestReadShortImage(t *testing.T) {
	b := makeImage(1, 1, 0, 0, 0)
	if _, err := ines.Decode(b[:len(b)-1]); !errors.Is(err, ines.ErrShortImage) {
		t.Errorf("short CHR: got %v", err)
	}
	if _, err := ines.Decode(b[:ines.HeaderSize+100]); !errors.Is(err, ines.ErrShortImage) {
		t.Errorf("short PRG: got %v", err)
	}
}
