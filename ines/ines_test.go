package ines

import (
	"errors"
	"testing"
)

func header(magic [4]byte, prg, chr, flags6, flags7 byte) []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], magic[:])
	b[4], b[5], b[6], b[7] = prg, chr, flags6, flags7
	return b
}

func TestParseHeaderBadMagic(t *testing.T) {
	b := header([4]byte{'X', 'E', 'S', 0x1A}, 1, 0, 0, 0)
	if _, err := ParseHeader(b); !errors.Is(err, ErrInvalidRom) {
		t.Errorf("ParseHeader() err = %v, want ErrInvalidRom", err)
	}
}

func TestParseHeaderUnsupportedMapper(t *testing.T) {
	// mapper 1 (MMC1) in the high nibble of flags6.
	b := header(magic, 1, 0, 0x10, 0)
	if _, err := ParseHeader(b); !errors.Is(err, ErrInvalidRom) {
		t.Errorf("ParseHeader() err = %v, want ErrInvalidRom", err)
	}
}

func TestParseHeaderMapperNum(t *testing.T) {
	cases := []struct {
		flags6, flags7 byte
		want           uint8
	}{
		{0x00, 0x00, 0},
		{0x30, 0x00, 3},
		{0x10, 0x00, 1}, // rejected by ParseHeader, but MapperNum itself is unconditional
	}

	for i, tc := range cases {
		h := &Header{Flags6: tc.flags6, Flags7: tc.flags7}
		if got := h.MapperNum(); got != tc.want {
			t.Errorf("%d: MapperNum() = %d, want %d", i, got, tc.want)
		}
	}
}

func TestMirroringMode(t *testing.T) {
	cases := []struct {
		flags6 byte
		want   uint8
	}{
		{0x00, MirrorHorizontal},
		{0x01, MirrorVertical},
		{0x08, MirrorFourScreen},
		{0x09, MirrorFourScreen},
	}

	for i, tc := range cases {
		h := &Header{Flags6: tc.flags6}
		if got := h.MirroringMode(); got != tc.want {
			t.Errorf("%d: MirroringMode() = %d, want %d", i, got, tc.want)
		}
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, err := ParseHeader([]byte{'N', 'E', 'S'}); !errors.Is(err, ErrInvalidRom) {
		t.Errorf("ParseHeader() err = %v, want ErrInvalidRom", err)
	}
}
