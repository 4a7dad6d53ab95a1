package mappers

import (
	"testing"

	"github.com/go-fce/fcego/ines"
	"github.com/go-fce/fcego/nesrom"
)

func romWith(prgBlocks, chrBlocks int, mapperID uint8) *nesrom.ROM {
	h := &ines.Header{PrgBlocks: uint8(prgBlocks), ChrBlocks: uint8(chrBlocks)}
	if mapperID == 3 {
		h.Flags6 = 0x30
	}
	return &nesrom.ROM{
		Header: h,
		Prg:    make([]byte, nesrom.PrgBlockSize*prgBlocks),
		Chr:    make([]byte, nesrom.ChrBlockSize*chrBlocks),
	}
}

func TestMapper0SinglePrgBlockMirrors(t *testing.T) {
	rom := romWith(1, 1, 0)
	rom.Prg[0] = 0xAA

	m, err := Get(rom)
	if err != nil {
		t.Fatalf("Get() err = %v", err)
	}

	if got := m.PrgRead(0x8000); got != 0xAA {
		t.Errorf("PrgRead(0x8000) = %#02x, want 0xAA", got)
	}
	if got := m.PrgRead(0xC000); got != 0xAA {
		t.Errorf("PrgRead(0xC000) = %#02x, want 0xAA", got)
	}
}

func TestMapper0TwoPrgBlocksDistinct(t *testing.T) {
	rom := romWith(2, 1, 0)
	rom.Prg[0] = 0x11
	rom.Prg[nesrom.PrgBlockSize] = 0x22

	m, _ := Get(rom)
	if got := m.PrgRead(0x8000); got != 0x11 {
		t.Errorf("PrgRead(0x8000) = %#02x, want 0x11", got)
	}
	if got := m.PrgRead(0xC000); got != 0x22 {
		t.Errorf("PrgRead(0xC000) = %#02x, want 0x22", got)
	}
}

func TestMapper0ChrRAMWhenNoChrBlocks(t *testing.T) {
	rom := romWith(1, 0, 0)
	m, _ := Get(rom)

	m.ChrWrite(0x0010, 0x42)
	if got := m.ChrRead(0x0010); got != 0x42 {
		t.Errorf("ChrRead(0x10) = %#02x, want 0x42 (CHR RAM should be writable)", got)
	}
}

func TestMapper3BankSwitch(t *testing.T) {
	rom := romWith(1, 2, 3)
	rom.Chr[0] = 0x01                        // bank 0
	rom.Chr[nesrom.ChrBlockSize] = 0x02       // bank 1

	m, err := Get(rom)
	if err != nil {
		t.Fatalf("Get() err = %v", err)
	}

	if got := m.ChrRead(0x0000); got != 0x01 {
		t.Errorf("bank 0: ChrRead(0) = %#02x, want 0x01", got)
	}

	m.PrgWrite(0x8000, 1)
	if got := m.ChrRead(0x0000); got != 0x02 {
		t.Errorf("bank 1: ChrRead(0) = %#02x, want 0x02", got)
	}
}

func TestGetUnsupportedMapper(t *testing.T) {
	rom := romWith(1, 1, 0)
	rom.Header.Flags6 = 0x10 // mapper 1

	if _, err := Get(rom); err == nil {
		t.Errorf("Get() with mapper 1 = nil error, want an error")
	}
}
