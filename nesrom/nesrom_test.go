package nesrom

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-fce/fcego/ines"
)

func buildImage(prgBlocks, chrBlocks int, prgFill byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'N', 'E', 'S', 0x1A, byte(prgBlocks), byte(chrBlocks), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})

	prg := make([]byte, PrgBlockSize*prgBlocks)
	prg[0] = prgFill
	buf.Write(prg)

	buf.Write(make([]byte, ChrBlockSize*chrBlocks))

	return buf.Bytes()
}

func TestLoadNROM128Mirror(t *testing.T) {
	rom, err := Load(bytes.NewReader(buildImage(1, 1, 0xAA)))
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	if got := len(rom.Prg); got != PrgBlockSize {
		t.Fatalf("len(Prg) = %d, want %d", got, PrgBlockSize)
	}
	if rom.Prg[0] != 0xAA {
		t.Errorf("Prg[0] = %#02x, want 0xAA", rom.Prg[0])
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	img := buildImage(1, 0, 0)
	img[0] = 'X'

	if _, err := Load(bytes.NewReader(img)); !errors.Is(err, ines.ErrInvalidRom) {
		t.Errorf("Load() err = %v, want ErrInvalidRom", err)
	}
}

func TestLoadChrRAM(t *testing.T) {
	rom, err := Load(bytes.NewReader(buildImage(1, 0, 0)))
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if len(rom.Chr) != 0 {
		t.Errorf("len(Chr) = %d, want 0 (CHR RAM cartridge)", len(rom.Chr))
	}
	if rom.NumChrBlocks() != 0 {
		t.Errorf("NumChrBlocks() = %d, want 0", rom.NumChrBlocks())
	}
}

func TestLoadTruncatedPrg(t *testing.T) {
	img := buildImage(2, 0, 0)
	img = img[:len(img)-10] // truncate PRG data

	if _, err := Load(bytes.NewReader(img)); !errors.Is(err, ines.ErrInvalidRom) {
		t.Errorf("Load() err = %v, want ErrInvalidRom", err)
	}
}
