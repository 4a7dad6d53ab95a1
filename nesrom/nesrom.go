// Package nesrom loads iNES-format cartridge images into their PRG,
// CHR and trainer sections. https://www.nesdev.org/wiki/INES
package nesrom

import (
	"fmt"
	"io"
	"os"

	"github.com/go-fce/fcego/ines"
)

const (
	TrainerSize  = 512
	PrgBlockSize = 16384
	ChrBlockSize = 8192
)

// ROM is a parsed iNES cartridge image: a header plus the PRG and CHR
// byte ranges a mapper banks into the CPU/PPU address spaces.
type ROM struct {
	Header  *ines.Header
	Trainer []byte
	Prg     []byte
	Chr     []byte // empty when the cartridge uses CHR RAM
}

// New reads and parses the iNES image at path.
func New(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rom %q: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses an iNES image from an arbitrary reader.
func Load(r io.Reader) (*ROM, error) {
	hbytes := make([]byte, ines.HeaderSize)
	if _, err := io.ReadFull(r, hbytes); err != nil {
		return nil, fmt.Errorf("reading header: %w: %w", err, ines.ErrInvalidRom)
	}

	h, err := ines.ParseHeader(hbytes)
	if err != nil {
		return nil, err
	}

	rom := &ROM{Header: h}

	if h.HasTrainer() {
		rom.Trainer = make([]byte, TrainerSize)
		if _, err := io.ReadFull(r, rom.Trainer); err != nil {
			return nil, fmt.Errorf("reading trainer: %w: %w", err, ines.ErrInvalidRom)
		}
	}

	rom.Prg = make([]byte, PrgBlockSize*int(h.PrgBlocks))
	if _, err := io.ReadFull(r, rom.Prg); err != nil {
		return nil, fmt.Errorf("reading PRG (wanted %d bytes): %w: %w", len(rom.Prg), err, ines.ErrInvalidRom)
	}

	rom.Chr = make([]byte, ChrBlockSize*int(h.ChrBlocks))
	if len(rom.Chr) > 0 {
		if _, err := io.ReadFull(r, rom.Chr); err != nil {
			return nil, fmt.Errorf("reading CHR (wanted %d bytes): %w: %w", len(rom.Chr), err, ines.ErrInvalidRom)
		}
	}

	return rom, nil
}

func (r *ROM) NumPrgBlocks() int { return len(r.Prg) / PrgBlockSize }
func (r *ROM) NumChrBlocks() int { return len(r.Chr) / ChrBlockSize }

func (r *ROM) MapperNum() uint8     { return r.Header.MapperNum() }
func (r *ROM) MirroringMode() uint8 { return r.Header.MirroringMode() }
func (r *ROM) HasSaveRAM() bool     { return r.Header.HasSaveRAM() }

func (r *ROM) String() string {
	return fmt.Sprintf("%s prg=%dB chr=%dB trainer=%v", r.Header, len(r.Prg), len(r.Chr), r.Trainer != nil)
}
