// Package mappers implements the cartridge mappers referenced
// numerically by the iNES header's mapper id. Only mapper 0 (NROM)
// and mapper 3 (CNROM) are supported; every other id fails ROM load.
package mappers

import (
	"fmt"

	"github.com/go-fce/fcego/nesrom"
)

// Mapper virtualizes a cartridge's PRG and CHR banks into the CPU's
// $8000-$FFFF window and the PPU's $0000-$1FFF pattern-table window.
type Mapper interface {
	ID() uint8
	Name() string
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	MirroringMode() uint8
	HasSaveRAM() bool
}

// Factory builds a fresh Mapper instance bound to rom. A new instance
// per ROM load keeps mapper state (bank selection, CHR RAM contents)
// from leaking between loads.
type Factory func(rom *nesrom.ROM) Mapper

var registry = map[uint8]Factory{}

// Register adds a mapper factory under id. Called from each mapper's
// init().
func Register(id uint8, f Factory) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mapper id %d already registered", id))
	}
	registry[id] = f
}

// Get constructs the Mapper that rom's header declares.
func Get(rom *nesrom.ROM) (Mapper, error) {
	f, ok := registry[rom.MapperNum()]
	if !ok {
		return nil, fmt.Errorf("no mapper registered for id %d", rom.MapperNum())
	}
	return f(rom), nil
}

// base carries the fields every mapper shares: the source ROM, its
// PRG window (already mirrored to fill $8000-$FFFF), and its CHR
// store (ROM-backed or, when the cartridge declares zero CHR blocks,
// 8 KiB of writable CHR RAM).
type base struct {
	id   uint8
	name string
	rom  *nesrom.ROM
	prg  []byte // exactly 32 KiB, mirrored from a 16 KiB cartridge if needed
	chr  []byte // CHR ROM (read-only by convention) or CHR RAM
}

const (
	prgWindowSize = 0x8000
	chrRAMSize    = 0x2000
)

func newBase(id uint8, name string, rom *nesrom.ROM) base {
	prg := make([]byte, prgWindowSize)
	switch rom.NumPrgBlocks() {
	case 1:
		copy(prg[0:0x4000], rom.Prg)
		copy(prg[0x4000:0x8000], rom.Prg)
	default:
		copy(prg, rom.Prg)
	}

	chr := rom.Chr
	if len(chr) == 0 {
		chr = make([]byte, chrRAMSize)
	}

	return base{id: id, name: name, rom: rom, prg: prg, chr: chr}
}

func (b *base) ID() uint8          { return b.id }
func (b *base) Name() string       { return b.name }
func (b *base) MirroringMode() uint8 { return b.rom.MirroringMode() }
func (b *base) HasSaveRAM() bool   { return b.rom.HasSaveRAM() }

// PrgRead/PrgWrite are identical for NROM and CNROM: PRG is
// read-only, mirrored to fill the 32 KiB window at load time.
func (b *base) PrgRead(addr uint16) uint8 {
	return b.prg[addr&(prgWindowSize-1)]
}

func (b *base) PrgWrite(addr uint16, val uint8) {
	// ROM is not writable on either mapper; CNROM's bank select
	// is handled by mapper3, which overrides this method.
}
