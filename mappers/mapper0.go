package mappers

import "github.com/go-fce/fcego/nesrom"

func init() {
	Register(0, func(rom *nesrom.ROM) Mapper {
		return &mapper0{base: newBase(0, "NROM", rom)}
	})
}

// mapper0 implements NROM: one or two 16 KiB PRG blocks mirrored to
// fill $8000-$FFFF, and a single fixed 8 KiB CHR bank (ROM or RAM).
type mapper0 struct {
	base
}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	return m.chr[addr&(chrRAMSize-1)]
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	// Only meaningful when the cartridge has CHR RAM; writes to
	// CHR ROM are dropped.
	if len(m.rom.Chr) == 0 {
		m.chr[addr&(chrRAMSize-1)] = val
	}
}
