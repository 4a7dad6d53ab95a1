package mappers

import "github.com/go-fce/fcego/nesrom"

func init() {
	Register(3, func(rom *nesrom.ROM) Mapper {
		m := &mapper3{base: newBase(3, "CNROM", rom)}
		if n := rom.NumChrBlocks(); n > 0 {
			m.numBanks = n
		} else {
			m.numBanks = 1
		}
		return m
	})
}

// mapper3 implements CNROM: PRG is fixed and mirrored exactly like
// NROM, but any write to $8000-$FFFF selects which 8 KiB CHR bank is
// windowed into the PPU's pattern-table space.
type mapper3 struct {
	base
	bank     int
	numBanks int
}

func (m *mapper3) PrgWrite(addr uint16, val uint8) {
	m.bank = int(val) % m.numBanks
}

func (m *mapper3) ChrRead(addr uint16) uint8 {
	off := m.bank*chrRAMSize + int(addr&(chrRAMSize-1))
	if off >= len(m.chr) {
		return 0
	}
	return m.chr[off]
}

func (m *mapper3) ChrWrite(addr uint16, val uint8) {
	if len(m.rom.Chr) == 0 {
		m.chr[addr&(chrRAMSize-1)] = val
	}
}
