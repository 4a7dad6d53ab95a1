// Package console wires the CPU, PPU, cartridge mapper and
// controllers together into the NES's three memory-mapped buses and
// drives the emulation loop that keeps them in lockstep.
package console

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/go-fce/fcego/hal"
	"github.com/go-fce/fcego/mappers"
	"github.com/go-fce/fcego/mos6502"
	"github.com/go-fce/fcego/nesrom"
	"github.com/go-fce/fcego/ppu"
)

// ppuCyclesPerCPUCycle is the NTSC PPU:CPU clock ratio.
const ppuCyclesPerCPUCycle = 3

// Console owns the full machine: CPU, PPU, 2 KiB of console RAM, the
// cartridge mapper and the two controller ports.
type Console struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	mapper mappers.Mapper
	ram    [0x800]uint8
	ctrl1  controller
	ctrl2  controller
	hal    hal.HAL

	headless bool
}

// New builds a Console from a parsed ROM. h may be nil when headless
// is true, in which case FlushBuf/Flip/WaitForFrame are never called.
func New(rom *nesrom.ROM, h hal.HAL, headless bool) (*Console, error) {
	m, err := mappers.Get(rom)
	if err != nil {
		return nil, fmt.Errorf("loading mapper: %w", err)
	}

	c := &Console{mapper: m, hal: h, headless: headless}
	c.ctrl1.hal = h
	c.ctrl2.hal = h
	c.ppu = ppu.New(&ppuBus{mapper: m}, rom.MirroringMode())
	c.cpu = mos6502.New(c)
	return c, nil
}

// Reset positions the CPU at the reset vector.
func (c *Console) Reset() {
	c.cpu.Reset()
}

// --- mos6502.Bus: the CPU's view of the address space ---

func (c *Console) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return c.ram[addr&0x07FF]
	case addr < 0x4000:
		return c.ppu.ReadReg(0x2000 + addr&0x0007)
	case addr == 0x4016:
		return c.ctrl1.read()
	case addr == 0x4017:
		return c.ctrl2.read()
	case addr < 0x4020:
		glog.V(2).Infof("open-bus read at %#04x (no APU)", addr)
		return 0
	default:
		return c.mapper.PrgRead(addr)
	}
}

func (c *Console) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		c.ram[addr&0x07FF] = val
	case addr < 0x4000:
		c.ppu.WriteReg(0x2000+addr&0x0007, val)
	case addr == 0x4014:
		c.oamDMA(val)
	case addr == 0x4016:
		// $4016 strobes both controller shift registers together;
		// $4017 only ever reads controller 2, so it is not wired to
		// writes here.
		c.ctrl1.write(val)
		c.ctrl2.write(val)
	case addr < 0x4020:
		glog.V(2).Infof("open-bus write at %#04x = %#02x (no APU)", addr, val)
	default:
		c.mapper.PrgWrite(addr, val)
	}
}

// oamDMA copies the 256-byte page starting at page<<8 into PPU OAM
// and stalls the CPU for 513 cycles, matching real hardware's $4014
// behavior.
func (c *Console) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		c.ppu.WriteOAMByte(c.Read(base + uint16(i)))
	}
	c.cpu.AddStallCycles(513)
}

// ppuBus adapts a mapper to ppu.Bus: the PPU only ever reaches
// cartridge memory through the CHR window.
type ppuBus struct {
	mapper mappers.Mapper
}

func (b *ppuBus) ChrRead(addr uint16) uint8       { return b.mapper.ChrRead(addr) }
func (b *ppuBus) ChrWrite(addr uint16, val uint8) { b.mapper.ChrWrite(addr, val) }

// Run drives CPU and PPU clocks in lockstep (1 CPU cycle : 3 PPU
// dots) until ctx is canceled. Completed frames are pushed through
// hal unless the console is running headless.
func (c *Console) Run(ctx context.Context) error {
	if !c.headless && c.hal == nil {
		return fmt.Errorf("console: hal is required unless running headless")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for i := 0; i < ppuCyclesPerCPUCycle; i++ {
			c.ppu.Tick()
			if c.ppu.NMIPending() {
				c.cpu.TriggerNMI()
			}
		}
		c.cpu.Tick()

		if c.ppu.FrameReady() {
			bbg, bg, fg, backdrop := c.ppu.TakeFrame()
			if !c.headless {
				c.hal.SetBGColor(backdrop)
				if c.ppu.ShowSprites() {
					c.hal.FlushBuf(bbg)
				}
				if c.ppu.ShowBackground() {
					c.hal.FlushBuf(bg)
				}
				if c.ppu.ShowSprites() {
					c.hal.FlushBuf(fg)
				}
				if err := c.hal.Flip(); err != nil {
					glog.Warningf("flipping frame: %v", err)
				}
				c.hal.WaitForFrame()
			}
		}
	}
}
