// Package ppu implements the NES Picture Processing Unit: the
// memory-mapped register protocol at $2000-$2007, nametable/OAM
// storage, and the scanline-driven renderer that produces one
// 256x240 frame of system-palette indices every 262 scanlines.
package ppu

import "github.com/golang/glog"

// loggedFourScreen suppresses repeat warnings about four-screen
// mirroring, which this implementation maps onto vertical mirroring
// since the console has no extra nametable VRAM to back it.
var loggedFourScreen bool

// PPUCTRL/PPUMASK/PPUSTATUS bit positions.
const (
	ctrlNametableMask  = 0x03
	ctrlIncrement32    = 1 << 2
	ctrlSpritePattern  = 1 << 3
	ctrlBGPattern      = 1 << 4
	ctrlSprite8x16     = 1 << 5
	ctrlNMIEnable      = 1 << 7

	maskGreyscale     = 1 << 0
	maskShowBGLeft    = 1 << 1
	maskShowSpriteLeft = 1 << 2
	maskShowBG        = 1 << 3
	maskShowSprites   = 1 << 4

	statusSpriteOverflow = 1 << 5
	statusSprite0Hit     = 1 << 6
	statusVBlank         = 1 << 7
)

const (
	// Mirroring modes, matching ines.Mirror*.
	MirrorHorizontal uint8 = 0
	MirrorVertical   uint8 = 1
	MirrorFourScreen uint8 = 2

	ScreenWidth  = 256
	ScreenHeight = 240

	scanlinesPerFrame = 262
	dotsPerScanline   = 341
	postRenderLine    = 240
	vblankStartLine   = 241
	preRenderLine     = 261
)

// Bus is how the PPU reaches cartridge-owned CHR memory.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
}

// PPU holds all picture-processing state: registers, nametable and
// palette RAM, OAM, and the in-progress/finished frame's three
// pixel buffers.
type PPU struct {
	bus      Bus
	mirror   uint8
	nametbl  [0x800]uint8
	palette  [32]uint8
	oam      [256]uint8

	ctrl, mask, status uint8
	oamAddr            uint8

	v, t  loopy
	fineX uint8
	latch bool // write toggle, shared by $2005/$2006

	readBuffer uint8

	scanline int
	dot      int
	frameOdd bool

	// bbg, bg and fg are append-only per-frame pixel buffers, each a
	// packed (x<<20)|(y<<8)|paletteIndex word per appended pixel, one
	// per NES-hardware compositing layer (sprites-behind-background,
	// background, sprites-in-front). Drained and cleared once per
	// frame by TakeFrame.
	bbg, bg, fg []uint32
	frameReady  bool

	nmiPending bool

	bgNextTile, bgNextAttr       uint8
	bgNextLo, bgNextHi           uint8
	bgShiftLo, bgShiftHi         uint16
	bgShiftAttrLo, bgShiftAttrHi uint16
}

// New creates a PPU wired to bus with the cartridge's nametable
// mirroring mode.
func New(bus Bus, mirror uint8) *PPU {
	p := &PPU{bus: bus, mirror: mirror}
	p.status = statusVBlank
	return p
}

// NMIPending reports and clears a pending NMI request, for the
// console to forward to the CPU.
func (p *PPU) NMIPending() bool {
	v := p.nmiPending
	p.nmiPending = false
	return v
}

// FrameReady reports whether a full frame has been produced since the
// last call to TakeFrame.
func (p *PPU) FrameReady() bool { return p.frameReady }

// ShowBackground reports PPUMASK's background-rendering enable bit.
func (p *PPU) ShowBackground() bool { return p.mask&maskShowBG != 0 }

// ShowSprites reports PPUMASK's sprite-rendering enable bit.
func (p *PPU) ShowSprites() bool { return p.mask&maskShowSprites != 0 }

// TakeFrame drains the three pixel buffers for the most recently
// completed frame along with the current universal background color
// (the palette index at $3F00), and resets FrameReady. The caller is
// expected to flush the three buffers to the HAL in bbg, bg, fg order
// so hardware sprite-priority falls out of draw order alone.
func (p *PPU) TakeFrame() (bbg, bg, fg []uint32, backdrop uint8) {
	bbg, bg, fg = p.bbg, p.bg, p.fg
	backdrop = p.readPalette(0x3F00)
	p.bbg, p.bg, p.fg = nil, nil, nil
	p.frameReady = false
	return
}

// appendPixel packs (x, y, paletteIndex) into a pixel-buffer word and
// appends it, discarding coordinates outside the visible 256x240
// frame instead of appending.
func appendPixel(buf []uint32, x, y int, paletteIndex uint8) []uint32 {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return buf
	}
	word := uint32(x)<<20 | uint32(y)<<8 | uint32(paletteIndex)
	return append(buf, word)
}

// --- CPU-facing register protocol, $2000-$2007 mirrored every 8 bytes ---

func (p *PPU) ReadReg(addr uint16) uint8 {
	switch addr & 0x7 {
	case 2: // PPUSTATUS
		v := p.status
		p.status &^= statusVBlank
		p.latch = false
		return v
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	}
	return 0
}

func (p *PPU) WriteReg(addr uint16, val uint8) {
	switch addr & 0x7 {
	case 0: // PPUCTRL
		wasEnabled := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = val
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(val&ctrlNametableMask) << 10)
		if !wasEnabled && val&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
			p.nmiPending = true
		}
	case 1: // PPUMASK
		p.mask = val
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.latch {
			p.fineX = val & 0x07
			p.t.setCoarseX(uint16(val >> 3))
		} else {
			p.t.setFineY(uint16(val & 0x07))
			p.t.setCoarseY(uint16(val >> 3))
		}
		p.latch = !p.latch
	case 6: // PPUADDR
		if !p.latch {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.latch = !p.latch
	case 7: // PPUDATA
		p.writeData(val)
	}
}

// WriteOAMByte is used by $4014 OAM DMA to deposit one byte without
// disturbing the strobe/latch state of the other registers.
func (p *PPU) WriteOAMByte(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	addr := p.v.data & 0x3FFF
	var result uint8
	if addr >= 0x3F00 {
		result = p.readPalette(addr)
		p.readBuffer = p.readVRAM(addr - 0x1000)
	} else {
		result = p.readBuffer
		p.readBuffer = p.readVRAM(addr)
	}
	p.v.data += p.addrIncrement()
	return result
}

func (p *PPU) writeData(val uint8) {
	addr := p.v.data & 0x3FFF
	switch {
	case addr < 0x2000:
		p.bus.ChrWrite(addr, val)
	case addr < 0x3F00:
		p.nametbl[p.mirrorNametable(addr)] = val
	default:
		p.writePalette(addr, val)
	}
	p.v.data += p.addrIncrement()
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.bus.ChrRead(addr)
	case addr < 0x3F00:
		return p.nametbl[p.mirrorNametable(addr)]
	default:
		return p.readPalette(addr)
	}
}

// mirrorNametable maps a $2000-$2FFF nametable address into the
// console's 2 KiB of physical VRAM according to the cartridge's
// mirroring mode.
func (p *PPU) mirrorNametable(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x400
	offset := addr % 0x400
	switch p.mirror {
	case MirrorHorizontal:
		return (table/2)*0x400 + offset
	case MirrorVertical:
		return (table%2)*0x400 + offset
	default: // four-screen: not backed by extra VRAM, fall back to vertical
		if !loggedFourScreen {
			loggedFourScreen = true
			glog.Warning("four-screen nametable mirroring requested, falling back to vertical mirroring")
		}
		return (table%2)*0x400 + offset
	}
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	p.palette[paletteIndex(addr)] = val & 0x3F
}

// paletteIndex resolves $3F00-$3FFF into the 32-entry palette RAM,
// mirroring every 32 bytes and aliasing the background-color entries
// of sprite palettes onto their background counterparts.
func paletteIndex(addr uint16) uint16 {
	i := (addr - 0x3F00) % 32
	if i >= 16 && i%4 == 0 {
		i -= 16
	}
	return i
}

// --- Rendering ---

// Tick advances the PPU by exactly one dot (1/3 of a CPU cycle on
// NTSC). The console drives this 3 times per CPU clock.
func (p *PPU) Tick() {
	renderingOn := p.mask&(maskShowBG|maskShowSprites) != 0

	switch {
	case p.scanline < ScreenHeight || p.scanline == preRenderLine:
		if renderingOn {
			p.renderTick()
		}
		if p.scanline == preRenderLine && p.dot == 1 {
			p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
		}
		if p.scanline < ScreenHeight && p.dot == 1 && renderingOn && p.countSpritesInRange() > 8 {
			p.status |= statusSpriteOverflow
		}
	case p.scanline == vblankStartLine:
		if p.dot == 1 {
			p.status |= statusVBlank
			p.frameReady = true
			if p.ctrl&ctrlNMIEnable != 0 {
				p.nmiPending = true
			}
		}
	}

	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.frameOdd = !p.frameOdd
			if renderingOn && p.frameOdd {
				p.dot = 1 // odd-frame dot skip
			}
		}
	}
}

func (p *PPU) renderTick() {
	if p.dot >= 1 && p.dot <= 256 {
		if p.scanline < ScreenHeight {
			p.renderPixel()
		}
		p.shiftBackground()
		if p.dot%8 == 0 {
			p.v.incrementCoarseX()
		}
	}
	if p.dot == 256 {
		p.v.incrementFineY()
	}
	if p.dot == 257 {
		p.v.data = (p.v.data &^ 0x041F) | (p.t.data & 0x041F)
	}
	if p.scanline == preRenderLine && p.dot >= 280 && p.dot <= 304 {
		p.v.data = (p.v.data &^ 0x7BE0) | (p.t.data & 0x7BE0)
	}
	if p.dot >= 321 && p.dot <= 336 {
		p.shiftBackground()
	}
}

func (p *PPU) shiftBackground() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.bgShiftAttrLo <<= 1
	p.bgShiftAttrHi <<= 1

	if p.dot%8 == 1 && p.dot > 1 {
		p.bgShiftLo = (p.bgShiftLo & 0xFF00) | uint16(p.bgNextLo)
		p.bgShiftHi = (p.bgShiftHi & 0xFF00) | uint16(p.bgNextHi)
		var lo, hi uint16
		if p.bgNextAttr&0x01 != 0 {
			lo = 0xFF
		}
		if p.bgNextAttr&0x02 != 0 {
			hi = 0xFF
		}
		p.bgShiftAttrLo = (p.bgShiftAttrLo & 0xFF00) | lo
		p.bgShiftAttrHi = (p.bgShiftAttrHi & 0xFF00) | hi
	}

	switch p.dot % 8 {
	case 1:
		p.bgNextTile = p.readVRAM(0x2000 | (p.v.data & 0x0FFF))
	case 3:
		addr := 0x23C0 | (p.v.data & 0x0C00) | ((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
		attr := p.readVRAM(addr)
		shift := (p.v.coarseY()&0x02)<<1 | (p.v.coarseX() & 0x02)
		p.bgNextAttr = (attr >> shift) & 0x03
	case 5:
		base := uint16(0)
		if p.ctrl&ctrlBGPattern != 0 {
			base = 0x1000
		}
		p.bgNextLo = p.readVRAM(base + uint16(p.bgNextTile)*16 + p.v.fineY())
	case 7:
		base := uint16(0)
		if p.ctrl&ctrlBGPattern != 0 {
			base = 0x1000
		}
		p.bgNextHi = p.readVRAM(base + uint16(p.bgNextTile)*16 + p.v.fineY() + 8)
	}
}

func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	var bgPixel, bgPalette uint8
	if p.mask&maskShowBG != 0 && (x >= 8 || p.mask&maskShowBGLeft != 0) {
		sel := uint16(0x8000) >> p.fineX
		lo := uint8(0)
		hi := uint8(0)
		if p.bgShiftLo&sel != 0 {
			lo = 1
		}
		if p.bgShiftHi&sel != 0 {
			hi = 1
		}
		bgPixel = hi<<1 | lo
		loA, hiA := uint8(0), uint8(0)
		if p.bgShiftAttrLo&sel != 0 {
			loA = 1
		}
		if p.bgShiftAttrHi&sel != 0 {
			hiA = 1
		}
		bgPalette = hiA<<1 | loA
	}

	spPixel, spPalette, spPriority, spIsZero, _ := p.spritePixelAt(x)

	if bgPixel != 0 && spPixel != 0 && spIsZero && x != 255 &&
		p.mask&(maskShowBG|maskShowSprites) == (maskShowBG|maskShowSprites) {
		p.status |= statusSprite0Hit
	}

	// Appending bbg before bg before fg, every frame, is what makes
	// hardware sprite priority fall out of plain draw order at flush
	// time: a BACK-priority sprite pixel is overdrawn by a non-zero
	// background pixel, while a FRONT-priority one always wins.
	if bgPixel != 0 {
		idx := p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgPixel))
		p.bg = appendPixel(p.bg, x, y, idx)
	}
	if spPixel != 0 {
		idx := p.readPalette(0x3F00 + 0x10 + uint16(spPalette)*4 + uint16(spPixel))
		if spPriority == 0 { // FRONT
			p.fg = appendPixel(p.fg, x, y, idx)
		} else { // BACK
			p.bbg = appendPixel(p.bbg, x, y, idx)
		}
	}
}

// countSpritesInRange reports how many of the 64 OAM sprites cover
// the current scanline, used only to raise the sprite-overflow flag.
func (p *PPU) countSpritesInRange() int {
	height := 8
	if p.ctrl&ctrlSprite8x16 != 0 {
		height = 16
	}
	n := 0
	for i := 0; i < 64; i++ {
		sy := int(p.oam[i*4+0])
		row := p.scanline - sy - 1
		if row >= 0 && row < height {
			n++
		}
	}
	return n
}

// spritePixelAt evaluates OAM for the first non-transparent sprite
// pixel covering screen column x on the current scanline, scanning
// sprite slots in OAM order (lowest index wins, matching hardware
// priority) and enforcing the 8-sprites-per-scanline limit.
func (p *PPU) spritePixelAt(x int) (pixel, palette, priority uint8, isZero bool, found bool) {
	height := 8
	if p.ctrl&ctrlSprite8x16 != 0 {
		height = 16
	}
	if p.mask&maskShowSprites == 0 {
		return 0, 0, 0, false, false
	}
	if x < 8 && p.mask&maskShowSpriteLeft == 0 {
		return 0, 0, 0, false, false
	}

	count := 0
	for i := 0; i < 64 && count < 8; i++ {
		o := OAMFromBytes(p.oam[i*4 : i*4+4])
		row := p.scanline - int(o.y) - 1
		if row < 0 || row >= height {
			continue
		}
		count++
		sx := int(o.x)
		if x < sx || x >= sx+8 {
			continue
		}

		col := x - sx
		if o.flipH {
			col = 7 - col
		}
		if o.flipV {
			row = height - 1 - row
		}

		base := uint16(0)
		var lo, hi uint8
		if height == 16 {
			table := uint16(o.tileId&0x01) * 0x1000
			tileIdx := uint16(o.tileId &^ 0x01)
			if row >= 8 {
				tileIdx++
				row -= 8
			}
			lo = p.readVRAM(table + tileIdx*16 + uint16(row))
			hi = p.readVRAM(table + tileIdx*16 + uint16(row) + 8)
		} else {
			if p.ctrl&ctrlSpritePattern != 0 {
				base = 0x1000
			}
			lo = p.readVRAM(base + uint16(o.tileId)*16 + uint16(row))
			hi = p.readVRAM(base + uint16(o.tileId)*16 + uint16(row) + 8)
		}

		shift := uint(7 - col)
		px := (hi>>shift&1)<<1 | (lo >> shift & 1)
		if px == 0 {
			continue
		}
		return px, o.palette, uint8(o.renderP), i == 0, true
	}
	return 0, 0, 0, false, false
}

func (p *PPU) String() string {
	return "ppu(scanline=" + itoa(p.scanline) + ",dot=" + itoa(p.dot) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
