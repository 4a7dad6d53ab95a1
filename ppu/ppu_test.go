package ppu

import "testing"

type fakeChrBus struct {
	chr [0x2000]uint8
}

func (b *fakeChrBus) ChrRead(addr uint16) uint8       { return b.chr[addr&0x1FFF] }
func (b *fakeChrBus) ChrWrite(addr uint16, val uint8) { b.chr[addr&0x1FFF] = val }

func newTestPPU(mirror uint8) (*PPU, *fakeChrBus) {
	bus := &fakeChrBus{}
	return New(bus, mirror), bus
}

func TestRegisterMirrorEvery8Bytes(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.WriteReg(0x2000, 0x80)
	if got := p.ctrl; got != 0x80 {
		t.Fatalf("ctrl = %#02x, want 0x80", got)
	}
	p.WriteReg(0x2008, 0x00) // mirror of $2000
	if got := p.ctrl; got != 0x00 {
		t.Errorf("ctrl after mirrored write = %#02x, want 0x00", got)
	}
}

func TestStatusReadClearsVBlankAndLatch(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.status |= statusVBlank
	p.latch = true

	got := p.ReadReg(0x2002)

	if got&statusVBlank == 0 {
		t.Errorf("expected vblank bit set in the read value")
	}
	if p.status&statusVBlank != 0 {
		t.Errorf("vblank bit should clear after PPUSTATUS read")
	}
	if p.latch {
		t.Errorf("write latch should reset after PPUSTATUS read")
	}
}

func TestHorizontalMirroring(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	// Nametables 0 and 1 share physical page 0; 2 and 3 share page 1.
	if a, b := p.mirrorNametable(0x2000), p.mirrorNametable(0x2400); a != b {
		t.Errorf("horizontal mirror: NT0 (%d) should alias NT1 (%d)", a, b)
	}
	if a, b := p.mirrorNametable(0x2800), p.mirrorNametable(0x2C00); a != b {
		t.Errorf("horizontal mirror: NT2 (%d) should alias NT3 (%d)", a, b)
	}
	if a, b := p.mirrorNametable(0x2000), p.mirrorNametable(0x2800); a == b {
		t.Errorf("horizontal mirror: NT0 (%d) should NOT alias NT2 (%d)", a, b)
	}
}

func TestVerticalMirroring(t *testing.T) {
	p, _ := newTestPPU(MirrorVertical)
	if a, b := p.mirrorNametable(0x2000), p.mirrorNametable(0x2800); a != b {
		t.Errorf("vertical mirror: NT0 (%d) should alias NT2 (%d)", a, b)
	}
	if a, b := p.mirrorNametable(0x2000), p.mirrorNametable(0x2400); a == b {
		t.Errorf("vertical mirror: NT0 (%d) should NOT alias NT1 (%d)", a, b)
	}
}

func TestPaletteMirrorsBackdropEvery4Bytes(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.writePalette(0x3F00, 0x20)
	if got := p.readPalette(0x3F10); got != 0x20 {
		t.Errorf("sprite backdrop $3F10 = %#02x, want aliased 0x20 from $3F00", got)
	}
}

func TestVBlankSetsStatusAndRequestsNMIAtScanline241(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.ctrl |= ctrlNMIEnable
	p.scanline = vblankStartLine
	p.dot = 1

	p.Tick()

	if p.status&statusVBlank == 0 {
		t.Errorf("status vblank bit not set at scanline 241 dot 1")
	}
	if !p.NMIPending() {
		t.Errorf("expected NMI to be requested when NMI enabled and vblank starts")
	}
	if !p.FrameReady() {
		t.Errorf("expected a completed frame to be flagged ready")
	}
}

func TestNoNMIWhenDisabled(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.scanline = vblankStartLine
	p.dot = 1

	p.Tick()

	if p.NMIPending() {
		t.Errorf("NMI should not fire when PPUCTRL bit 7 is clear")
	}
}

func TestAppendPixelDiscardsOutOfRangeCoordinates(t *testing.T) {
	var buf []uint32
	buf = appendPixel(buf, 255, 239, 0x16)
	buf = appendPixel(buf, 256, 0, 0x16)  // x out of range
	buf = appendPixel(buf, 0, 240, 0x16)  // y out of range
	buf = appendPixel(buf, -1, 0, 0x16)   // negative x
	if len(buf) != 1 {
		t.Fatalf("len(buf) = %d, want 1 (only the in-range append kept)", len(buf))
	}
	word := buf[0]
	x := (word >> 20) & 0xFFF
	y := (word >> 8) & 0xFFF
	c := word & 0xFF
	if x != 255 || y != 239 || c != 0x16 {
		t.Errorf("packed word decoded to (%d,%d,%#02x), want (255,239,0x16)", x, y, c)
	}
}

func TestTakeFrameDrainsBuffersAndReportsBackdrop(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.writePalette(0x3F00, 0x0F)
	p.bg = appendPixel(p.bg, 10, 10, 0x21)
	p.bbg = appendPixel(p.bbg, 5, 5, 0x22)
	p.fg = appendPixel(p.fg, 1, 1, 0x23)
	p.frameReady = true

	bbg, bg, fg, backdrop := p.TakeFrame()

	if len(bbg) != 1 || len(bg) != 1 || len(fg) != 1 {
		t.Fatalf("TakeFrame returned (%d,%d,%d) pixels, want (1,1,1)", len(bbg), len(bg), len(fg))
	}
	if backdrop != 0x0F {
		t.Errorf("backdrop = %#02x, want 0x0F", backdrop)
	}
	if p.FrameReady() {
		t.Errorf("FrameReady should be false immediately after TakeFrame")
	}
	if len(p.bg) != 0 || len(p.bbg) != 0 || len(p.fg) != 0 {
		t.Errorf("pixel buffers should be empty after TakeFrame")
	}
}

func TestPreRenderLineClearsStatusFlags(t *testing.T) {
	p, _ := newTestPPU(MirrorHorizontal)
	p.status = statusVBlank | statusSprite0Hit | statusSpriteOverflow
	p.scanline = preRenderLine
	p.dot = 1

	p.Tick()

	if p.status != 0 {
		t.Errorf("status = %#02x, want 0 after pre-render line dot 1", p.status)
	}
}
