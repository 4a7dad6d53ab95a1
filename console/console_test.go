package console

import (
	"testing"

	"github.com/go-fce/fcego/ines"
	"github.com/go-fce/fcego/nesrom"
)

func testROM() *nesrom.ROM {
	return &nesrom.ROM{
		Header: &ines.Header{PrgBlocks: 2, ChrBlocks: 1},
		Prg:    make([]byte, nesrom.PrgBlockSize*2),
		Chr:    make([]byte, nesrom.ChrBlockSize),
	}
}

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	c, err := New(testROM(), nil, true)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	return c
}

func TestRAMMirroring(t *testing.T) {
	c := newTestConsole(t)
	c.Write(0x0000, 0x42)
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := c.Read(mirror); got != 0x42 {
			t.Errorf("Read(%#04x) = %#02x, want 0x42 (RAM mirror of $0000)", mirror, got)
		}
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	c := newTestConsole(t)
	c.Write(0x2000, 0x80) // PPUCTRL
	c.Write(0x2008, 0x00) // mirror, also PPUCTRL
	// The first write raised an NMI request (vblank is set at power-on);
	// drain it, then re-enable NMI: a new request is raised only if the
	// mirrored write at $2008 really cleared PPUCTRL bit 7.
	c.ppu.NMIPending()
	c.Write(0x2000, 0x80)
	if !c.ppu.NMIPending() {
		t.Errorf("no NMI after re-enabling it: the $2008 write did not reach PPUCTRL")
	}
}

func TestResetLoadsVectorFromMapper(t *testing.T) {
	rom := testROM()
	rom.Prg[0x7FFC] = 0x00 // reset vector low byte, mapped to CPU $FFFC
	rom.Prg[0x7FFD] = 0xC0
	c, err := New(rom, nil, true)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	c.Reset()
	if c.cpu.PC != 0xC000 {
		t.Errorf("PC after reset = %#04x, want 0xC000", c.cpu.PC)
	}
}

func TestOAMDMACopies256BytesAndStallsCPU(t *testing.T) {
	rom := testROM()
	rom.Prg[0x7FFC], rom.Prg[0x7FFD] = 0x00, 0x80 // reset vector -> $8000
	rom.Prg[0x0000] = 0x8D                        // STA $4014 (absolute), A = 0
	rom.Prg[0x0001] = 0x14
	rom.Prg[0x0002] = 0x40
	c, err := New(rom, nil, true)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	c.Reset()
	for i := 0; i < 256; i++ {
		c.ram[i] = uint8(i)
	}

	// DMA from page 0, which aliases RAM $0000-$00FF.
	if consumed := c.cpu.Run(1); consumed != 4+513 {
		t.Errorf("STA $4014 consumed %d cycles, want %d (4-cycle STA + 513-cycle DMA stall)", consumed, 4+513)
	}

	for i := 0; i < 256; i++ {
		c.ppu.WriteReg(0x2003, uint8(i)) // OAMADDR
		if got := c.ppu.ReadReg(0x2004); got != uint8(i) {
			t.Fatalf("OAM byte %d = %#02x, want %#02x", i, got, uint8(i))
		}
	}
}

func TestControllerStrobeLatchAndReadOrder(t *testing.T) {
	c := newTestConsole(t)
	// newTestConsole builds the console headless, so ctrl1.hal is nil
	// and poll() always returns 0: every latched bit below is 0.
	c.Write(0x4016, 1) // strobe high
	c.Write(0x4016, 0) // falling edge latches buttons

	for i := 0; i < 8; i++ {
		if got := c.Read(0x4016); got != 0 {
			t.Errorf("bit %d = %d, want 0 (headless poll reports no buttons pressed)", i, got)
		}
	}
	if got := c.Read(0x4016); got != 1 {
		t.Errorf("9th read = %d, want 1 once the shift register is exhausted", got)
	}
}

// fakeHAL is a minimal hal.HAL double that reports synthetic button
// state, exercising the same substitutability the maintainer
// requested: the controller must reach buttons only through hal.HAL.
type fakeHAL struct {
	pressed map[uint8]bool
}

func (f *fakeHAL) Init(title string, scale int) error { return nil }
func (f *fakeHAL) SetBGColor(paletteIndex uint8)       {}
func (f *fakeHAL) FlushBuf(buf []uint32)               {}
func (f *fakeHAL) Flip() error                         { return nil }
func (f *fakeHAL) WaitForFrame()                       {}
func (f *fakeHAL) Close()                              {}
func (f *fakeHAL) KeyState(button uint8) bool          { return f.pressed[button] }

func TestControllerReadsButtonsThroughHAL(t *testing.T) {
	fh := &fakeHAL{pressed: map[uint8]bool{1: true, 6: true}} // A and Down
	rom := testROM()
	c, err := New(rom, fh, true)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	c.Write(0x4016, 1)
	c.Write(0x4016, 0)

	var got uint8
	for i := 0; i < 8; i++ {
		got |= c.Read(0x4016) << i
	}
	// Shift-register bit order: A, B, Select, Start, Up, Down, Left, Right.
	want := uint8(1<<0 | 1<<5) // A set, Down set
	if got != want {
		t.Errorf("latched buttons = %#08b, want %#08b", got, want)
	}
}
