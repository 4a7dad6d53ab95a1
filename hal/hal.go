// Package hal is the host abstraction layer: the one place that
// touches a real window, keyboard and framebuffer. Everything above
// it only ever deals in system-palette indices, packed pixel-buffer
// words and logical button numbers, never pixels or window-system
// events directly.
package hal

// ScreenWidth and ScreenHeight are the NES's fixed visible resolution.
const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// HAL is the boundary the emulator core drives once per frame: set
// the background color, flush each of the frame's pixel buffers in
// priority order, present the result, throttle to the display's
// refresh rate, and answer button queries.
type HAL interface {
	Init(title string, scale int) error

	// SetBGColor sets the whole-screen clear color, by NES
	// system-palette index, for the next Flip.
	SetBGColor(paletteIndex uint8)

	// FlushBuf draws every packed (x<<20)|(y<<8)|paletteIndex word in
	// buf onto the pending frame; words whose coordinates fall outside
	// 256x240 are skipped. Called once per
	// pixel buffer per frame (bbg, then bg, then fg) so that draw
	// order alone reproduces hardware sprite priority.
	FlushBuf(buf []uint32)

	// Flip presents the pending frame, then clears it back to the
	// current background color for the next frame's FlushBuf calls.
	Flip() error

	WaitForFrame()

	// KeyState queries one of 9 buttons: 0=Power, 1=A, 2=B, 3=Select,
	// 4=Start, 5=Up, 6=Down, 7=Left, 8=Right.
	KeyState(button uint8) bool

	Close()
}

// SystemPalette is the NES PPU's fixed 64-entry RGB palette; indices
// into it are what the PPU writes into its frame buffer, and what
// FlushBuf expects to find there.
var SystemPalette = [64][3]uint8{
	{84, 84, 84}, {0, 30, 116}, {8, 16, 144}, {48, 0, 136},
	{68, 0, 100}, {92, 0, 48}, {84, 4, 0}, {60, 24, 0},
	{32, 42, 0}, {8, 58, 0}, {0, 64, 0}, {0, 60, 0},
	{0, 50, 60}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{152, 150, 152}, {8, 76, 196}, {48, 50, 236}, {92, 30, 228},
	{136, 20, 176}, {160, 20, 100}, {152, 34, 32}, {120, 60, 0},
	{84, 90, 0}, {40, 114, 0}, {8, 124, 0}, {0, 118, 40},
	{0, 102, 120}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {76, 154, 236}, {120, 124, 236}, {176, 98, 236},
	{228, 84, 236}, {236, 88, 180}, {236, 106, 100}, {212, 136, 32},
	{160, 170, 0}, {116, 196, 0}, {76, 208, 32}, {56, 204, 108},
	{56, 180, 204}, {60, 60, 60}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {168, 204, 236}, {188, 188, 236}, {212, 178, 236},
	{236, 174, 236}, {236, 174, 212}, {236, 180, 176}, {228, 196, 144},
	{204, 210, 120}, {180, 222, 120}, {168, 226, 144}, {152, 226, 180},
	{160, 214, 228}, {160, 162, 160}, {0, 0, 0}, {0, 0, 0},
}

// RGB resolves a system-palette index (0-63) to its RGB triple.
func RGB(index uint8) (r, g, b uint8) {
	c := SystemPalette[index&0x3F]
	return c[0], c[1], c[2]
}
