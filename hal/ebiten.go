package hal

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenHAL implements HAL on top of ebiten, and also satisfies
// ebiten.Game so cmd/fcego can hand it straight to ebiten.RunGame.
// Ebiten owns the window's event loop; the emulator core runs on its
// own goroutine and synchronizes to the display's refresh rate
// through WaitForFrame.
type EbitenHAL struct {
	scale   int
	bgColor uint8

	mu    sync.Mutex
	back  []uint8 // pending frame, one system-palette index per pixel
	front *ebiten.Image

	tick   chan struct{}
	closed chan struct{}
}

// NewEbitenHAL constructs an uninitialized HAL; call Init before use.
func NewEbitenHAL() *EbitenHAL {
	return &EbitenHAL{
		tick:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (h *EbitenHAL) Init(title string, scale int) error {
	if scale <= 0 {
		return fmt.Errorf("hal: scale must be positive, got %d", scale)
	}
	h.scale = scale
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(ScreenWidth*scale, ScreenHeight*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	h.front = ebiten.NewImage(ScreenWidth, ScreenHeight)
	h.back = make([]uint8, ScreenWidth*ScreenHeight)
	return nil
}

func (h *EbitenHAL) SetBGColor(paletteIndex uint8) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bgColor = paletteIndex & 0x3F
}

// FlushBuf draws every packed pixel in buf onto the pending frame.
// Called once per pixel buffer (bbg, then bg, then fg); later calls
// overdraw earlier ones at the same coordinate, which is exactly
// hardware sprite priority falling out of draw order.
func (h *EbitenHAL) FlushBuf(buf []uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, word := range buf {
		x := int((word >> 20) & 0xFFF)
		y := int((word >> 8) & 0xFFF)
		if x >= ScreenWidth || y >= ScreenHeight {
			continue
		}
		h.back[y*ScreenWidth+x] = uint8(word & 0xFF)
	}
}

// Flip presents the pending frame, then clears it back to the current
// background color so the next frame's FlushBuf calls start from a
// clean backdrop.
func (h *EbitenHAL) Flip() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	pix := make([]byte, ScreenWidth*ScreenHeight*4)
	for i, idx := range h.back {
		r, g, b := RGB(idx)
		pix[i*4+0] = r
		pix[i*4+1] = g
		pix[i*4+2] = b
		pix[i*4+3] = 0xFF
	}
	h.front.WritePixels(pix)
	for i := range h.back {
		h.back[i] = h.bgColor
	}
	return nil
}

// WaitForFrame blocks until ebiten's Update signals the next display
// tick, throttling emulation to the monitor's refresh rate.
func (h *EbitenHAL) WaitForFrame() {
	select {
	case <-h.tick:
	case <-h.closed:
	}
}

// buttonKeys maps the HAL's 9-button numbering (0=Power .. 8=Right)
// onto host keys. Button 0 (Power) has no standard controller wiring
// on real hardware either; it is queryable for interface completeness
// but nothing in this emulator reads it.
var buttonKeys = [9]ebiten.Key{
	ebiten.KeyEscape,
	ebiten.KeyA,
	ebiten.KeyB,
	ebiten.KeySpace,
	ebiten.KeyEnter,
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

func (h *EbitenHAL) KeyState(button uint8) bool {
	if int(button) >= len(buttonKeys) {
		return false
	}
	return ebiten.IsKeyPressed(buttonKeys[button])
}

func (h *EbitenHAL) Close() {
	select {
	case <-h.closed:
	default:
		close(h.closed)
	}
}

// --- ebiten.Game ---

func (h *EbitenHAL) Update() error {
	select {
	case h.tick <- struct{}{}:
	default:
	}
	return nil
}

func (h *EbitenHAL) Draw(screen *ebiten.Image) {
	r, g, b := RGB(h.bgColor)
	screen.Fill(color.RGBA{r, g, b, 0xFF})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(h.scale), float64(h.scale))
	screen.DrawImage(h.front, op)
}

func (h *EbitenHAL) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth * h.scale, ScreenHeight * h.scale
}
