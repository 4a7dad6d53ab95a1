package console

import "github.com/go-fce/fcego/hal"

// controller models the $4016/$4017 shift-register protocol: while
// strobe is held high every read reports the live state of button 0
// (A); on the strobe's falling edge the current button state latches
// into an 8-bit shift register that $4016 reads drain one bit at a
// time, returning 1 once exhausted. Button state itself always comes
// from the HAL's KeyState, never read from a window-system package
// directly: this keeps the controller substitutable behind whatever
// hal.HAL the console was built with (real display or a test double).
type controller struct {
	strobe  bool
	latched uint8
	idx     uint8
	hal     hal.HAL
}

func (c *controller) write(val uint8) {
	newStrobe := val&0x01 != 0
	if c.strobe && !newStrobe {
		c.latched = c.poll()
		c.idx = 0
	}
	c.strobe = newStrobe
}

func (c *controller) read() uint8 {
	if c.strobe {
		return c.poll() & 0x01
	}
	if c.idx > 7 {
		return 1
	}
	bit := (c.latched >> c.idx) & 0x01
	c.idx++
	return bit
}

// poll builds the 8-bit shift-register snapshot in standard-controller
// bit order (A, B, Select, Start, Up, Down, Left, Right), which is
// HAL button numbers 1 through 8.
func (c *controller) poll() uint8 {
	if c.hal == nil {
		return 0
	}
	var b uint8
	for i := uint8(0); i < 8; i++ {
		if c.hal.KeyState(i + 1) {
			b |= 1 << i
		}
	}
	return b
}
