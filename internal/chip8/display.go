package chip8

import "sync"

// ScreenWidth and ScreenHeight are the CHIP-8 display dimensions in pixels.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// RenderTarget is the interface a window/render backend presents to Display.
// It is deliberately minimal: the core never imports a windowing library.
type RenderTarget interface {
	Clear()
	FillPixel(x, y int)
}

// Display is the 64x32 monochrome framebuffer. Each row is packed into a
// single uint64, one bit per column, which makes the sprite XOR a handful of
// machine-word operations instead of 2048 individual bit toggles.
//
// A single mutex guards the whole grid. Per-row atomics would need 32
// individual atomic cells for no benefit over locking the few hundred bytes
// of buffer for the microseconds a blit or a render snapshot takes.
type Display struct {
	mu    sync.Mutex
	rows  [ScreenHeight]uint64
	dirty bool
}

// NewDisplay returns a cleared, dirty framebuffer.
func NewDisplay() *Display {
	return &Display{dirty: true}
}

// spriteRowMask places an 8-bit sprite row, bit 7 leftmost, at column x of a
// 64-bit row word. Unlike a rotate, a plain shift drops any bits that would
// spill past column 63 instead of wrapping them back to column 0 - this is
// what "clip the body" means at the bit level. x must already be in
// [0, ScreenWidth).
func spriteRowMask(b byte, x int) uint64 {
	shift := 56 - x
	if shift >= 0 {
		return uint64(b) << uint(shift)
	}
	return uint64(b) >> uint(-shift)
}

// DrawSprite XORs an n-byte sprite into the framebuffer at (x, y) and
// reports whether any previously-set bit was cleared. The origin wraps
// modulo the screen dimensions; the sprite body is clipped, not wrapped,
// both at the right edge of a row and at the bottom of the screen.
func (d *Display) DrawSprite(sprite []byte, x, y int) bool {
	x %= ScreenWidth
	y %= ScreenHeight

	d.mu.Lock()
	defer d.mu.Unlock()

	collision := false
	for i := 0; i < len(sprite) && y+i < ScreenHeight; i++ {
		mask := spriteRowMask(sprite[i], x)
		row := &d.rows[y+i]

		if *row&mask != 0 {
			collision = true
		}
		*row ^= mask
	}

	d.dirty = true
	return collision
}

// Clear zeroes the whole framebuffer and marks it dirty.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.rows {
		d.rows[i] = 0
	}
	d.dirty = true
}

// Render emits the current grid to target if the buffer is dirty or force
// is set, then clears the dirty flag.
func (d *Display) Render(target RenderTarget, force bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.dirty && !force {
		return
	}

	target.Clear()
	for y := 0; y < ScreenHeight; y++ {
		row := d.rows[y]
		for x := 0; x < ScreenWidth; x++ {
			if row&(1<<(ScreenWidth-1-uint(x))) != 0 {
				target.FillPixel(x, y)
			}
		}
	}

	d.dirty = false
}

// PixelAt reports whether the pixel at (x, y) is currently set. It is used
// by tests; it does not affect the dirty flag.
func (d *Display) PixelAt(x, y int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return d.rows[y]&(1<<(ScreenWidth-1-uint(x))) != 0
}
