package chip8

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	cleared bool
	pixels  map[[2]int]bool
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{pixels: make(map[[2]int]bool)}
}

func (f *fakeTarget) Clear() {
	f.cleared = true
	f.pixels = make(map[[2]int]bool)
}

func (f *fakeTarget) FillPixel(x, y int) {
	f.pixels[[2]int{x, y}] = true
}

func TestDrawSpriteSetsPixelsAndNoCollisionOnEmptyScreen(t *testing.T) {
	d := NewDisplay()

	collision := d.DrawSprite([]byte{0xF0}, 0, 0) // top 4 bits set

	require.False(t, collision)
	require.True(t, d.PixelAt(0, 0))
	require.True(t, d.PixelAt(1, 0))
	require.True(t, d.PixelAt(2, 0))
	require.True(t, d.PixelAt(3, 0))
	require.False(t, d.PixelAt(4, 0))
}

func TestDrawSpriteTwiceRestoresOriginalAndReportsCollision(t *testing.T) {
	d := NewDisplay()
	sprite := []byte{0xFF, 0x81, 0x81, 0xFF}

	first := d.DrawSprite(sprite, 10, 10)
	require.False(t, first)

	second := d.DrawSprite(sprite, 10, 10)
	require.True(t, second)

	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			require.False(t, d.PixelAt(x, y), "pixel (%d,%d) should be cleared", x, y)
		}
	}
}

func TestDrawSpriteOriginWraps(t *testing.T) {
	d1 := NewDisplay()
	d2 := NewDisplay()

	c1 := d1.DrawSprite([]byte{0xFF}, 5, 3)
	c2 := d2.DrawSprite([]byte{0xFF}, 5+ScreenWidth, 3+ScreenHeight)

	require.Equal(t, c1, c2)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			require.Equal(t, d1.PixelAt(x, y), d2.PixelAt(x, y))
		}
	}
}

func TestDrawSpriteBodyClipsAtRightEdge(t *testing.T) {
	d := NewDisplay()

	// Sprite at column 60: only columns 60..63 are on screen, the rest
	// of the byte's bits must be dropped, not wrapped to column 0.
	d.DrawSprite([]byte{0xFF}, 60, 0)

	require.True(t, d.PixelAt(60, 0))
	require.True(t, d.PixelAt(61, 0))
	require.True(t, d.PixelAt(62, 0))
	require.True(t, d.PixelAt(63, 0))
	require.False(t, d.PixelAt(0, 0), "spill must clip, not wrap to column 0")
}

func TestDrawSpriteClipsAtBottomEdge(t *testing.T) {
	d := NewDisplay()

	sprite := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	d.DrawSprite(sprite, 0, 31)

	require.True(t, d.PixelAt(0, 31))
	// Rows 32..35 don't exist; nothing should have wrapped to row 0..3.
	require.False(t, d.PixelAt(0, 0))
	require.False(t, d.PixelAt(0, 1))
	require.False(t, d.PixelAt(0, 2))
	require.False(t, d.PixelAt(0, 3))
}

func TestClearZeroesAndMarksDirty(t *testing.T) {
	d := NewDisplay()
	d.DrawSprite([]byte{0xFF}, 0, 0)
	d.Render(newFakeTarget(), false) // consumes the dirty flag

	d.Clear()

	for x := 0; x < ScreenWidth; x++ {
		require.False(t, d.PixelAt(x, 0))
	}
	require.True(t, d.dirty)
}

func TestRenderOnlyEmitsWhenDirtyOrForced(t *testing.T) {
	d := NewDisplay()
	target := newFakeTarget()

	d.Render(target, false) // initial display is dirty
	require.True(t, target.cleared)

	target.cleared = false
	d.Render(target, false) // not dirty anymore
	require.False(t, target.cleared)

	d.Render(target, true) // forced
	require.True(t, target.cleared)
}

func TestRenderDrawsSetPixels(t *testing.T) {
	d := NewDisplay()
	d.DrawSprite([]byte{0x80}, 2, 1)

	target := newFakeTarget()
	d.Render(target, true)

	require.True(t, target.pixels[[2]int{2, 1}])
	require.Len(t, target.pixels, 1)
}
