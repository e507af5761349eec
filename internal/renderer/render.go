package renderer

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/corvid-systems/chip8vm/internal/chip8"
)

// ====================
// keyboard key mapping
// ====================
//
// Numpad 0..9 map straight to CHIP-8 keys 0x0..0x9; letter keys A..F map to
// CHIP-8 keys 0xA..0xF.
var keyboardMapping = map[uint8]ebiten.Key{
	0x0: ebiten.KeyKP0, 0x1: ebiten.KeyKP1, 0x2: ebiten.KeyKP2, 0x3: ebiten.KeyKP3,
	0x4: ebiten.KeyKP4, 0x5: ebiten.KeyKP5, 0x6: ebiten.KeyKP6, 0x7: ebiten.KeyKP7,
	0x8: ebiten.KeyKP8, 0x9: ebiten.KeyKP9,
	0xA: ebiten.KeyA, 0xB: ebiten.KeyB, 0xC: ebiten.KeyC, 0xD: ebiten.KeyD,
	0xE: ebiten.KeyE, 0xF: ebiten.KeyF,
}

var keyboardPosition = map[uint8]uint8{
	0x0: 0x1, 0x1: 0x2, 0x2: 0x3, 0x3: 0xC,
	0x4: 0x4, 0x5: 0x5, 0x6: 0x6, 0x7: 0xD,
	0x8: 0x7, 0x9: 0x8, 0xA: 0x9, 0xB: 0xE,
	0xC: 0xA, 0xD: 0x0, 0xE: 0xB, 0xF: 0xF,
}

var (
	buttonReleasedColor color.Color = MustDecodeColorFromHex("999999")
	buttonPressedColor  color.Color = MustDecodeColorFromHex("65f057")
)

const screenScale = 10

// Config carries the display colors; it is the only thing the CLI layer
// needs to hand the renderer beyond the emulator state itself.
type Config struct {
	FgColor color.Color
	BgColor color.Color
}

// Renderer is the UI-thread half of the emulator: it owns no emulation
// state of its own, only non-owning references to the Display and Keypad
// that the CPU worker goroutine reads and writes concurrently.
type Renderer struct {
	display *chip8.Display
	keypad  *chip8.Keypad
	romName string

	fgColor color.Color
	bgColor color.Color

	keypadMode bool
}

// NewFromConfig builds a Renderer over the given Display/Keypad, which must
// be the same instances passed to chip8.NewCPU.
func NewFromConfig(display *chip8.Display, keypad *chip8.Keypad, romName string, conf Config) *Renderer {
	return &Renderer{
		display: display,
		keypad:  keypad,
		romName: romName,

		fgColor: conf.FgColor,
		bgColor: conf.BgColor,
	}
}

// Update reads keyboard state into the shared Keypad and checks for the
// quit/overlay hotkeys. It never touches CPU state directly: the CPU
// worker goroutine runs independently of the UI's tick rate.
func (r *Renderer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		r.keypadMode = !r.keypadMode
	}

	for chip8Key, ebitenKey := range keyboardMapping {
		r.keypad.Set(chip8Key, ebiten.IsKeyPressed(ebitenKey))
	}

	return nil
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	target := ebitenTarget{img: screen, fg: r.fgColor, bg: r.bgColor}
	r.display.Render(target, true)

	if r.keypadMode {
		r.drawKeypadOverlay(screen)
	}
}

func (r *Renderer) drawKeypadOverlay(screen *ebiten.Image) {
	buttonsInRow := 4
	buttonSize := 4

	screenOffsetX := (chip8.ScreenWidth - (buttonsInRow*buttonSize + buttonsInRow - 1)) >> 1
	screenOffsetY := chip8.ScreenHeight + 1

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			pixelColor := buttonReleasedColor
			key := y<<2 | x&0xf
			if r.keypad.IsDown(keyboardPosition[uint8(key)]) {
				pixelColor = buttonPressedColor
			}

			posX := screenOffsetX + (x * (buttonSize + 1))
			posY := screenOffsetY + (y * (buttonSize + 1))

			vector.DrawFilledRect(screen,
				float32(posX),
				float32(posY),
				float32(buttonSize),
				float32(buttonSize),
				pixelColor, false,
			)
		}
	}
}

func (r *Renderer) Layout(int, int) (int, int) {
	if r.keypadMode {
		return chip8.ScreenWidth, chip8.ScreenHeight + 22
	}
	return chip8.ScreenWidth, chip8.ScreenHeight
}

// Run blocks on ebiten's main-thread game loop until the window is closed
// or Escape is pressed. The caller is responsible for joining the CPU
// worker goroutine afterward.
func (r *Renderer) Run() error {
	ebiten.SetWindowSize(chip8.ScreenWidth*screenScale, chip8.ScreenHeight*screenScale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("chip8vm: " + r.romName)

	if err := ebiten.RunGame(r); err != nil {
		return fmt.Errorf("run renderer: %w", err)
	}
	return nil
}

// ebitenTarget adapts an *ebiten.Image to chip8.RenderTarget.
type ebitenTarget struct {
	img    *ebiten.Image
	fg, bg color.Color
}

func (t ebitenTarget) Clear()              { t.img.Fill(t.bg) }
func (t ebitenTarget) FillPixel(x, y int)  { t.img.Set(x, y, t.fg) }

func MustDecodeColorFromHex(s string) color.Color {
	c, err := DecodeColorFromHex(s)
	if err != nil {
		log.Fatal(err.Error())
	}
	return c
}

func DecodeColorFromHex(s string) (color.Color, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode a hex string: %w", err)
	}
	if len(data) != 3 && len(data) != 4 {
		return nil, fmt.Errorf("color must be in rgb or rgba format")
	}

	c := color.RGBA{
		R: data[0],
		G: data[1],
		B: data[2],
		A: 0xff,
	}
	if len(data) == 4 {
		c.A = data[3]
	}

	return c, nil
}
