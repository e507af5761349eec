package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/corvid-systems/chip8vm/internal/chip8"
	"github.com/corvid-systems/chip8vm/internal/renderer"
)

const (
	minFrequencyHz     = 1
	maxFrequencyHz     = 10000
	defaultFrequencyHz = 600
)

var (
	modernShift bool
	frequencyHz int
	fgColorHex  string
	bgColorHex  string
)

// runCmd loads a ROM, starts the CPU worker goroutine, and blocks on the
// renderer's window loop until the window is closed.
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "run a CHIP-8 ROM",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if frequencyHz < minFrequencyHz || frequencyHz > maxFrequencyHz {
			return fmt.Errorf("frequency must be between %d and %d Hz, got %d", minFrequencyHz, maxFrequencyHz, frequencyHz)
		}
		return nil
	},
	RunE: runRom,
}

func init() {
	runCmd.Flags().BoolVarP(&modernShift, "modern", "m", false, "use modern (SCHIP-era) semantics for 8xy6/8xyE, shifting Vx in place instead of Vy")
	runCmd.Flags().IntVarP(&frequencyHz, "frequency", "f", defaultFrequencyHz, "target CPU frequency in instructions per second")
	runCmd.Flags().StringVar(&fgColorHex, "fg", "FFFFFF", "rgb(a) foreground color in hex")
	runCmd.Flags().StringVar(&bgColorHex, "bg", "000000", "rgb(a) background color in hex")
}

func runRom(cmd *cobra.Command, args []string) error {
	romPath := args[0]

	rom, err := chip8.NewRomFromFile(romPath)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}

	fgColor, err := renderer.DecodeColorFromHex(fgColorHex)
	if err != nil {
		return fmt.Errorf("decode fg color: %w", err)
	}
	bgColor, err := renderer.DecodeColorFromHex(bgColorHex)
	if err != nil {
		return fmt.Errorf("decode bg color: %w", err)
	}

	display := chip8.NewDisplay()
	keypad := &chip8.Keypad{}
	cpu := chip8.NewCPU(rom, display, keypad, modernShift)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cpu.RunAt(stop, frequencyHz)
	}()

	log.Printf("running %s at %d Hz (modern shift: %v)", rom.Name, frequencyHz, modernShift)

	win := renderer.NewFromConfig(display, keypad, rom.Name, renderer.Config{
		FgColor: fgColor,
		BgColor: bgColor,
	})
	runErr := win.Run()

	close(stop)
	cpuErr := <-done

	if runErr != nil {
		return fmt.Errorf("run renderer: %w", runErr)
	}
	if cpuErr != nil {
		return fmt.Errorf("cpu halted with error: %w", cpuErr)
	}
	return nil
}
