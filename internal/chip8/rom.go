package chip8

import (
	"fmt"
	"os"
	"path"
)

// RomMaxSizeBytes is the exclusive upper bound on ROM size: the address
// space from 0x200 to 0xFFF, minus one byte. A ROM must be shorter than
// this, so the largest accepted image is RomMaxSizeBytes-1 bytes.
const RomMaxSizeBytes = 0xDFF

// Rom is a loaded program image together with the file name it came from,
// which is used for the window title and the startup log line.
type Rom struct {
	Name string
	Data []byte
}

// NewRomFromFile reads romPath off disk and validates its size. I/O
// failures are wrapped with the underlying os error so callers can still
// use errors.Is against it; size failures come back as *InvalidROMError.
func NewRomFromFile(romPath string) (Rom, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return Rom{}, fmt.Errorf("read rom file %s: %w", romPath, err)
	}

	if err := validateRom(data); err != nil {
		return Rom{}, err
	}

	return Rom{
		Name: path.Base(romPath),
		Data: data,
	}, nil
}

func validateRom(data []byte) error {
	if len(data) == 0 {
		return &InvalidROMError{Reason: "rom is empty"}
	}
	if len(data) >= RomMaxSizeBytes {
		return &InvalidROMError{
			Reason: fmt.Sprintf("rom is %d bytes, max is %d", len(data), RomMaxSizeBytes-1),
		}
	}
	return nil
}
