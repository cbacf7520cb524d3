// Package firmware provides the loadable forms that can be flashed into
// an MCU handle: parsed executable images and raw opcode byte sequences.
//
// ELF parsing is delegated to debug/elf; this package only lifts the
// loadable segments into the engine's image representation.
package firmware

import (
	"bytes"
	"debug/elf"
	"fmt"

	"github.com/simkit/avrsim/internal/engine"
	"github.com/simkit/avrsim/internal/mcu"
)

// Image is a parsed executable image. It is independent of any handle:
// stateless once constructed, flashable into any number of handles.
type Image struct {
	img engine.Image
}

// FromImage wraps an already-built engine image.
func FromImage(img engine.Image) *Image {
	return &Image{img: img}
}

// ReadFile reads an executable image from an ELF file on disk.
func ReadFile(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read firmware %s: %w", path, err)
	}
	defer f.Close()
	return fromELF(f)
}

// ReadBytes reads an executable image from ELF bytes in memory.
func ReadBytes(b []byte) (*Image, error) {
	f, err := elf.NewFile(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("read firmware: %w", err)
	}
	defer f.Close()
	return fromELF(f)
}

// fromELF lifts the PT_LOAD segments of an ELF file into an engine
// image. Segments are placed at their physical (load) address: for MCU
// images the LMA is the flash address even when the VMA points at data
// memory.
func fromELF(f *elf.File) (*Image, error) {
	img := engine.Image{Entry: uint32(f.Entry)}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Memsz == 0 {
			continue
		}
		data := make([]byte, prog.Memsz)
		if prog.Filesz > 0 {
			if _, err := prog.ReadAt(data[:prog.Filesz], 0); err != nil {
				return nil, fmt.Errorf("read firmware segment @0x%x: %w", prog.Paddr, err)
			}
		}
		// Remainder past Filesz stays zero-filled.
		img.Segments = append(img.Segments, engine.Segment{
			Addr: uint32(prog.Paddr),
			Data: data,
		})
	}

	return &Image{img: img}, nil
}

// Engine returns the underlying engine image value.
func (f *Image) Engine() *engine.Image {
	return &f.img
}

// Flash writes the image into the handle's program memory through the
// engine's firmware-loading entry point.
func (f *Image) Flash(m *mcu.MCU) {
	m.Engine().LoadFirmware(&f.img)
}

// Raw is a raw opcode byte sequence. Flashing writes the bytes directly
// into program memory at address 0 with no format validation; the
// correctness of the resulting program is the caller's concern.
type Raw []byte

// Flash writes the bytes into program memory at address 0.
func (r Raw) Flash(m *mcu.MCU) {
	m.Engine().LoadRaw(r, 0)
}
