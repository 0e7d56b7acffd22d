// Package display implements the bitplane display of the CHIP-8 machine.
//
// The buffer is always sized for the high resolution mode (128x64). In low
// resolution every addressable pixel is drawn as a 2x2 block, which matches
// how the Super-Chip interpreters kept a single physical buffer and is what
// makes the legacy half-pixel scroll quirk expressible.
//
// The second plane is only addressable when the XO-Chip plane-select opcode
// is available; classic dialects leave the plane mask at its reset value of
// one.
package display

import (
	"image"
	"image/color"
	"strings"
)

// Width and Height of the display buffer in physical pixels
const (
	Width  = 128
	Height = 64
)

// NumPlanes supported by the buffer. combining both planes gives the
// four-colour output of the XO-Chip
const NumPlanes = 2

type Display struct {
	planes [NumPlanes][Height][Width]bool

	hires bool
	mask  uint8

	// meta flag indicating that the display has changed since the last call
	// to the Changed() function
	changed bool
}

func Create() *Display {
	dsp := &Display{}
	dsp.Reset()
	return dsp
}

// Reset returns the display to low resolution with plane zero selected and
// all pixels off
func (dsp *Display) Reset() {
	for p := range dsp.planes {
		dsp.clearPlane(p)
	}
	dsp.hires = false
	dsp.mask = 0x01
	dsp.changed = true
}

// HighRes returns true when the high resolution mode is active
func (dsp *Display) HighRes() bool {
	return dsp.hires
}

// SetHighRes switches resolution mode. whether the screen is cleared on a
// mode change is quirk dependent so the choice belongs to the caller
func (dsp *Display) SetHighRes(enable bool, clear bool) {
	if clear && dsp.hires != enable {
		for p := range dsp.planes {
			dsp.clearPlane(p)
		}
	}
	dsp.hires = enable
	dsp.changed = true
}

// PlaneMask returns the current plane selection mask
func (dsp *Display) PlaneMask() uint8 {
	return dsp.mask
}

// SetPlaneMask selects which planes subsequent draw, clear and scroll
// operations affect
func (dsp *Display) SetPlaneMask(mask uint8) {
	dsp.mask = mask & ((1 << NumPlanes) - 1)
}

// Clear the currently selected planes
func (dsp *Display) Clear() {
	for p := range dsp.planes {
		if dsp.mask&(1<<p) != 0 {
			dsp.clearPlane(p)
		}
	}
	dsp.changed = true
}

func (dsp *Display) clearPlane(plane int) {
	for y := range dsp.planes[plane] {
		for x := range dsp.planes[plane][y] {
			dsp.planes[plane][y][x] = false
		}
	}
}

// Pixel returns the state of the physical pixel in the given plane
func (dsp *Display) Pixel(plane int, x int, y int) bool {
	return dsp.planes[plane][y][x]
}

// Planes returns a reference to the underlying bitplanes. the caller must
// not hold the reference across a call to Step()
func (dsp *Display) Planes() *[NumPlanes][Height][Width]bool {
	return &dsp.planes
}

// Changed indicates whether the display has changed since the last time the
// function was called
func (dsp *Display) Changed() bool {
	result := dsp.changed
	dsp.changed = false
	return result
}

// String returns a compact rendering of the display suitable for the
// terminal debugger. both planes are folded into a single character cell
func (dsp *Display) String() string {
	s := strings.Builder{}
	glyphs := []rune{' ', '█', '▒', '▓'}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			var g int
			if dsp.planes[0][y][x] {
				g |= 0x01
			}
			if dsp.planes[1][y][x] {
				g |= 0x02
			}
			s.WriteRune(glyphs[g])
		}
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// the four colour palette used when rendering the bitplanes to an image. the
// first plane selects the foreground, the second plane the two blend colours
var palette = [4]color.RGBA{
	{R: 0x0e, G: 0x10, B: 0x10, A: 255},
	{R: 0xe8, G: 0xf0, B: 0xee, A: 255},
	{R: 0x55, G: 0x8c, B: 0x7c, A: 255},
	{R: 0x1d, G: 0x4a, B: 0x3e, A: 255},
}

// Image renders the bitplanes as an RGBA image sized Width x Height
func (dsp *Display) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			var p int
			if dsp.planes[0][y][x] {
				p |= 0x01
			}
			if dsp.planes[1][y][x] {
				p |= 0x02
			}
			img.SetRGBA(x, y, palette[p])
		}
	}
	return img
}
