package display

// DrawResult describes the outcome of a sprite draw. the interpreter folds
// the fields into the flag register according to the active quirks
type DrawResult struct {
	// Collision is true if any pixel was erased by the draw
	Collision bool

	// CollidedRows is the number of sprite rows in which at least one pixel
	// was erased
	CollidedRows int

	// ClippedRows is the number of sprite rows that fell below the bottom
	// edge of the screen while clipping was in effect
	ClippedRows int
}

// Add accumulates the result of a second draw, as required when a sprite is
// drawn to both planes in one operation
func (r *DrawResult) Add(o DrawResult) {
	r.Collision = r.Collision || o.Collision
	r.CollidedRows += o.CollidedRows
	r.ClippedRows += o.ClippedRows
}

// Draw XORs a sprite into the given plane. coordinates are in the logical
// resolution; the starting position always wraps, while pixels that extend
// over a screen edge wrap or clip according to the clip argument.
//
// data is one byte per row, or two bytes per row for the 16 pixel wide
// sprite when wide is true.
func (dsp *Display) Draw(plane int, x uint8, y uint8, data []uint8, wide bool, clip bool) DrawResult {
	maxW := Width
	maxH := Height
	if !dsp.hires {
		maxW = Width / 2
		maxH = Height / 2
	}

	width := 8
	stride := 1
	if wide {
		width = 16
		stride = 2
	}

	px := int(x) % maxW
	py := int(y) % maxH

	var result DrawResult

	for r := 0; r*stride < len(data); r++ {
		row := py + r
		if row >= maxH {
			if clip {
				result.ClippedRows++
				continue
			}
			row %= maxH
		}

		var bits uint16
		if wide {
			bits = uint16(data[r*2])<<8 | uint16(data[r*2+1])
		} else {
			bits = uint16(data[r]) << 8
		}

		collided := false
		for c := 0; c < width; c++ {
			if bits&(0x8000>>c) == 0 {
				continue
			}
			col := px + c
			if col >= maxW {
				if clip {
					continue
				}
				col %= maxW
			}
			if dsp.xorPixel(plane, col, row) {
				collided = true
			}
		}
		if collided {
			result.Collision = true
			result.CollidedRows++
		}
	}

	dsp.changed = true
	return result
}

// flip the pixel at the logical coordinates, returning true if the pixel was
// lit beforehand. in low resolution a logical pixel covers a 2x2 block of
// physical pixels and each physical pixel is flipped individually. the blocks
// lose their uniformity after a half-pixel scroll, which is exactly the
// behaviour of the original Super-Chip
func (dsp *Display) xorPixel(plane int, x int, y int) bool {
	if dsp.hires {
		old := dsp.planes[plane][y][x]
		dsp.planes[plane][y][x] = !old
		return old
	}

	collision := false
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			py := y*2 + dy
			px := x*2 + dx
			if dsp.planes[plane][py][px] {
				collision = true
			}
			dsp.planes[plane][py][px] = !dsp.planes[plane][py][px]
		}
	}
	return collision
}
