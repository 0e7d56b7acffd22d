package display

// the scroll functions move the currently selected planes by the given number
// of physical pixels, filling the vacated area with unlit pixels. the caller
// converts the opcode operand to physical pixels: the amount is doubled in
// low resolution unless the half-pixel scroll quirk is in effect

func (dsp *Display) ScrollDown(n int) {
	for p := range dsp.planes {
		if dsp.mask&(1<<p) == 0 {
			continue
		}
		for y := Height - 1; y >= 0; y-- {
			if y >= n {
				dsp.planes[p][y] = dsp.planes[p][y-n]
			} else {
				dsp.planes[p][y] = [Width]bool{}
			}
		}
	}
	dsp.changed = true
}

func (dsp *Display) ScrollUp(n int) {
	for p := range dsp.planes {
		if dsp.mask&(1<<p) == 0 {
			continue
		}
		for y := 0; y < Height; y++ {
			if y+n < Height {
				dsp.planes[p][y] = dsp.planes[p][y+n]
			} else {
				dsp.planes[p][y] = [Width]bool{}
			}
		}
	}
	dsp.changed = true
}

func (dsp *Display) ScrollLeft(n int) {
	for p := range dsp.planes {
		if dsp.mask&(1<<p) == 0 {
			continue
		}
		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				if x+n < Width {
					dsp.planes[p][y][x] = dsp.planes[p][y][x+n]
				} else {
					dsp.planes[p][y][x] = false
				}
			}
		}
	}
	dsp.changed = true
}

func (dsp *Display) ScrollRight(n int) {
	for p := range dsp.planes {
		if dsp.mask&(1<<p) == 0 {
			continue
		}
		for y := 0; y < Height; y++ {
			for x := Width - 1; x >= 0; x-- {
				if x >= n {
					dsp.planes[p][y][x] = dsp.planes[p][y][x-n]
				} else {
					dsp.planes[p][y][x] = false
				}
			}
		}
	}
	dsp.changed = true
}
