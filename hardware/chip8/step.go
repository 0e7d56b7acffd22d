package chip8

import (
	"fmt"

	"github.com/jetsetilly/testchip8/hardware/audio"
	"github.com/jetsetilly/testchip8/hardware/display"
	"github.com/jetsetilly/testchip8/logger"
)

// read and write for data access through the index register. access outside
// of addressable memory is a fault, not a wrap. only program counter
// arithmetic wraps at the top of memory
func (vm *Chip8) read(address uint16) (uint8, error) {
	return vm.Mem.Read(int(address))
}

func (vm *Chip8) write(address uint16, data uint8) error {
	return vm.Mem.Write(int(address), data)
}

// checkRange validates a multi-byte transfer before the first byte is moved,
// so that a fault at the top of memory does not leave a partial result
func (vm *Chip8) checkRange(address uint16, length int) error {
	_, err := vm.Mem.Read(int(address) + length - 1)
	return err
}

// skip the next instruction. the double-width long-index instruction is
// stepped over in full when the wide skip quirk is in effect
func (vm *Chip8) skip() error {
	if vm.Quirks.WideInstructionSkip {
		// a peek that falls outside of memory cannot be the long index
		// instruction
		hi, hiErr := vm.read(vm.PC)
		lo, loErr := vm.read(vm.PC + 1)
		if hiErr == nil && loErr == nil && uint16(hi)<<8|uint16(lo) == 0xf000 {
			vm.PC = (vm.PC + 4) & vm.Mem.Mask()
			return nil
		}
	}
	vm.PC = (vm.PC + 2) & vm.Mem.Mask()
	return nil
}

func (vm *Chip8) unknown(opcode uint16) error {
	if vm.Unknown == UnknownSkip {
		logger.Logf(logger.Allow, "chip8", "unknown opcode %04x at %04x", opcode, vm.LastPC)
		return nil
	}
	return fmt.Errorf("chip8: %w: %04x at %04x", UnknownOpcode, opcode, vm.LastPC)
}

// Step fetches and executes a single instruction. in the WaitingForKey and
// WaitFrame states the function does nothing until the condition the
// interpreter is stalled on has been satisfied.
//
// A returned error wrapping UnknownOpcode, StackOverflow or StackUnderflow
// means the interpreter has faulted. the Exited error is a clean end to the
// program. in either case the interpreter should not be stepped again
// without a reset
func (vm *Chip8) Step() error {
	switch vm.state {
	case WaitFrame:
		return nil
	case WaitingForKey:
		if key, ok := vm.Keypad.CompleteWait(); ok {
			vm.V[vm.waitReg] = key
			vm.state = Running
		}
		return nil
	}

	hi, err := vm.read(vm.PC)
	if err != nil {
		return err
	}
	lo, err := vm.read(vm.PC + 1)
	if err != nil {
		return err
	}

	opcode := uint16(hi)<<8 | uint16(lo)
	vm.LastPC = vm.PC
	vm.LastOpcode = opcode
	vm.PC = (vm.PC + 2) & vm.Mem.Mask()

	x := uint8(opcode>>8) & 0x0f
	y := uint8(opcode>>4) & 0x0f
	n := uint8(opcode) & 0x0f
	nn := uint8(opcode)
	nnn := opcode & 0x0fff

	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00e0:
			vm.Display.Clear()
		case 0x00ee:
			address, err := vm.pop()
			if err != nil {
				return err
			}
			vm.PC = address
		case 0x00fb:
			vm.Display.ScrollRight(vm.scrollAmount(4))
		case 0x00fc:
			vm.Display.ScrollLeft(vm.scrollAmount(4))
		case 0x00fd:
			return fmt.Errorf("chip8: %w", Exited)
		case 0x00fe:
			vm.Display.SetHighRes(false, vm.Quirks.ClearOnResolution)
		case 0x00ff:
			vm.Display.SetHighRes(true, vm.Quirks.ClearOnResolution)
		default:
			switch opcode & 0xfff0 {
			case 0x00b0:
				// the unofficial scroll-up found on some Super-Chip
				// interpreters
				vm.Display.ScrollUp(vm.scrollAmount(n))
			case 0x00c0:
				vm.Display.ScrollDown(vm.scrollAmount(n))
			case 0x00d0:
				if !vm.Quirks.SeveralPlanes {
					return vm.unknown(opcode)
				}
				vm.Display.ScrollUp(vm.scrollAmount(n))
			default:
				// 0NNN machine code routines are not supported
				return vm.unknown(opcode)
			}
		}

	case 0x1:
		vm.PC = nnn

	case 0x2:
		err := vm.push(vm.PC)
		if err != nil {
			return err
		}
		vm.PC = nnn

	case 0x3:
		if vm.V[x] == nn {
			return vm.skip()
		}

	case 0x4:
		if vm.V[x] != nn {
			return vm.skip()
		}

	case 0x5:
		switch n {
		case 0x0:
			if vm.V[x] == vm.V[y] {
				return vm.skip()
			}
		case 0x2:
			if !vm.Quirks.SeveralPlanes {
				return vm.unknown(opcode)
			}
			return vm.saveRange(x, y)
		case 0x3:
			if !vm.Quirks.SeveralPlanes {
				return vm.unknown(opcode)
			}
			return vm.loadRange(x, y)
		default:
			return vm.unknown(opcode)
		}

	case 0x6:
		vm.V[x] = nn

	case 0x7:
		vm.V[x] += nn

	case 0x8:
		switch n {
		case 0x0:
			vm.V[x] = vm.V[y]
		case 0x1:
			vm.V[x] |= vm.V[y]
			if vm.Quirks.ResetFlag {
				vm.V[0xf] = 0
			}
		case 0x2:
			vm.V[x] &= vm.V[y]
			if vm.Quirks.ResetFlag {
				vm.V[0xf] = 0
			}
		case 0x3:
			vm.V[x] ^= vm.V[y]
			if vm.Quirks.ResetFlag {
				vm.V[0xf] = 0
			}
		case 0x4:
			// the flag is written after the result so that VF as a
			// destination still receives the carry
			r := uint16(vm.V[x]) + uint16(vm.V[y])
			vm.V[x] = uint8(r)
			vm.V[0xf] = uint8(r >> 8)
		case 0x5:
			noBorrow := vm.V[x] >= vm.V[y]
			vm.V[x] -= vm.V[y]
			vm.V[0xf] = flag(noBorrow)
		case 0x6:
			src := vm.V[y]
			if vm.Quirks.ShiftXOnly {
				src = vm.V[x]
			}
			vm.V[x] = src >> 1
			vm.V[0xf] = src & 0x01
		case 0x7:
			noBorrow := vm.V[y] >= vm.V[x]
			vm.V[x] = vm.V[y] - vm.V[x]
			vm.V[0xf] = flag(noBorrow)
		case 0xe:
			src := vm.V[y]
			if vm.Quirks.ShiftXOnly {
				src = vm.V[x]
			}
			vm.V[x] = src << 1
			vm.V[0xf] = src >> 7
		default:
			return vm.unknown(opcode)
		}

	case 0x9:
		if n != 0x0 {
			return vm.unknown(opcode)
		}
		if vm.V[x] != vm.V[y] {
			return vm.skip()
		}

	case 0xa:
		vm.I = nnn

	case 0xb:
		if vm.Quirks.JumpXNN {
			vm.PC = (nnn + uint16(vm.V[x])) & vm.Mem.Mask()
		} else {
			vm.PC = (nnn + uint16(vm.V[0])) & vm.Mem.Mask()
		}

	case 0xc:
		vm.V[x] = vm.ctx.Rand8Bit() & nn

	case 0xd:
		return vm.draw(x, y, n)

	case 0xe:
		switch nn {
		case 0x9e:
			if vm.Keypad.Pressed(vm.V[x]) {
				return vm.skip()
			}
		case 0xa1:
			if !vm.Keypad.Pressed(vm.V[x]) {
				return vm.skip()
			}
		default:
			return vm.unknown(opcode)
		}

	case 0xf:
		return vm.stepMisc(opcode, x, nn)
	}

	return nil
}

// the FX.. instruction group. the low byte selects the operation; the long
// index and audio instructions repurpose the X nibble
func (vm *Chip8) stepMisc(opcode uint16, x uint8, nn uint8) error {
	switch nn {
	case 0x00:
		// F000 NNNN: the double-width long index instruction
		if x != 0x0 || !vm.Quirks.WideInstructionSkip {
			return vm.unknown(opcode)
		}
		hi, err := vm.read(vm.PC)
		if err != nil {
			return err
		}
		lo, err := vm.read(vm.PC + 1)
		if err != nil {
			return err
		}
		vm.I = uint16(hi)<<8 | uint16(lo)
		vm.PC = (vm.PC + 2) & vm.Mem.Mask()

	case 0x01:
		// FN01: plane select
		if !vm.Quirks.SeveralPlanes {
			return vm.unknown(opcode)
		}
		vm.Display.SetPlaneMask(x)

	case 0x02:
		// F002: load the audio pattern buffer
		if x != 0x0 || !vm.Quirks.SeveralPlanes {
			return vm.unknown(opcode)
		}
		if err := vm.checkRange(vm.I, audio.PatternLength); err != nil {
			return err
		}
		var pattern [audio.PatternLength]uint8
		for i := range pattern {
			v, err := vm.read(vm.I + uint16(i))
			if err != nil {
				return err
			}
			pattern[i] = v
		}
		vm.Audio.SetPattern(pattern)

	case 0x07:
		vm.V[x] = vm.DelayTimer

	case 0x0a:
		vm.Keypad.BeginWait()
		vm.waitReg = int(x)
		vm.state = WaitingForKey

	case 0x15:
		vm.DelayTimer = vm.V[x]

	case 0x18:
		vm.SoundTimer = vm.V[x]
		vm.Audio.SetPlaying(vm.SoundTimer > 0)

	case 0x1e:
		// the flag is set when the sum leaves the addressable space, as on
		// the Amiga interpreter. it is never cleared by this instruction
		a := int(vm.I) + int(vm.V[x])
		if a > int(vm.Mem.Mask()) {
			vm.V[0xf] = 1
		}
		vm.I = uint16(a) & vm.Mem.Mask()

	case 0x29:
		vm.I = vm.Mem.FontAddress(vm.V[x])

	case 0x30:
		vm.I = vm.Mem.FontHighAddress(vm.V[x])

	case 0x33:
		if err := vm.checkRange(vm.I, 3); err != nil {
			return err
		}
		v := vm.V[x]
		for i, d := range []uint8{v / 100, (v / 10) % 10, v % 10} {
			err := vm.write(vm.I+uint16(i), d)
			if err != nil {
				return err
			}
		}

	case 0x3a:
		if !vm.Quirks.SeveralPlanes {
			return vm.unknown(opcode)
		}
		vm.Audio.SetPitch(vm.V[x])

	case 0x55:
		if err := vm.checkRange(vm.I, int(x)+1); err != nil {
			return err
		}
		for i := uint16(0); i <= uint16(x); i++ {
			err := vm.write(vm.I+i, vm.V[i])
			if err != nil {
				return err
			}
		}
		if vm.Quirks.IncrementIndex {
			vm.I = (vm.I + uint16(x) + 1) & vm.Mem.Mask()
		}

	case 0x65:
		if err := vm.checkRange(vm.I, int(x)+1); err != nil {
			return err
		}
		for i := uint16(0); i <= uint16(x); i++ {
			v, err := vm.read(vm.I + i)
			if err != nil {
				return err
			}
			vm.V[i] = v
		}
		if vm.Quirks.IncrementIndex {
			vm.I = (vm.I + uint16(x) + 1) & vm.Mem.Mask()
		}

	case 0x75:
		last := vm.clampFlagRegister(x)
		for i := 0; i <= last; i++ {
			vm.RPL[i] = vm.V[i]
		}

	case 0x85:
		last := vm.clampFlagRegister(x)
		for i := 0; i <= last; i++ {
			vm.V[i] = vm.RPL[i]
		}

	default:
		return vm.unknown(opcode)
	}

	return nil
}

// the Super-Chip flag instructions access the first eight registers only
func (vm *Chip8) clampFlagRegister(x uint8) int {
	if !vm.Quirks.ExtendedFlagRegisters && x > 7 {
		return 7
	}
	return int(x)
}

// save and load a register range (XO-Chip). the range runs from VX to VY in
// either direction; the index register is not changed
func (vm *Chip8) saveRange(x uint8, y uint8) error {
	step := 1
	if x > y {
		step = -1
	}
	if err := vm.checkRange(vm.I, step*(int(y)-int(x))+1); err != nil {
		return err
	}
	address := vm.I
	for i := int(x); ; i += step {
		err := vm.write(address, vm.V[i])
		if err != nil {
			return err
		}
		address++
		if i == int(y) {
			break
		}
	}
	return nil
}

func (vm *Chip8) loadRange(x uint8, y uint8) error {
	step := 1
	if x > y {
		step = -1
	}
	if err := vm.checkRange(vm.I, step*(int(y)-int(x))+1); err != nil {
		return err
	}
	address := vm.I
	for i := int(x); ; i += step {
		v, err := vm.read(address)
		if err != nil {
			return err
		}
		vm.V[i] = v
		address++
		if i == int(y) {
			break
		}
	}
	return nil
}

// scrollAmount converts the scroll operand to physical pixels. scrolling in
// low resolution moves two physical pixels per operand unit, unless the
// half-pixel quirk is in effect
func (vm *Chip8) scrollAmount(n uint8) int {
	if vm.Display.HighRes() || vm.Quirks.ScrollHalfPixel {
		return int(n)
	}
	return int(n) * 2
}

// draw executes the DXYN instruction. when the several-planes quirk is in
// effect the sprite is drawn to each selected plane, with the data for the
// second plane following the first in memory
func (vm *Chip8) draw(x uint8, y uint8, n uint8) error {
	height := int(n)
	wide := false
	if n == 0 {
		height = 16
		wide = true
	}
	stride := 1
	if wide {
		stride = 2
	}

	clip := vm.Quirks.ClipSpritesLores
	count := vm.Quirks.CollisionCountLores
	wait := vm.Quirks.DisplayWaitLores
	if vm.Display.HighRes() {
		clip = vm.Quirks.ClipSpritesHires
		count = vm.Quirks.CollisionCountHires
		wait = vm.Quirks.DisplayWaitHires
	}

	var result display.DrawResult

	planes := 0
	for p := 0; p < display.NumPlanes; p++ {
		if vm.Display.PlaneMask()&(1<<p) != 0 {
			planes++
		}
	}
	if planes > 0 {
		if err := vm.checkRange(vm.I, planes*height*stride); err != nil {
			return err
		}
	}

	address := vm.I
	for p := 0; p < display.NumPlanes; p++ {
		if vm.Display.PlaneMask()&(1<<p) == 0 {
			continue
		}
		data := make([]uint8, height*stride)
		for i := range data {
			v, err := vm.read(address + uint16(i))
			if err != nil {
				return err
			}
			data[i] = v
		}
		address += uint16(len(data))
		result.Add(vm.Display.Draw(p, vm.V[x], vm.V[y], data, wide, clip))
	}

	if count {
		c := result.CollidedRows + result.ClippedRows
		if c > 255 {
			c = 255
		}
		vm.V[0xf] = uint8(c)
	} else {
		vm.V[0xf] = flag(result.Collision)
	}

	if wait {
		vm.state = WaitFrame
	}

	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
