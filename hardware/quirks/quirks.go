// Package quirks describes the ways in which the CHIP-8 dialects deviate
// from the baseline COSMAC VIP semantics. Every field is an independent
// toggle; the interpreter consults individual fields at the point where the
// affected opcode is executed and never branches on the dialect itself.
//
// The preset combinations are those documented by the Timendus test suite
// for the four supported dialects.
package quirks

import (
	"fmt"
	"strings"
)

// Dialect enumerates the four supported flavours of the CHIP-8 language
type Dialect int

const (
	Chip8 Dialect = iota
	SuperChip
	SuperChipModern
	XOChip
)

func (d Dialect) String() string {
	switch d {
	case Chip8:
		return "CHIP-8"
	case SuperChip:
		return "Super-Chip 1.1"
	case SuperChipModern:
		return "Super-Chip (modern)"
	case XOChip:
		return "XO-Chip"
	}
	return "unknown dialect"
}

// ParseDialect converts a string, as given on the command line, to a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToUpper(s) {
	case "CHIP8", "CHIP-8", "VIP":
		return Chip8, nil
	case "SCHIP", "SUPERCHIP", "SCHIP1.1":
		return SuperChip, nil
	case "SCHIP-MODERN", "MODERN":
		return SuperChipModern, nil
	case "XOCHIP", "XO-CHIP", "XO":
		return XOChip, nil
	}
	return Chip8, fmt.Errorf("unrecognised dialect: %s", s)
}

// Quirks is the set of behaviour toggles consulted by the interpreter. fields
// are fully independent; combinations with no historical precedent are legal
// and are never validated
type Quirks struct {
	// the AND, OR and XOR opcodes (8XY1, 8XY2, 8XY3) reset VF to zero
	ResetFlag bool

	// the save and load opcodes (FX55, FX65) increment the index register by
	// the number of registers transferred
	IncrementIndex bool

	// drawing a sprite stalls the interpreter until the next timer tick, in
	// low and high resolution respectively
	DisplayWaitLores bool
	DisplayWaitHires bool

	// sprites drawn over a screen edge are clipped rather than wrapped, in
	// low and high resolution respectively
	ClipSpritesLores bool
	ClipSpritesHires bool

	// the shift opcodes (8XY6, 8XYE) operate on VX only, rather than storing
	// a shifted copy of VY in VX
	ShiftXOnly bool

	// the jump-with-offset opcode (BNNN) jumps to XNN + VX rather than
	// NNN + V0
	JumpXNN bool

	// the screen is cleared when switching between low and high resolution
	ClearOnResolution bool

	// the collision flag after a draw counts the number of sprite rows that
	// either collide or fall below the bottom of the screen, rather than
	// being set to 1 on any collision
	CollisionCountLores bool
	CollisionCountHires bool

	// the display has a second plane addressable with the plane-select
	// opcode (XO-Chip)
	SeveralPlanes bool

	// the scroll opcodes move the screen by half a low-resolution pixel when
	// in low resolution (legacy Super-Chip behaviour)
	ScrollHalfPixel bool

	// the conditional skip opcodes step over four bytes when the skipped
	// instruction is the double-width F000 NNNN (XO-Chip)
	WideInstructionSkip bool

	// the flag-register opcodes (FX75, FX85) accept all sixteen registers
	// rather than the first eight (XO-Chip)
	ExtendedFlagRegisters bool

	// memory outside of the font region and the loaded program is filled
	// with random bytes on reset (Super-Chip 1.1)
	RandomMemory bool
}

// Preset returns the quirk combination documented for the given dialect
func Preset(d Dialect) Quirks {
	switch d {
	case Chip8:
		return Quirks{
			ResetFlag:        true,
			IncrementIndex:   true,
			DisplayWaitLores: true,
			ClipSpritesLores: true,
		}
	case SuperChip:
		return Quirks{
			DisplayWaitLores:    true,
			ClipSpritesLores:    true,
			ClipSpritesHires:    true,
			ShiftXOnly:          true,
			JumpXNN:             true,
			CollisionCountLores: true,
			CollisionCountHires: true,
			ScrollHalfPixel:     true,
			RandomMemory:        true,
		}
	case SuperChipModern:
		return Quirks{
			ClipSpritesLores:    true,
			ClipSpritesHires:    true,
			ShiftXOnly:          true,
			JumpXNN:             true,
			ClearOnResolution:   true,
			CollisionCountLores: true,
			CollisionCountHires: true,
		}
	case XOChip:
		return Quirks{
			IncrementIndex:        true,
			SeveralPlanes:         true,
			WideInstructionSkip:   true,
			ExtendedFlagRegisters: true,
		}
	}
	return Quirks{}
}

func (q Quirks) String() string {
	s := strings.Builder{}
	f := func(label string, v bool) {
		s.WriteString(fmt.Sprintf("%s: %v\n", label, v))
	}
	f("reset flag on logic", q.ResetFlag)
	f("increment index", q.IncrementIndex)
	f("display wait (lores)", q.DisplayWaitLores)
	f("display wait (hires)", q.DisplayWaitHires)
	f("clip sprites (lores)", q.ClipSpritesLores)
	f("clip sprites (hires)", q.ClipSpritesHires)
	f("shift VX only", q.ShiftXOnly)
	f("jump with VX", q.JumpXNN)
	f("clear on resolution change", q.ClearOnResolution)
	f("collision row count (lores)", q.CollisionCountLores)
	f("collision row count (hires)", q.CollisionCountHires)
	f("second display plane", q.SeveralPlanes)
	f("half-pixel scroll", q.ScrollHalfPixel)
	f("wide instruction skip", q.WideInstructionSkip)
	f("extended flag registers", q.ExtendedFlagRegisters)
	f("random memory", q.RandomMemory)
	return strings.TrimSuffix(s.String(), "\n")
}
