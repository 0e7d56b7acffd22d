package quirks_test

import (
	"testing"

	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/test"
)

func TestPresets(t *testing.T) {
	q := quirks.Preset(quirks.Chip8)
	test.ExpectEquality(t, q.ResetFlag, true)
	test.ExpectEquality(t, q.IncrementIndex, true)
	test.ExpectEquality(t, q.DisplayWaitLores, true)
	test.ExpectEquality(t, q.ClipSpritesLores, true)
	test.ExpectEquality(t, q.ShiftXOnly, false)
	test.ExpectEquality(t, q.SeveralPlanes, false)

	q = quirks.Preset(quirks.SuperChip)
	test.ExpectEquality(t, q.ResetFlag, false)
	test.ExpectEquality(t, q.ShiftXOnly, true)
	test.ExpectEquality(t, q.JumpXNN, true)
	test.ExpectEquality(t, q.DisplayWaitLores, true)
	test.ExpectEquality(t, q.DisplayWaitHires, false)
	test.ExpectEquality(t, q.ScrollHalfPixel, true)
	test.ExpectEquality(t, q.CollisionCountHires, true)
	test.ExpectEquality(t, q.RandomMemory, true)

	// the modern Super-Chip drops the display wait, the half-pixel scroll and
	// the randomised memory
	q = quirks.Preset(quirks.SuperChipModern)
	test.ExpectEquality(t, q.DisplayWaitLores, false)
	test.ExpectEquality(t, q.ScrollHalfPixel, false)
	test.ExpectEquality(t, q.ClearOnResolution, true)
	test.ExpectEquality(t, q.RandomMemory, false)

	q = quirks.Preset(quirks.XOChip)
	test.ExpectEquality(t, q.IncrementIndex, true)
	test.ExpectEquality(t, q.SeveralPlanes, true)
	test.ExpectEquality(t, q.WideInstructionSkip, true)
	test.ExpectEquality(t, q.ExtendedFlagRegisters, true)
	test.ExpectEquality(t, q.ClipSpritesLores, false)
}

func TestParseDialect(t *testing.T) {
	for _, s := range []string{"chip8", "CHIP-8", "vip"} {
		d, err := quirks.ParseDialect(s)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, d, quirks.Chip8)
	}

	d, err := quirks.ParseDialect("schip")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, d, quirks.SuperChip)

	d, err = quirks.ParseDialect("schip-modern")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, d, quirks.SuperChipModern)

	d, err = quirks.ParseDialect("xochip")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, d, quirks.XOChip)

	_, err = quirks.ParseDialect("chip-16")
	test.ExpectFailure(t, err)
}
