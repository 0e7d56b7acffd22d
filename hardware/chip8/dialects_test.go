package chip8_test

import (
	"math/rand/v2"
	"testing"

	"github.com/jetsetilly/testchip8/hardware/chip8"
	"github.com/jetsetilly/testchip8/hardware/display"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/test"
)

// seededContext mirrors how the debugger seeds its random number source
type seededContext struct {
	rand *rand.Rand
}

func newSeededContext(seed uint64) *seededContext {
	return &seededContext{rand: rand.New(rand.NewPCG(seed, seed))}
}

func (c *seededContext) Rand8Bit() uint8 {
	return uint8(c.rand.IntN(256))
}

// stepTicking steps the interpreter, ticking the timers whenever a draw has
// stalled it on the display wait
func stepTicking(t *testing.T, vm *chip8.Chip8, n int) {
	t.Helper()
	for range n {
		test.ExpectSuccess(t, vm.Step())
		if vm.State() == chip8.WaitFrame {
			vm.TickTimers()
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	// draw the font glyph for a random digit at a random position, forever
	rom := []byte{
		0xc0, 0x3f, // RND V0, $3F
		0xc1, 0x1f, // RND V1, $1F
		0xc2, 0x0f, // RND V2, $0F
		0xf2, 0x29, // LD F, V2
		0xd0, 0x15, // DRW V0, V1, 5
		0x12, 0x00, // JP $200
	}

	run := func(seed uint64) [display.NumPlanes][display.Height][display.Width]bool {
		vm := chip8.Create(newSeededContext(seed), quirks.Preset(quirks.Chip8), memory.Baseline)
		test.ExpectSuccess(t, vm.Load(rom))
		stepTicking(t, vm, 600)
		return *vm.Display.Planes()
	}

	// the same seed reproduces the display buffer exactly
	test.ExpectEquality(t, run(1), run(1))

	// a different seed takes the program somewhere else
	test.ExpectInequality(t, run(1), run(2))
}

func TestDialectDivergence(t *testing.T) {
	// one program that touches the shift, the save/load index increment, the
	// sprite clipping and the scroll amount. each dialect preset leaves a
	// different picture behind
	rom := []byte{
		0x61, 0xff, // LD V1, $FF
		0x60, 0x01, // LD V0, $01
		0x81, 0x06, // SHR V1 {, V0}
		0xa3, 0x00, // LD I, $300
		0xf1, 0x55, // LD [I], V1
		0x62, 0x00, // LD V2, $00
		0xd2, 0x22, // DRW V2, V2, 2
		0x63, 0x1f, // LD V3, $1F
		0xf0, 0x29, // LD F, V0
		0xd2, 0x32, // DRW V2, V3, 2
		0x00, 0xc1, // SCD 1
	}

	dialects := []quirks.Dialect{
		quirks.Chip8,
		quirks.SuperChip,
		quirks.SuperChipModern,
		quirks.XOChip,
	}

	var planes [4][display.NumPlanes][display.Height][display.Width]bool
	var shifted [4]uint8

	for i, d := range dialects {
		vm := create(t, quirks.Preset(d), rom)
		stepTicking(t, vm, 11)
		planes[i] = *vm.Display.Planes()
		shifted[i] = vm.V[0x1]
	}

	// every pair of presets produces a different display
	for i := range planes {
		for j := i + 1; j < len(planes); j++ {
			test.ExpectInequality(t, planes[i], planes[j])
		}
	}

	// the shift quirk is one of the points of divergence: the Super-Chip
	// presets shift V1 in place, the others shift a copy of V0
	test.ExpectEquality(t, shifted[0], uint8(0x00))
	test.ExpectEquality(t, shifted[1], uint8(0x7f))
	test.ExpectEquality(t, shifted[2], uint8(0x7f))
	test.ExpectEquality(t, shifted[3], uint8(0x00))
}
