package chip8_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/testchip8/hardware/chip8"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/test"
)

type testContext struct {
	v uint8
}

func (c *testContext) Rand8Bit() uint8 {
	return c.v
}

func create(t *testing.T, q quirks.Quirks, rom []byte) *chip8.Chip8 {
	t.Helper()
	vm := chip8.Create(&testContext{v: 0xab}, q, memory.Baseline)
	test.ExpectSuccess(t, vm.Load(rom))
	return vm
}

func step(t *testing.T, vm *chip8.Chip8, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		test.ExpectSuccess(t, vm.Step())
	}
}

func TestLoadRegisters(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0x2a, // LD V0, $2A
		0x65, 0x10, // LD V5, $10
		0x75, 0x01, // ADD V5, $01
	})
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x2a))
	test.ExpectEquality(t, vm.V[0x5], uint8(0x11))
	test.ExpectEquality(t, vm.PC, uint16(0x206))
}

func TestAddWithCarry(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0xff, // LD V0, $FF
		0x61, 0x02, // LD V1, $02
		0x80, 0x14, // ADD V0, V1
	})
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x01))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))
}

func TestSubtractBorrow(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0x05, // LD V0, $05
		0x61, 0x07, // LD V1, $07
		0x80, 0x15, // SUB V0, V1
	})
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0x0], uint8(0xfe))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x00))

	// SUBN the other way around does not borrow
	vm = create(t, quirks.Quirks{}, []byte{
		0x60, 0x05, // LD V0, $05
		0x61, 0x07, // LD V1, $07
		0x80, 0x17, // SUBN V0, V1
	})
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x02))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))
}

func TestFlagAsDestination(t *testing.T) {
	// the carry must overwrite the result when VF is the destination
	vm := create(t, quirks.Quirks{}, []byte{
		0x6f, 0xff, // LD VF, $FF
		0x61, 0x02, // LD V1, $02
		0x8f, 0x14, // ADD VF, V1
	})
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))
}

func TestLogicResetFlag(t *testing.T) {
	rom := []byte{
		0x6f, 0x01, // LD VF, $01
		0x60, 0x0f, // LD V0, $0F
		0x61, 0xf0, // LD V1, $F0
		0x80, 0x11, // OR V0, V1
	}

	vm := create(t, quirks.Quirks{ResetFlag: true}, rom)
	step(t, vm, 4)
	test.ExpectEquality(t, vm.V[0x0], uint8(0xff))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x00))

	vm = create(t, quirks.Quirks{}, rom)
	step(t, vm, 4)
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))
}

func TestShiftQuirk(t *testing.T) {
	rom := []byte{
		0x60, 0x01, // LD V0, $01
		0x61, 0x80, // LD V1, $80
		0x80, 0x16, // SHR V0 {, V1}
	}

	// without the quirk the shift source is VY
	vm := create(t, quirks.Quirks{}, rom)
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x40))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x00))

	// with the quirk the shift operates on VX alone
	vm = create(t, quirks.Quirks{ShiftXOnly: true}, rom)
	step(t, vm, 3)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x00))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))
}

func TestJumpQuirk(t *testing.T) {
	rom := []byte{
		0x60, 0x04, // LD V0, $04
		0x62, 0x10, // LD V2, $10
		0xb2, 0x30, // JP V0, $230
	}

	vm := create(t, quirks.Quirks{}, rom)
	step(t, vm, 3)
	test.ExpectEquality(t, vm.PC, uint16(0x234))

	// with the quirk the register is selected by the high nibble of the
	// target address
	vm = create(t, quirks.Quirks{JumpXNN: true}, rom)
	step(t, vm, 3)
	test.ExpectEquality(t, vm.PC, uint16(0x240))
}

func TestSkips(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0x07, // LD V0, $07
		0x30, 0x07, // SE V0, $07 (skips)
		0x00, 0x00,
		0x40, 0x07, // SNE V0, $07 (does not skip)
		0x61, 0x07, // LD V1, $07
		0x50, 0x10, // SE V0, V1 (skips)
		0x00, 0x00,
		0x90, 0x10, // SNE V0, V1 (does not skip)
		0x62, 0x01, // LD V2, $01
	})
	step(t, vm, 7)
	test.ExpectEquality(t, vm.V[0x2], uint8(0x01))
	test.ExpectEquality(t, vm.PC, uint16(0x212))
}

func TestCallAndReturn(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x22, 0x06, // CALL $206
		0x60, 0xaa, // LD V0, $AA
		0x00, 0x00,
		0x61, 0xbb, // LD V1, $BB
		0x00, 0xee, // RET
	})
	step(t, vm, 1)
	test.ExpectEquality(t, vm.PC, uint16(0x206))
	test.ExpectEquality(t, len(vm.Stack()), 1)

	step(t, vm, 2)
	test.ExpectEquality(t, vm.PC, uint16(0x202))
	test.ExpectEquality(t, vm.V[0x1], uint8(0xbb))
	test.ExpectEquality(t, len(vm.Stack()), 0)

	step(t, vm, 1)
	test.ExpectEquality(t, vm.V[0x0], uint8(0xaa))
}

func TestStackFaults(t *testing.T) {
	// returning with an empty stack
	vm := create(t, quirks.Quirks{}, []byte{
		0x00, 0xee, // RET
	})
	err := vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, chip8.StackUnderflow), true)

	// a subroutine that calls itself overflows after StackDepth calls
	vm = create(t, quirks.Quirks{}, []byte{
		0x22, 0x00, // CALL $200
	})
	step(t, vm, chip8.StackDepth)
	err = vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, chip8.StackOverflow), true)
}

func TestUnknownPolicy(t *testing.T) {
	rom := []byte{
		0xf0, 0xff, // not an instruction
		0x60, 0x99, // LD V0, $99
	}

	vm := create(t, quirks.Quirks{}, rom)
	err := vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, chip8.UnknownOpcode), true)

	vm = create(t, quirks.Quirks{}, rom)
	vm.Unknown = chip8.UnknownSkip
	step(t, vm, 2)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x99))
}

func TestExit(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x00, 0xfd, // EXIT
	})
	err := vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, chip8.Exited), true)
}

func TestRandom(t *testing.T) {
	// the test context always returns $AB
	vm := create(t, quirks.Quirks{}, []byte{
		0xc0, 0x0f, // RND V0, $0F
	})
	step(t, vm, 1)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x0b))
}

func TestBCD(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0xfe, // LD V0, $FE
		0xa3, 0x00, // LD I, $300
		0xf0, 0x33, // LD B, V0
	})
	step(t, vm, 3)

	for i, want := range []uint8{2, 5, 4} {
		v, err := vm.Mem.Read(0x300 + i)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, v, want)
	}
}

func TestSaveLoadIncrementIndex(t *testing.T) {
	rom := []byte{
		0x60, 0x11, // LD V0, $11
		0x61, 0x22, // LD V1, $22
		0xa3, 0x00, // LD I, $300
		0xf1, 0x55, // LD [I], V1
	}

	vm := create(t, quirks.Quirks{IncrementIndex: true}, rom)
	step(t, vm, 4)
	test.ExpectEquality(t, vm.I, uint16(0x302))

	vm = create(t, quirks.Quirks{}, rom)
	step(t, vm, 4)
	test.ExpectEquality(t, vm.I, uint16(0x300))

	v, err := vm.Mem.Read(0x301)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x22))
}

func TestFontAddresses(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0x0a, // LD V0, $0A
		0xf0, 0x29, // LD F, V0
	})
	step(t, vm, 2)
	test.ExpectEquality(t, vm.I, vm.Mem.FontAddress(0x0a))

	// the first byte of the glyph for the digit A
	v, err := vm.Mem.Read(int(vm.I))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0xf0))
}

func TestTimers(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0x02, // LD V0, $02
		0xf0, 0x15, // LD DT, V0
		0xf0, 0x18, // LD ST, V0
		0xf1, 0x07, // LD V1, DT
	})
	step(t, vm, 3)
	test.ExpectEquality(t, vm.DelayTimer, uint8(0x02))
	test.ExpectEquality(t, vm.SoundTimer, uint8(0x02))
	test.ExpectEquality(t, vm.Audio.Playing(), true)

	step(t, vm, 1)
	test.ExpectEquality(t, vm.V[0x1], uint8(0x02))

	vm.TickTimers()
	vm.TickTimers()
	test.ExpectEquality(t, vm.DelayTimer, uint8(0x00))
	test.ExpectEquality(t, vm.SoundTimer, uint8(0x00))
	test.ExpectEquality(t, vm.Audio.Playing(), false)

	// timers do not wrap around
	vm.TickTimers()
	test.ExpectEquality(t, vm.DelayTimer, uint8(0x00))
}

func TestGetKey(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0xf5, 0x0a, // LD V5, K
		0x60, 0x01, // LD V0, $01
	})
	step(t, vm, 1)
	test.ExpectEquality(t, vm.State(), chip8.WaitingForKey)

	// stepping while waiting does nothing
	step(t, vm, 1)
	test.ExpectEquality(t, vm.PC, uint16(0x202))

	// a press on its own is not enough. the key must also be released
	vm.SetKey(0x7, true)
	step(t, vm, 1)
	test.ExpectEquality(t, vm.State(), chip8.WaitingForKey)

	vm.SetKey(0x7, false)
	step(t, vm, 1)
	test.ExpectEquality(t, vm.State(), chip8.Running)
	test.ExpectEquality(t, vm.V[0x5], uint8(0x07))

	step(t, vm, 1)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x01))
}

func TestKeySkips(t *testing.T) {
	rom := []byte{
		0x60, 0x04, // LD V0, $04
		0xe0, 0x9e, // SKP V0
		0x61, 0x01, // LD V1, $01
		0xe0, 0xa1, // SKNP V0
		0x62, 0x01, // LD V2, $01
	}

	vm := create(t, quirks.Quirks{}, rom)
	vm.SetKey(0x4, true)
	step(t, vm, 4)
	test.ExpectEquality(t, vm.V[0x1], uint8(0x00))
	test.ExpectEquality(t, vm.V[0x2], uint8(0x01))
}

func TestResetPreservesRPL(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0x42, // LD V0, $42
		0xf0, 0x75, // LD R, V0
	})
	step(t, vm, 2)
	test.ExpectEquality(t, vm.RPL[0x0], uint8(0x42))

	vm.Reset()
	test.ExpectEquality(t, vm.PC, uint16(memory.Origin))
	test.ExpectEquality(t, vm.V[0x0], uint8(0x00))
	test.ExpectEquality(t, vm.RPL[0x0], uint8(0x42))

	// the program is restored by the reset
	step(t, vm, 2)
	test.ExpectEquality(t, vm.V[0x0], uint8(0x42))
}

func TestFlagRegisterClamp(t *testing.T) {
	rom := []byte{
		0x68, 0x99, // LD V8, $99
		0xfa, 0x75, // LD R, VA
	}

	// without the extended quirk only the first eight registers are stored
	vm := create(t, quirks.Quirks{}, rom)
	step(t, vm, 2)
	test.ExpectEquality(t, vm.RPL[0x8], uint8(0x00))

	vm = create(t, quirks.Quirks{ExtendedFlagRegisters: true}, rom)
	step(t, vm, 2)
	test.ExpectEquality(t, vm.RPL[0x8], uint8(0x99))
}

func TestDataAccessAtMemoryTop(t *testing.T) {
	// a save that straddles the top of memory is a fault and nothing is
	// written, not even the bytes that would have been in range
	vm := create(t, quirks.Quirks{}, []byte{
		0x60, 0xaa, // LD V0, $AA
		0x61, 0xbb, // LD V1, $BB
		0xaf, 0xff, // LD I, $FFF
		0xf1, 0x55, // LD [I], V1
	})
	step(t, vm, 3)
	err := vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, memory.OutOfBounds), true)

	v, err := vm.Mem.Read(0xfff)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x00))

	// the bottom of memory still holds the font, not a wrapped write
	v, err = vm.Mem.Read(0x000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0xf0))

	// the load direction faults the same way and the registers are untouched
	vm = create(t, quirks.Quirks{}, []byte{
		0x60, 0xaa, // LD V0, $AA
		0x61, 0xbb, // LD V1, $BB
		0xaf, 0xff, // LD I, $FFF
		0xf1, 0x65, // LD V1, [I]
	})
	step(t, vm, 3)
	err = vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, memory.OutOfBounds), true)
	test.ExpectEquality(t, vm.V[0x0], uint8(0xaa))
	test.ExpectEquality(t, vm.V[0x1], uint8(0xbb))

	// BCD needs three bytes
	vm = create(t, quirks.Quirks{}, []byte{
		0xaf, 0xfe, // LD I, $FFE
		0xf0, 0x33, // LD B, V0
	})
	step(t, vm, 1)
	err = vm.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, errors.Is(err, memory.OutOfBounds), true)
}

func TestAddIndexOverflow(t *testing.T) {
	vm := create(t, quirks.Quirks{}, []byte{
		0xaf, 0xff, // LD I, $FFF
		0x60, 0x02, // LD V0, $02
		0xf0, 0x1e, // ADD I, V0
		0xa1, 0x00, // LD I, $100
		0xf0, 0x1e, // ADD I, V0
	})

	// leaving the address space wraps the index and sets the flag
	step(t, vm, 3)
	test.ExpectEquality(t, vm.I, uint16(0x001))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))

	// an in-range addition does not clear the flag
	step(t, vm, 2)
	test.ExpectEquality(t, vm.I, uint16(0x102))
	test.ExpectEquality(t, vm.V[0xf], uint8(0x01))
}

func TestRandomMemory(t *testing.T) {
	vm := chip8.Create(&testContext{v: 0xab}, quirks.Quirks{RandomMemory: true}, memory.Baseline)
	test.ExpectSuccess(t, vm.Load([]byte{0x12, 0x00}))

	peek := func(address int) uint8 {
		t.Helper()
		v, err := vm.Mem.Read(address)
		test.ExpectSuccess(t, err)
		return v
	}

	// the fonts and the program survive the randomisation
	test.ExpectEquality(t, peek(0x000), uint8(0xf0))
	test.ExpectEquality(t, peek(0x200), uint8(0x12))

	// everything else takes values from the random source
	test.ExpectEquality(t, peek(0x1ff), uint8(0xab))
	test.ExpectEquality(t, peek(0x202), uint8(0xab))
	test.ExpectEquality(t, peek(0xfff), uint8(0xab))
}
