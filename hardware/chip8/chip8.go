// Package chip8 implements the CHIP-8 interpreter core. The core executes
// the baseline COSMAC VIP instruction set together with the Super-Chip and
// XO-Chip extensions, with all points of divergence between the dialects
// controlled by the quirks type.
package chip8

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jetsetilly/testchip8/hardware/audio"
	"github.com/jetsetilly/testchip8/hardware/display"
	"github.com/jetsetilly/testchip8/hardware/keypad"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
)

// Context is used to supply the interpreter with the facilities of the wider
// emulation
type Context interface {
	// Rand8Bit returns the next byte from the random number source. the
	// debugger seeds the source explicitly so that a session can be replayed
	Rand8Bit() uint8
}

// StackDepth is the number of subroutine calls that can be in flight
const StackDepth = 16

// NumRegisters in the V register file
const NumRegisters = 16

// sentinel errors returned by the Step() function. compare with errors.Is()
var (
	UnknownOpcode  = errors.New("unknown opcode")
	StackOverflow  = errors.New("stack overflow")
	StackUnderflow = errors.New("stack underflow")

	// Exited is returned when the program executes the exit opcode. it
	// indicates a clean end to the program rather than a fault
	Exited = errors.New("program exited")
)

// UnknownPolicy decides what happens when the interpreter fetches an opcode
// it cannot decode
type UnknownPolicy int

const (
	// UnknownHalt stops the interpreter with the UnknownOpcode error
	UnknownHalt UnknownPolicy = iota

	// UnknownSkip logs the opcode and continues with the next instruction
	UnknownSkip
)

// RunState describes what the interpreter will do on the next call to Step()
type RunState int

const (
	// Running normally. the next Step() fetches and executes an instruction
	Running RunState = iota

	// WaitingForKey for the get-key opcode. Step() does nothing until a key
	// has been pressed and released
	WaitingForKey

	// WaitFrame after a draw with the display-wait quirk in effect. Step()
	// does nothing until the next timer tick
	WaitFrame
)

func (s RunState) String() string {
	switch s {
	case WaitingForKey:
		return "waiting for key"
	case WaitFrame:
		return "waiting for frame"
	}
	return "running"
}

type Chip8 struct {
	ctx Context

	Mem     *memory.Memory
	Display *display.Display
	Keypad  *keypad.Keypad
	Audio   *audio.Audio

	Quirks quirks.Quirks

	// policy for opcodes that cannot be decoded
	Unknown UnknownPolicy

	V  [NumRegisters]uint8
	I  uint16
	PC uint16

	DelayTimer uint8
	SoundTimer uint8

	// the flag registers survive a reset, mirroring the RPL user flags of
	// the HP48 calculator the Super-Chip ran on
	RPL [NumRegisters]uint8

	sp    int
	stack [StackDepth]uint16

	state RunState

	// destination register for the get-key opcode
	waitReg int

	// address and value of the most recently fetched opcode
	LastPC     uint16
	LastOpcode uint16

	// the rom most recently attached with Load(). retained so that Reset()
	// can restore memory
	rom []byte
}

// Create a new interpreter core. the quirk set can be changed at any time
// through the Quirks field
func Create(ctx Context, q quirks.Quirks, spec memory.Spec) *Chip8 {
	vm := &Chip8{
		ctx:     ctx,
		Mem:     memory.Create(spec),
		Display: display.Create(),
		Keypad:  keypad.Create(),
		Audio:   audio.Create(),
		Quirks:  q,
	}
	vm.Reset()
	return vm
}

// Load a program into the interpreter. implies a reset
func (vm *Chip8) Load(rom []byte) error {
	err := vm.Mem.Load(rom)
	if err != nil {
		return err
	}
	vm.rom = rom
	vm.reset()
	return nil
}

// Reset the interpreter and restore memory to the most recently loaded
// program. the RPL flag registers are preserved
func (vm *Chip8) Reset() {
	if vm.rom != nil {
		// length already validated on the original Load()
		_ = vm.Mem.Load(vm.rom)
	} else {
		vm.Mem.Clear()
	}
	vm.reset()
}

func (vm *Chip8) reset() {
	if vm.Quirks.RandomMemory {
		vm.Mem.Randomize(vm.ctx.Rand8Bit, len(vm.rom))
	}
	for i := range vm.V {
		vm.V[i] = 0
	}
	vm.I = 0
	vm.PC = memory.Origin
	vm.sp = 0
	vm.DelayTimer = 0
	vm.SoundTimer = 0
	vm.state = Running
	vm.waitReg = 0
	vm.LastPC = memory.Origin
	vm.LastOpcode = 0
	vm.Display.Reset()
	vm.Keypad.Reset()
	vm.Audio.Reset()
}

// State the interpreter is currently in
func (vm *Chip8) State() RunState {
	return vm.state
}

// SetKey forwards a key press or release to the keypad, completing a get-key
// wait if one is in progress
func (vm *Chip8) SetKey(key uint8, pressed bool) {
	vm.Keypad.Set(key, pressed)
}

// TickTimers advances the delay and sound timers by one frame. it also
// releases the interpreter from a display-wait stall. call at the display
// refresh rate
func (vm *Chip8) TickTimers() {
	if vm.DelayTimer > 0 {
		vm.DelayTimer--
	}
	if vm.SoundTimer > 0 {
		vm.SoundTimer--
	}
	vm.Audio.SetPlaying(vm.SoundTimer > 0)
	if vm.state == WaitFrame {
		vm.state = Running
	}
}

// push a return address onto the call stack
func (vm *Chip8) push(address uint16) error {
	if vm.sp >= StackDepth {
		return fmt.Errorf("chip8: %w", StackOverflow)
	}
	vm.stack[vm.sp] = address
	vm.sp++
	return nil
}

// pop a return address from the call stack
func (vm *Chip8) pop() (uint16, error) {
	if vm.sp <= 0 {
		return 0, fmt.Errorf("chip8: %w", StackUnderflow)
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// Stack returns a copy of the in-flight portion of the call stack. the most
// recent entry is last
func (vm *Chip8) Stack() []uint16 {
	s := make([]uint16, vm.sp)
	copy(s, vm.stack[:vm.sp])
	return s
}

// String returns the register file in the style of the terminal debugger
func (vm *Chip8) String() string {
	s := strings.Builder{}
	for i, v := range vm.V {
		s.WriteString(fmt.Sprintf("V%X=%02x ", i, v))
		if i == 7 {
			s.WriteString("\n")
		}
	}
	s.WriteString(fmt.Sprintf("\nI=%04x PC=%04x SP=%d DT=%02x ST=%02x\n", vm.I, vm.PC, vm.sp, vm.DelayTimer, vm.SoundTimer))
	s.WriteString(vm.state.String())
	return s.String()
}
