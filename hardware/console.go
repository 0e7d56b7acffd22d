// Package hardware assembles the interpreter core and its peripherals into a
// console and runs it against the wall clock.
package hardware

import (
	"github.com/jetsetilly/testchip8/hardware/chip8"
	"github.com/jetsetilly/testchip8/hardware/clocks"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/ui"
)

type Console struct {
	VM *chip8.Chip8

	g   *ui.UI
	lim *limiter

	// the number of interpreter steps executed between timer ticks
	StepsPerFrame int
}

func Create(ctx chip8.Context, g *ui.UI, q quirks.Quirks, spec memory.Spec) *Console {
	con := &Console{
		VM:            chip8.Create(ctx, q, spec),
		g:             g,
		lim:           newLimiter(),
		StepsPerFrame: clocks.DefaultStepsPerFrame,
	}
	con.g.RegisterAudio <- con.VM.Audio
	return con
}

// Insert a program into the console. implies a reset
func (con *Console) Insert(rom []byte) error {
	return con.VM.Load(rom)
}

// Reset the console. the inserted program is retained
func (con *Console) Reset() {
	con.VM.Reset()
}

// Step the interpreter by one instruction, servicing any pending user input
// first
func (con *Console) Step() error {
	con.handleInput()
	return con.VM.Step()
}

// Frame runs the interpreter for one frame: StepsPerFrame instruction steps
// followed by a timer tick and a display update. the hook function is called
// after every instruction step
func (con *Console) Frame(hook func() error) error {
	for range con.StepsPerFrame {
		err := con.Step()
		if err != nil {
			return err
		}
		err = hook()
		if err != nil {
			return err
		}
	}
	con.VM.TickTimers()
	con.render()
	return nil
}

// Run the console at the display refresh rate until the stop channel yields
// or an error is returned by the interpreter or by the hook function
func (con *Console) Run(stop chan bool, hook func() error) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		err := con.Frame(hook)
		if err != nil {
			return err
		}

		con.lim.Wait()
	}
}

// render forwards the display to the GUI if it has changed since the last
// frame
func (con *Console) render() {
	if !con.VM.Display.Changed() {
		return
	}
	con.PushRender()
}

// PushRender forwards the display to the GUI unconditionally. the send never
// blocks; a dropped frame is replaced by a newer one soon enough
func (con *Console) PushRender() {
	select {
	case con.g.SetImage <- con.VM.Display.Image():
	default:
	}
}

// Nudge the frame limiter. useful when resuming from a pause so that the
// first frame is not delayed
func (con *Console) Nudge() {
	con.lim.Nudge()
}
