package hardware_test

import (
	"testing"

	"github.com/jetsetilly/testchip8/hardware"
	"github.com/jetsetilly/testchip8/hardware/clocks"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/test"
	"github.com/jetsetilly/testchip8/ui"
)

type testContext struct{}

func (c *testContext) Rand8Bit() uint8 {
	return 0x00
}

func TestFrame(t *testing.T) {
	u := ui.NewUI()
	con := hardware.Create(&testContext{}, u, quirks.Preset(quirks.SuperChipModern), memory.Baseline)
	test.ExpectEquality(t, con.StepsPerFrame, clocks.DefaultStepsPerFrame)

	// the console registers its audio stream on creation
	select {
	case <-u.RegisterAudio:
	default:
		t.Fatalf("audio stream was not registered")
	}

	test.ExpectSuccess(t, con.Insert([]byte{
		0x60, 0x05, // LD V0, $05
		0xf0, 0x15, // LD DT, V0
		0xa2, 0x0a, // LD I, $20A
		0xd1, 0x11, // DRW V1, V1, 1
		0x12, 0x08, // JP $208
		0x80, // sprite
	}))

	var hooked int
	hook := func() error {
		hooked++
		return nil
	}

	test.ExpectSuccess(t, con.Frame(hook))
	test.ExpectEquality(t, hooked, con.StepsPerFrame)

	// the timer ticked at the end of the frame
	test.ExpectEquality(t, con.VM.DelayTimer, uint8(0x04))

	// the frame contained a draw so an image was sent to the GUI
	select {
	case img := <-u.SetImage:
		test.ExpectEquality(t, img.Bounds().Dx(), 128)
	default:
		t.Fatalf("no image was sent to the GUI")
	}
}

func TestUserInput(t *testing.T) {
	u := ui.NewUI()
	con := hardware.Create(&testContext{}, u, quirks.Quirks{}, memory.Baseline)
	<-u.RegisterAudio

	test.ExpectSuccess(t, con.Insert([]byte{
		0xe5, 0x9e, // SKP V5 (V5 is zero, so key 0)
		0x12, 0x00, // JP $200
		0x60, 0x01, // LD V0, $01
	}))

	// pending input is serviced before the instruction executes
	u.UserInput <- ui.Input{Action: ui.Key0}
	test.ExpectSuccess(t, con.Step())
	test.ExpectEquality(t, con.VM.PC, uint16(0x204))

	test.ExpectSuccess(t, con.Step())
	test.ExpectEquality(t, con.VM.V[0x0], uint8(0x01))

	// a reset action resets the interpreter
	u.UserInput <- ui.Input{Action: ui.Reset}
	test.ExpectSuccess(t, con.Step())
	test.ExpectEquality(t, con.VM.V[0x0], uint8(0x00))
}
