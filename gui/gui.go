// Package gui is the ebiten front-end for the emulation. It receives frames
// and the audio stream over the ui channels and forwards keypad input back to
// the console.
package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	input "github.com/quasilyte/ebitengine-input"

	"github.com/jetsetilly/testchip8/logger"
	"github.com/jetsetilly/testchip8/ui"
	"github.com/jetsetilly/testchip8/version"
)

type gui struct {
	started bool

	endGui chan bool
	u      *ui.UI

	image  *ebiten.Image
	width  int
	height int

	audio *audioPlayer

	inputHandler *input.Handler
	inputSystem  input.System
}

// the keypad actions share values with the ui package so that the conversion
// back to a ui.Input is a simple cast
const (
	ActionKey0  = input.Action(ui.Key0)
	ActionKey1  = input.Action(ui.Key1)
	ActionKey2  = input.Action(ui.Key2)
	ActionKey3  = input.Action(ui.Key3)
	ActionKey4  = input.Action(ui.Key4)
	ActionKey5  = input.Action(ui.Key5)
	ActionKey6  = input.Action(ui.Key6)
	ActionKey7  = input.Action(ui.Key7)
	ActionKey8  = input.Action(ui.Key8)
	ActionKey9  = input.Action(ui.Key9)
	ActionKeyA  = input.Action(ui.KeyA)
	ActionKeyB  = input.Action(ui.KeyB)
	ActionKeyC  = input.Action(ui.KeyC)
	ActionKeyD  = input.Action(ui.KeyD)
	ActionKeyE  = input.Action(ui.KeyE)
	ActionKeyF  = input.Action(ui.KeyF)
	ActionReset = input.Action(ui.Reset)
)

// the actions polled every frame by the input() function
var actions = []input.Action{
	ActionKey0, ActionKey1, ActionKey2, ActionKey3,
	ActionKey4, ActionKey5, ActionKey6, ActionKey7,
	ActionKey8, ActionKey9, ActionKeyA, ActionKeyB,
	ActionKeyC, ActionKeyD, ActionKeyE, ActionKeyF,
	ActionReset,
}

func (g *gui) initialise() {
	// the conventional mapping of the 4x4 hexadecimal keypad onto the left
	// hand side of a modern keyboard
	keymap := input.Keymap{
		ActionKey1: {input.Key1},
		ActionKey2: {input.Key2},
		ActionKey3: {input.Key3},
		ActionKeyC: {input.Key4},
		ActionKey4: {input.KeyQ},
		ActionKey5: {input.KeyW},
		ActionKey6: {input.KeyE},
		ActionKeyD: {input.KeyR},
		ActionKey7: {input.KeyA},
		ActionKey8: {input.KeyS},
		ActionKey9: {input.KeyD},
		ActionKeyE: {input.KeyF},
		ActionKeyA: {input.KeyZ},
		ActionKey0: {input.KeyX},
		ActionKeyB: {input.KeyC},
		ActionKeyF: {input.KeyV},

		ActionReset: {input.KeyF1},
	}
	g.inputHandler = g.inputSystem.NewHandler(uint8(0), keymap)
	g.started = true
}

func (g *gui) input() {
	g.inputSystem.Update()

	send := func(inp ui.Input) {
		select {
		case g.u.UserInput <- inp:
		default:
		}
	}

	for _, act := range actions {
		if g.inputHandler.ActionIsJustPressed(act) {
			send(ui.Input{Action: ui.Action(act)})
		}
		if g.inputHandler.ActionIsJustReleased(act) {
			send(ui.Input{Action: ui.Action(act), Release: true})
		}
	}
}

func (g *gui) Update() error {
	if !g.started {
		g.initialise()
	}

	g.input()

	if g.audio == nil {
		select {
		case r := <-g.u.RegisterAudio:
			var err error
			g.audio, err = createAudioPlayer(r)
			if err != nil {
				logger.Log(logger.Allow, "gui", err.Error())
			}
		default:
		}
	}

	select {
	case <-g.endGui:
		if g.audio != nil {
			g.audio.close()
		}
		return ebiten.Termination
	case img := <-g.u.SetImage:
		dim := img.Bounds()
		if g.image == nil || g.image.Bounds() != dim {
			g.width = dim.Dx()
			g.height = dim.Dy()
			g.image = ebiten.NewImage(g.width, g.height)
		}
		g.image.WritePixels(img.Pix)
	default:
	}
	return nil
}

// pixelScale is the size of a single high-resolution pixel on screen
const pixelScale = 8

func (g *gui) Draw(screen *ebiten.Image) {
	if g.image != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(pixelScale, pixelScale)
		screen.DrawImage(g.image, op)
	}
}

func (g *gui) Layout(width, height int) (int, int) {
	if g.image != nil {
		return g.width * pixelScale, g.height * pixelScale
	}
	return width, height
}

func Launch(endGui chan bool, u *ui.UI) error {
	ebiten.SetWindowTitle(version.Title())
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowPosition(10, 10)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	err := onWindowOpen()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}

	defer func() {
		err := onWindowClose()
		if err != nil {
			logger.Log(logger.Allow, "gui", err.Error())
		}
	}()

	g := &gui{
		endGui: endGui,
		u:      u,
	}

	g.inputSystem.Init(input.SystemConfig{
		DevicesEnabled: input.AnyDevice,
	})

	return ebiten.RunGame(g)
}
