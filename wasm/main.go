package main

import (
	"math/rand/v2"
	"os"

	"github.com/jetsetilly/testchip8/gui"
	"github.com/jetsetilly/testchip8/hardware"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/logger"
	"github.com/jetsetilly/testchip8/ui"
)

type Context struct {
	rand *rand.Rand
}

func (ctx *Context) Reset() {
	ctx.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (ctx *Context) Rand8Bit() uint8 {
	return uint8(ctx.rand.IntN(256))
}

// a small demonstration program for the browser build: draw the font glyph
// for a random digit at a random position, forever
var demo = []byte{
	0xc0, 0x3f, // RND V0, $3F
	0xc1, 0x1f, // RND V1, $1F
	0xc2, 0x0f, // RND V2, $0F
	0xf2, 0x29, // LD F, V2
	0xd0, 0x15, // DRW V0, V1, 5
	0x12, 0x00, // JP $200
}

func main() {
	// logger messages will be viewable in javascript log for WASM build
	logger.SetEcho(os.Stderr, false)

	u := ui.NewUI()

	ctx := Context{}
	ctx.Reset()

	con := hardware.Create(&ctx, u, quirks.Preset(quirks.Chip8), memory.Baseline)
	err := con.Insert(demo)
	if err != nil {
		logger.Log(logger.Allow, "wasm", err.Error())
		return
	}

	go func() {
		err := con.Run(make(chan bool), func() error { return nil })
		if err != nil {
			logger.Log(logger.Allow, "wasm", err.Error())
		}
	}()

	err = gui.Launch(make(chan bool, 1), u)
	if err != nil {
		logger.Log(logger.Allow, "wasm", err.Error())
	}
}
