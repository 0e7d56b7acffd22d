package debugger

import (
	"math/rand/v2"
)

// context implements the chip8.Context interface
type context struct {
	// a non-zero seed gives a reproducible sequence from the random number
	// source. useful when replaying a session that went wrong
	seed uint64

	rand *rand.Rand
}

func (ctx *context) Reset() {
	if ctx.seed != 0 {
		ctx.rand = rand.New(rand.NewPCG(ctx.seed, ctx.seed))
	} else {
		ctx.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

func (ctx *context) Rand8Bit() uint8 {
	return uint8(ctx.rand.IntN(256))
}
