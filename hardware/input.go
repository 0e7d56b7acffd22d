package hardware

import (
	"github.com/jetsetilly/testchip8/logger"
	"github.com/jetsetilly/testchip8/ui"
)

func (con *Console) handleInput() {
	var drained bool
	for !drained {
		select {
		default:
			drained = true
		case inp := <-con.g.UserInput:
			if key, ok := inp.KeyCode(); ok {
				con.VM.SetKey(key, !inp.Release)
				continue
			}
			switch inp.Action {
			case ui.Reset:
				if !inp.Release {
					logger.Log(logger.Allow, "console", "reset requested")
					con.VM.Reset()
				}
			}
		}
	}
}
