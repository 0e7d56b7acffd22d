package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/testchip8/disassembly"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/logger"
)

// the quirk toggles addressable from the QUIRKS command
var quirkNames = map[string]func(*quirks.Quirks) *bool{
	"reset-flag":         func(q *quirks.Quirks) *bool { return &q.ResetFlag },
	"increment-index":    func(q *quirks.Quirks) *bool { return &q.IncrementIndex },
	"display-wait-lores": func(q *quirks.Quirks) *bool { return &q.DisplayWaitLores },
	"display-wait-hires": func(q *quirks.Quirks) *bool { return &q.DisplayWaitHires },
	"clip-lores":         func(q *quirks.Quirks) *bool { return &q.ClipSpritesLores },
	"clip-hires":         func(q *quirks.Quirks) *bool { return &q.ClipSpritesHires },
	"shift-x-only":       func(q *quirks.Quirks) *bool { return &q.ShiftXOnly },
	"jump-xnn":           func(q *quirks.Quirks) *bool { return &q.JumpXNN },
	"clear-on-res":       func(q *quirks.Quirks) *bool { return &q.ClearOnResolution },
	"count-lores":        func(q *quirks.Quirks) *bool { return &q.CollisionCountLores },
	"count-hires":        func(q *quirks.Quirks) *bool { return &q.CollisionCountHires },
	"planes":             func(q *quirks.Quirks) *bool { return &q.SeveralPlanes },
	"half-pixel-scroll":  func(q *quirks.Quirks) *bool { return &q.ScrollHalfPixel },
	"wide-skip":          func(q *quirks.Quirks) *bool { return &q.WideInstructionSkip },
	"extended-flags":     func(q *quirks.Quirks) *bool { return &q.ExtendedFlagRegisters },
	"random-memory":      func(q *quirks.Quirks) *bool { return &q.RandomMemory },
}

func (m *debugger) parseAddress(s string) (uint16, error) {
	if strings.HasPrefix(s, "$") {
		s = fmt.Sprintf("0x%s", s[1:])
	}
	a, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("not a valid address: %s", s)
	}
	if int(a) >= m.console.VM.Mem.Size() {
		return 0, fmt.Errorf("address is outside of memory: %s", s)
	}
	return uint16(a), nil
}

// command executes a single debugger command. the return value is true if the
// application should quit
func (m *debugger) command(cmd []string) bool {
	if len(cmd) == 0 {
		cmd = []string{"STEP"}
	}

	verb := strings.ToUpper(cmd[0])

	if m.stopRunning != nil && verb != "QUIT" {
		m.print(m.styles.debugger.Render("emulation is running. press esc to stop"))
		return false
	}

	switch verb {
	case "R", "RUN":
		m.run()

	case "ST", "STEP":
		frame := len(cmd) > 1 && strings.ToUpper(cmd[1]) == "FRAME"
		m.step(frame)

	case "RESET":
		m.reset()

	case "CPU":
		m.print(m.styles.cpu.Render(m.console.VM.String()))

	case "STACK":
		stack := m.console.VM.Stack()
		if len(stack) == 0 {
			m.print(m.styles.cpu.Render("stack is empty"))
			break // switch
		}
		s := strings.Builder{}
		for i, a := range stack {
			s.WriteString(fmt.Sprintf("%02d: %04x\n", i, a))
		}
		m.print(m.styles.cpu.Render(strings.TrimSuffix(s.String(), "\n")))

	case "DISPLAY":
		m.print(m.styles.display.Render(m.console.VM.Display.String()))

	case "TIMERS":
		vm := m.console.VM
		m.print(m.styles.cpu.Render(
			fmt.Sprintf("DT=%02x ST=%02x pitch=%02x (%s)", vm.DelayTimer, vm.SoundTimer, vm.Audio.Pitch(), vm.State()),
		))

	case "QUIRKS":
		switch len(cmd) {
		case 1:
			m.print(m.styles.debugger.Render(m.console.VM.Quirks.String()))
		case 3:
			name := strings.ToLower(cmd[1])
			f, ok := quirkNames[name]
			if !ok {
				m.print(m.styles.err.Render(
					fmt.Sprintf("unrecognised quirk: %s", cmd[1]),
				))
				break // switch
			}
			var v bool
			switch strings.ToUpper(cmd[2]) {
			case "ON", "TRUE":
				v = true
			case "OFF", "FALSE":
				v = false
			default:
				m.print(m.styles.err.Render(
					fmt.Sprintf("quirk value must be on or off: %s", cmd[2]),
				))
				return false
			}
			*f(&m.console.VM.Quirks) = v
			m.print(m.styles.debugger.Render(
				fmt.Sprintf("%s is now %v", name, v),
			))
		default:
			m.print(m.styles.err.Render("QUIRKS takes a quirk name and on/off"))
		}

	case "KEY":
		if len(cmd) < 2 {
			m.print(m.styles.err.Render("KEY requires a keypad key (0 to F)"))
			break // switch
		}
		k, err := strconv.ParseUint(cmd[1], 16, 8)
		if err != nil || k > 0x0f {
			m.print(m.styles.err.Render(
				fmt.Sprintf("not a keypad key: %s", cmd[1]),
			))
			break // switch
		}
		if len(cmd) > 2 {
			switch strings.ToUpper(cmd[2]) {
			case "DOWN":
				m.console.VM.SetKey(uint8(k), true)
			case "UP":
				m.console.VM.SetKey(uint8(k), false)
			default:
				m.print(m.styles.err.Render("KEY argument must be UP or DOWN"))
			}
			break // switch
		}
		// a bare KEY command is a press and a release, which is enough to
		// complete a get-key wait
		m.console.VM.SetKey(uint8(k), true)
		m.console.VM.SetKey(uint8(k), false)

	case "PEEK":
		if len(cmd) < 2 {
			m.print(m.styles.err.Render("PEEK requires an address"))
			break // switch
		}
		address, err := m.parseAddress(cmd[1])
		if err != nil {
			m.print(m.styles.err.Render(fmt.Sprintf("peek: %s", err.Error())))
			break // switch
		}
		data, err := m.console.VM.Mem.Read(int(address))
		if err != nil {
			m.print(m.styles.err.Render(fmt.Sprintf("peek: %s", err.Error())))
			break // switch
		}
		m.print(m.styles.mem.Render(
			fmt.Sprintf("$%04x = %02x", address, data),
		))

	case "DUMP":
		address := m.console.VM.PC
		if len(cmd) > 1 {
			var err error
			address, err = m.parseAddress(cmd[1])
			if err != nil {
				m.print(m.styles.err.Render(fmt.Sprintf("dump: %s", err.Error())))
				break // switch
			}
		}
		m.print(m.styles.mem.Render(m.console.VM.Mem.Page(int(address))))

	case "DISASM":
		address := m.console.VM.PC
		count := 8
		if len(cmd) > 1 {
			var err error
			address, err = m.parseAddress(cmd[1])
			if err != nil {
				m.print(m.styles.err.Render(fmt.Sprintf("disasm: %s", err.Error())))
				break // switch
			}
		}
		if len(cmd) > 2 {
			var err error
			count, err = strconv.Atoi(cmd[2])
			if err != nil || count < 1 {
				m.print(m.styles.err.Render(
					fmt.Sprintf("disasm: not a valid count: %s", cmd[2]),
				))
				break // switch
			}
		}
		for _, e := range disassembly.FromMemory(m.console.VM.Mem, address, count) {
			m.print(m.styles.instruction.Render(e.String()))
		}

	case "BREAK":
		if len(cmd) < 2 {
			m.print(m.styles.err.Render("BREAK requires an address"))
			break // switch
		}

		if strings.ToUpper(cmd[1]) == "DROP" {
			if len(cmd) < 3 {
				m.print(m.styles.err.Render("BREAK DROP requires an address"))
				break // switch
			}
			if strings.ToUpper(cmd[2]) == "ALL" {
				clear(m.breakpoints)
				break // switch
			}
			address, err := m.parseAddress(cmd[2])
			if err != nil {
				m.print(m.styles.err.Render(fmt.Sprintf("breakpoint: %s", err.Error())))
				break // switch
			}
			if _, ok := m.breakpoints[address]; !ok {
				m.print(m.styles.debugger.Render(
					fmt.Sprintf("breakpoint for $%04x not present", address),
				))
				break // switch
			}
			delete(m.breakpoints, address)
			m.print(m.styles.debugger.Render(
				fmt.Sprintf("breakpoint %04x has been removed", address),
			))
			break // switch
		}

		address, err := m.parseAddress(cmd[1])
		if err != nil {
			m.print(m.styles.err.Render(fmt.Sprintf("breakpoint: %s", err.Error())))
			break // switch
		}
		if _, ok := m.breakpoints[address]; ok {
			m.print(m.styles.debugger.Render(
				fmt.Sprintf("breakpoint on $%04x already present", address),
			))
			break // switch
		}
		m.breakpoints[address] = true
		m.print(m.styles.debugger.Render(
			fmt.Sprintf("added breakpoint for $%04x", address),
		))

	case "LIST":
		if len(m.breakpoints) == 0 {
			m.print(m.styles.debugger.Render("no breakpoints"))
			break // switch
		}
		for a := range m.breakpoints {
			m.print(m.styles.debugger.Render(fmt.Sprintf("%#04x", a)))
		}

	case "LOAD":
		if len(cmd) < 2 {
			m.print(m.styles.err.Render("LOAD requires a filename"))
			break // switch
		}
		m.loader = cmd[1]
		m.reset()

	case "LOG":
		s := strings.Builder{}
		logger.Tail(&s, 20)
		if s.Len() == 0 {
			m.print(m.styles.debugger.Render("log is empty"))
			break // switch
		}
		m.print(strings.TrimSuffix(s.String(), "\n"))

	case "QUIT":
		return true

	default:
		m.print(m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}
