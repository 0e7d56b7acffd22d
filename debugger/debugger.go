// Package debugger is the terminal front-end for the emulation. It owns the
// console and runs it in response to commands typed at the prompt.
package debugger

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jetsetilly/testchip8/disassembly"
	"github.com/jetsetilly/testchip8/hardware"
	"github.com/jetsetilly/testchip8/hardware/chip8"
	"github.com/jetsetilly/testchip8/hardware/memory"
	"github.com/jetsetilly/testchip8/hardware/quirks"
	"github.com/jetsetilly/testchip8/ui"
	"github.com/jetsetilly/testchip8/version"
)

type debugger struct {
	ctx context

	console  *hardware.Console
	viewport viewport.Model
	input    textinput.Model
	output   []string
	styles   styles

	breakpoints map[uint16]bool

	// the file to load on console reset
	loader string

	// if stopRunning is nil then the console is already stopped
	stopRunning chan bool
}

func (m *debugger) print(s string) {
	m.output = append(m.output, s)
}

func (m *debugger) Init() tea.Cmd {
	m.input = textinput.New()
	m.input.Placeholder = ""
	m.input.Focus()
	m.input.CharLimit = 256
	m.input.Width = 50

	m.print(m.styles.debugger.Render(version.Title()))

	return nil
}

func (m *debugger) reset() {
	m.ctx.Reset()

	if m.loader != "" {
		d, err := os.ReadFile(m.loader)
		if err != nil {
			m.print(m.styles.err.Render(
				fmt.Sprintf("error loading %s: %s", m.loader, err.Error()),
			))
			m.loader = ""
		} else {
			err = m.console.Insert(d)
			if err != nil {
				m.print(m.styles.err.Render(err.Error()))
				m.loader = ""
			} else {
				m.print(m.styles.debugger.Render(
					fmt.Sprintf("%s: %d bytes at %04x", m.loader, len(d), memory.Origin),
				))
			}
		}
	} else {
		m.console.Reset()
	}

	m.print(m.styles.debugger.Render("console reset"))
	m.console.PushRender()
}

// last prints the most recently executed instruction
func (m *debugger) last() {
	vm := m.console.VM
	e := disassembly.Disassemble(vm.LastPC, vm.LastOpcode, 0)
	if e.Wide {
		e = disassembly.FromMemory(vm.Mem, vm.LastPC, 1)[0]
	}
	m.print(m.styles.instruction.Render(e.String()))
}

// step advances the emulation by one instruction, or by one whole frame
func (m *debugger) step(frame bool) {
	var err error
	if frame {
		err = m.console.Frame(func() error { return nil })
	} else {
		err = m.console.Step()
		m.console.PushRender()
	}

	if err != nil {
		m.print(m.styles.err.Render(err.Error()))
		return
	}

	m.last()
	m.print(m.styles.cpu.Render(m.console.VM.String()))
}

func (m *debugger) run() {
	m.stopRunning = make(chan bool)

	go func() {
		var breakpoint = errors.New("breakpoint")

		hook := func() error {
			pc := m.console.VM.PC
			if m.breakpoints[pc] {
				return fmt.Errorf("%w: %04x", breakpoint, pc)
			}
			return nil
		}

		m.console.Nudge()
		err := m.console.Run(m.stopRunning, hook)

		switch {
		case err == nil:
			// stopped at the prompt. nothing to print
		case errors.Is(err, breakpoint):
			m.print(m.styles.breakpoint.Render(err.Error()))
			m.print(m.styles.cpu.Render(m.console.VM.String()))
		case errors.Is(err, chip8.Exited):
			m.print(m.styles.debugger.Render("program exited"))
		default:
			m.print(m.styles.err.Render(err.Error()))
			m.print(m.styles.cpu.Render(m.console.VM.String()))
		}

		m.console.PushRender()

		close(m.stopRunning)
		m.stopRunning = nil
	}()

	m.print(m.styles.debugger.Render("emulation running"))
}

func (m *debugger) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 1

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			// stop any running emulation OR quit the application
			if m.stopRunning != nil {
				m.stopRunning <- true
				m.print(m.styles.debugger.Render("emulation stopped"))
				m.print(m.styles.cpu.Render(m.console.VM.String()))
			} else {
				return m, tea.Quit
			}
		case "enter":
			s := strings.TrimSpace(m.input.Value())
			if quit := m.command(strings.Fields(s)); quit {
				return m, tea.Quit
			}
			m.input.SetValue("")
		}
	}

	// always update viewport and scroll to bottom. this isn't optimal and means
	// we can't scroll the viewport up but this is the best I can do for now
	m.viewport.SetContent(strings.Join(m.output, "\n"))
	m.viewport.GotoBottom()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *debugger) View() string {
	return fmt.Sprintf("%s\n%s",
		m.viewport.View(),
		m.input.View(),
	)
}

func Launch(endDebugger chan bool, u *ui.UI, args []string) error {
	var dialect string
	var speed int
	var seed uint64
	var memSpec string
	var unknown string

	flgs := flag.NewFlagSet(version.ApplicationName, flag.ExitOnError)
	flgs.StringVar(&dialect, "dialect", "chip8", "dialect to emulate: chip8, schip, schip-modern or xochip")
	flgs.IntVar(&speed, "speed", 0, "interpreter steps per frame (0 means the dialect default)")
	flgs.Uint64Var(&seed, "seed", 0, "seed for the random number source (0 means random)")
	flgs.StringVar(&memSpec, "memory", "auto", "addressable memory: 4k, 64k or auto")
	flgs.StringVar(&unknown, "unknown", "halt", "unknown opcode policy: halt or skip")
	err := flgs.Parse(args)
	if err != nil {
		return err
	}
	args = flgs.Args()

	var loader string
	if len(args) == 1 {
		loader = args[0]
	} else if len(args) > 1 {
		return fmt.Errorf("too many arguments to debugger")
	}

	d, err := quirks.ParseDialect(dialect)
	if err != nil {
		return err
	}

	spec := memory.Baseline
	switch strings.ToLower(memSpec) {
	case "4k":
		// baseline
	case "64k":
		spec = memory.Extended
	case "auto":
		if d == quirks.XOChip {
			spec = memory.Extended
		}
	default:
		return fmt.Errorf("unrecognised memory size: %s", memSpec)
	}

	m := &debugger{
		ctx:         context{seed: seed},
		styles:      newStyles(),
		breakpoints: make(map[uint16]bool),
		loader:      loader,
	}
	m.ctx.Reset()
	m.console = hardware.Create(&m.ctx, u, quirks.Preset(d), spec)

	switch strings.ToLower(unknown) {
	case "halt":
		m.console.VM.Unknown = chip8.UnknownHalt
	case "skip":
		m.console.VM.Unknown = chip8.UnknownSkip
	default:
		return fmt.Errorf("unrecognised unknown opcode policy: %s", unknown)
	}

	if speed > 0 {
		m.console.StepsPerFrame = speed
	}

	m.reset()

	p := tea.NewProgram(m)

	go func() {
		<-endDebugger
		p.Quit()
	}()

	_, err = p.Run()
	return err
}
