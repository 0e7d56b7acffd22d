// Package disassembly converts CHIP-8 opcodes into readable assembly. The
// baseline instruction set is identified through the retrogolib opcode
// tables; the Super-Chip and XO-Chip extensions are handled locally.
package disassembly

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"

	"github.com/jetsetilly/testchip8/hardware/memory"
)

// Entry is a single disassembled instruction
type Entry struct {
	Address  uint16
	Opcode   uint16
	Mnemonic string
	Operands string

	// the long index instruction carries its operand in a second word
	Operand uint16
	Wide    bool
}

func (e Entry) String() string {
	s := strings.Builder{}
	if e.Wide {
		s.WriteString(fmt.Sprintf("%04x  %04x %04x  ", e.Address, e.Opcode, e.Operand))
	} else {
		s.WriteString(fmt.Sprintf("%04x  %04x       ", e.Address, e.Opcode))
	}
	s.WriteString(e.Mnemonic)
	if e.Operands != "" {
		s.WriteString(" ")
		s.WriteString(e.Operands)
	}
	return s.String()
}

// lookup the instruction in the retrogolib opcode table for the baseline
// instruction set
func lookup(opcode uint16) *chip8.Instruction {
	for _, op := range chip8.Opcodes[int(opcode>>12)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// Disassemble a single instruction. operand is the word following the opcode
// in memory and is only consumed by the long index instruction
func Disassemble(address uint16, opcode uint16, operand uint16) Entry {
	e := Entry{
		Address: address,
		Opcode:  opcode,
	}

	if m, o, wide := extended(opcode, operand); m != "" {
		e.Mnemonic = m
		e.Operands = o
		e.Wide = wide
		if wide {
			e.Operand = operand
		}
		return e
	}

	if instr := lookup(opcode); instr != nil {
		e.Mnemonic = strings.ToUpper(instr.Name)
		e.Operands = operands(opcode)
		return e
	}

	e.Mnemonic = "???"
	return e
}

// FromMemory disassembles count instructions starting at the address. the
// address of each subsequent entry accounts for the double-width long index
// instruction
func FromMemory(mem *memory.Memory, address uint16, count int) []Entry {
	entries := make([]Entry, 0, count)
	mask := mem.Mask()
	for range count {
		read := func(a uint16) uint16 {
			hi, _ := mem.Read(int(a & mask))
			lo, _ := mem.Read(int((a + 1) & mask))
			return uint16(hi)<<8 | uint16(lo)
		}
		e := Disassemble(address, read(address), read(address+2))
		entries = append(entries, e)
		address = (address + 2) & mask
		if e.Wide {
			address = (address + 2) & mask
		}
	}
	return entries
}

// the Super-Chip and XO-Chip instructions, which are outside the baseline
// opcode table
func extended(opcode uint16, operand uint16) (string, string, bool) {
	switch opcode {
	case 0xf000:
		return "LD", fmt.Sprintf("I, $%04X", operand), true
	case 0xf002:
		return "AUDIO", "", false
	case 0x00fb:
		return "SCR", "", false
	case 0x00fc:
		return "SCL", "", false
	case 0x00fd:
		return "EXIT", "", false
	case 0x00fe:
		return "LOW", "", false
	case 0x00ff:
		return "HIGH", "", false
	}

	x := (opcode >> 8) & 0x0f
	y := (opcode >> 4) & 0x0f
	n := opcode & 0x0f

	switch opcode & 0xfff0 {
	case 0x00b0:
		return "SCU", fmt.Sprintf("%d", n), false
	case 0x00c0:
		return "SCD", fmt.Sprintf("%d", n), false
	case 0x00d0:
		return "SCU", fmt.Sprintf("%d", n), false
	}

	switch opcode & 0xf00f {
	case 0x5002:
		return "SAVE", fmt.Sprintf("V%X, V%X", x, y), false
	case 0x5003:
		return "LOAD", fmt.Sprintf("V%X, V%X", x, y), false
	}

	switch opcode & 0xf0ff {
	case 0xf001:
		return "PLANE", fmt.Sprintf("%d", x), false
	case 0xf030:
		return "LD", fmt.Sprintf("HF, V%X", x), false
	case 0xf03a:
		return "PITCH", fmt.Sprintf("V%X", x), false
	case 0xf075:
		return "LD", fmt.Sprintf("R, V%X", x), false
	case 0xf085:
		return "LD", fmt.Sprintf("V%X, R", x), false
	}

	return "", "", false
}

// operand formatting for the baseline instruction set, in the conventional
// CHIP-8 assembly style
func operands(opcode uint16) string {
	x := (opcode >> 8) & 0x0f
	y := (opcode >> 4) & 0x0f
	n := opcode & 0x0f
	nn := opcode & 0xff
	nnn := opcode & 0x0fff

	switch opcode >> 12 {
	case 0x0:
		return ""
	case 0x1:
		return fmt.Sprintf("$%03X", nnn)
	case 0x2:
		return fmt.Sprintf("$%03X", nnn)
	case 0x3, 0x4:
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x6, 0x7:
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case 0x8:
		switch n {
		case 0x6, 0xe:
			return fmt.Sprintf("V%X {, V%X}", x, y)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xa:
		return fmt.Sprintf("I, $%03X", nnn)
	case 0xb:
		return fmt.Sprintf("V0, $%03X", nnn)
	case 0xc:
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case 0xd:
		return fmt.Sprintf("V%X, V%X, %d", x, y, n)
	case 0xe:
		return fmt.Sprintf("V%X", x)
	case 0xf:
		switch nn {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0a:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x1e:
			return fmt.Sprintf("I, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}
