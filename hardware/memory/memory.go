// Package memory implements the addressable storage of the CHIP-8 machine.
// The reserved low region is preloaded with the font sprites; programs are
// loaded at the fixed origin address. All access is bounds-checked against
// the configured size.
package memory

import (
	"errors"
	"fmt"
	"strings"
)

// Origin is the address at which a loaded program begins execution
const Origin = 0x200

// sentinel errors returned by the memory package. compare with errors.Is()
var OutOfBounds = errors.New("out of bounds access")
var InvalidROMLength = errors.New("invalid ROM length")

// Spec selects the size of the addressable space
type Spec int

const (
	// Baseline is the 4KiB memory of the original COSMAC VIP interpreter
	Baseline Spec = iota

	// Extended is the 64KiB memory addressable through the XO-Chip long
	// index opcode
	Extended
)

func (s Spec) String() string {
	if s == Extended {
		return "64k"
	}
	return "4k"
}

// Size of the addressable space in bytes
func (s Spec) Size() int {
	if s == Extended {
		return 0x10000
	}
	return 0x1000
}

// the backing interface abstracts how the byte container is stored. the
// fixed implementation places the baseline 4KiB in the Memory value itself,
// which suits targets where allocation is unwelcome; the allocated
// implementation sizes a slice to the configured spec
type backing interface {
	read(idx int) uint8
	write(idx int, data uint8)
	size() int
}

type fixed struct {
	data [0x1000]uint8
}

func (b *fixed) read(idx int) uint8 {
	return b.data[idx]
}

func (b *fixed) write(idx int, data uint8) {
	b.data[idx] = data
}

func (b *fixed) size() int {
	return len(b.data)
}

type allocated struct {
	data []uint8
}

func (b *allocated) read(idx int) uint8 {
	return b.data[idx]
}

func (b *allocated) write(idx int, data uint8) {
	b.data[idx] = data
}

func (b *allocated) size() int {
	return len(b.data)
}

type Memory struct {
	spec Spec
	data backing
}

// Create memory of the size indicated by spec, zeroed except for the font
// sprites in the reserved low region
func Create(spec Spec) *Memory {
	mem := &Memory{
		spec: spec,
	}
	switch spec {
	case Extended:
		mem.data = &allocated{data: make([]uint8, spec.Size())}
	default:
		mem.data = &fixed{}
	}
	mem.Clear()
	return mem
}

// Clear zeroes the entire memory and restores the font sprites
func (m *Memory) Clear() {
	for i := 0; i < m.data.size(); i++ {
		m.data.write(i, 0)
	}
	for i, b := range fontData {
		m.data.write(fontAddress+i, b)
	}
	for i, b := range fontHighData {
		m.data.write(fontHighAddress+i, b)
	}
}

// Spec the memory was created with
func (m *Memory) Spec() Spec {
	return m.spec
}

// Size of the addressable space in bytes
func (m *Memory) Size() int {
	return m.data.size()
}

// Mask for reducing an address to the addressable space. used for program
// counter arithmetic; data access goes through Read()/Write() instead
func (m *Memory) Mask() uint16 {
	return uint16(m.data.size() - 1)
}

// Read the byte at the address. addresses outside the configured size return
// the OutOfBounds error
func (m *Memory) Read(address int) (uint8, error) {
	if address < 0 || address >= m.data.size() {
		return 0, fmt.Errorf("memory: %w: %04x", OutOfBounds, address)
	}
	return m.data.read(address), nil
}

// Write the byte at the address. addresses outside the configured size return
// the OutOfBounds error
func (m *Memory) Write(address int, data uint8) error {
	if address < 0 || address >= m.data.size() {
		return fmt.Errorf("memory: %w: %04x", OutOfBounds, address)
	}
	m.data.write(address, data)
	return nil
}

// Load a program into memory at the origin address, replacing any previous
// program. a ROM that does not fit between the origin and the top of memory
// is rejected with the InvalidROMLength error
func (m *Memory) Load(rom []byte) error {
	if len(rom) > m.data.size()-Origin {
		return fmt.Errorf("memory: %w: %d bytes", InvalidROMLength, len(rom))
	}
	m.Clear()
	for i, b := range rom {
		m.data.write(Origin+i, b)
	}
	return nil
}

// Randomize fills memory outside of the font region and the loaded program
// with bytes from the rnd function. the Super-Chip 1.1 interpreter left the
// contents of uninitialised RAM to chance and some programs use that as an
// entropy source
func (m *Memory) Randomize(rnd func() uint8, romLength int) {
	reserved := fontHighAddress + len(fontHighData)
	for i := reserved; i < Origin; i++ {
		m.data.write(i, rnd())
	}
	for i := Origin + romLength; i < m.data.size(); i++ {
		m.data.write(i, rnd())
	}
}

// FontAddress returns the address of the 5-byte font sprite for the low
// nibble of the digit
func (m *Memory) FontAddress(digit uint8) uint16 {
	return uint16(fontAddress + fontStep*int(digit&0x0f))
}

// FontHighAddress returns the address of the 10-byte high-resolution font
// sprite for the low nibble of the digit
func (m *Memory) FontHighAddress(digit uint8) uint16 {
	return uint16(fontHighAddress + fontHighStep*int(digit&0x0f))
}

// Page returns a hex dump of the 256-byte page containing the address
func (m *Memory) Page(address int) string {
	page := (address & (m.data.size() - 1)) &^ 0xff
	s := strings.Builder{}
	for i := 0; i < 0x100; i += 16 {
		b := make([]uint8, 16)
		for j := range b {
			b[j] = m.data.read(page + i + j)
		}
		s.WriteString(fmt.Sprintf("%04x : % 02x\n", page+i, b))
	}
	return strings.TrimSuffix(s.String(), "\n")
}
