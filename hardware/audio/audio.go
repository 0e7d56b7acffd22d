// Package audio implements the one channel beeper of the CHIP-8 machine. On
// the XO-Chip the channel plays a 128 bit pattern at a programmable pitch;
// the classic dialects get the same machinery with the pattern fixed at the
// reset default, which produces the familiar 500Hz buzz.
//
// The Audio type implements the io.Reader interface, producing a stream of
// signed 16bit little-endian mono samples. The stream is read concurrently by
// the host sound system so the register functions and the Read function are
// mutex protected.
package audio

import (
	"math"
	"sync"
)

// SampleRate of the sample stream produced by the Read function
const SampleRate = 48000

// PatternLength is the size of the sample pattern in bytes
const PatternLength = 16

// DefaultPitch is the pitch register value at reset. playback at the default
// pitch steps through the pattern at 4000 bits per second
const DefaultPitch = 64

const amplitude = 0x2000

type Audio struct {
	crit sync.Mutex

	pattern [PatternLength]uint8
	pitch   uint8
	playing bool

	// playback position in the pattern, in fractional bits
	phase float64
}

func Create() *Audio {
	aud := &Audio{}
	aud.Reset()
	return aud
}

func (aud *Audio) Reset() {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	// a 11110000 bit pattern. one cycle every eight bits gives 500Hz at the
	// default pitch
	for i := range aud.pattern {
		aud.pattern[i] = 0xf0
	}
	aud.pitch = DefaultPitch
	aud.playing = false
	aud.phase = 0
}

// SetPattern loads the sixteen byte sample pattern
func (aud *Audio) SetPattern(pattern [PatternLength]uint8) {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	aud.pattern = pattern
}

// Pattern returns a copy of the sample pattern
func (aud *Audio) Pattern() [PatternLength]uint8 {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	return aud.pattern
}

// SetPitch sets the playback rate of the sample pattern
func (aud *Audio) SetPitch(pitch uint8) {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	aud.pitch = pitch
}

// Pitch returns the current value of the pitch register
func (aud *Audio) Pitch() uint8 {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	return aud.pitch
}

// SetPlaying starts or stops playback. called as the sound timer moves
// between zero and non-zero
func (aud *Audio) SetPlaying(playing bool) {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	if !aud.playing && playing {
		aud.phase = 0
	}
	aud.playing = playing
}

// Playing returns true while the sound timer is keeping the channel open
func (aud *Audio) Playing() bool {
	aud.crit.Lock()
	defer aud.crit.Unlock()
	return aud.playing
}

// bitRate returns the playback rate in pattern bits per second
func (aud *Audio) bitRate() float64 {
	return 4000 * math.Exp2((float64(aud.pitch)-64)/48)
}

// Read implements the io.Reader interface. the buffer is filled with signed
// 16bit little-endian mono samples. Read never returns an error and never
// returns fewer bytes than requested, producing silence when the channel is
// closed
func (aud *Audio) Read(p []byte) (int, error) {
	aud.crit.Lock()
	defer aud.crit.Unlock()

	step := aud.bitRate() / SampleRate

	for i := 0; i+1 < len(p); i += 2 {
		var v int16
		if aud.playing {
			bit := int(aud.phase) % (PatternLength * 8)
			if aud.pattern[bit>>3]&(0x80>>(bit&0x07)) != 0 {
				v = amplitude
			} else {
				v = -amplitude
			}
			aud.phase += step
			if aud.phase >= PatternLength*8 {
				aud.phase -= PatternLength * 8
			}
		}
		p[i] = byte(v)
		p[i+1] = byte(v >> 8)
	}

	return len(p) &^ 0x01, nil
}
