// Package keypad implements the sixteen key hexadecimal keypad.
//
// As well as the instantaneous key state the package tracks the get-key wait.
// The original COSMAC VIP interpreter did not report a key until it had been
// both pressed and released, and many programs depend on that for debounce,
// so the wait completes on the release of the candidate key rather than on
// the press.
package keypad

import (
	"fmt"
	"strings"
)

// NumKeys on the hexadecimal keypad
const NumKeys = 16

type Keypad struct {
	keys [NumKeys]bool

	waiting   bool
	candidate int
	completed int
}

func Create() *Keypad {
	kyp := &Keypad{}
	kyp.Reset()
	return kyp
}

func (kyp *Keypad) Reset() {
	for i := range kyp.keys {
		kyp.keys[i] = false
	}
	kyp.waiting = false
	kyp.candidate = -1
	kyp.completed = -1
}

// Pressed returns the instantaneous state of the key
func (kyp *Keypad) Pressed(key uint8) bool {
	return kyp.keys[key&0x0f]
}

// Set the state of a key. key presses and releases feed the get-key wait if
// one is in progress
func (kyp *Keypad) Set(key uint8, pressed bool) {
	key &= 0x0f
	kyp.keys[key] = pressed

	if !kyp.waiting {
		return
	}

	if pressed {
		kyp.candidate = int(key)
	} else if kyp.candidate == int(key) {
		kyp.completed = int(key)
		kyp.candidate = -1
		kyp.waiting = false
	}
}

// BeginWait starts a get-key wait. any key that is pressed and then released
// while the wait is in progress completes it
func (kyp *Keypad) BeginWait() {
	kyp.waiting = true
	kyp.candidate = -1
	kyp.completed = -1
}

// Waiting returns true while a get-key wait is in progress
func (kyp *Keypad) Waiting() bool {
	return kyp.waiting
}

// CompleteWait returns the key that finished the get-key wait. the second
// return value is false while the wait is still in progress
func (kyp *Keypad) CompleteWait() (uint8, bool) {
	if kyp.completed < 0 {
		return 0, false
	}
	key := uint8(kyp.completed)
	kyp.completed = -1
	return key, true
}

func (kyp *Keypad) String() string {
	s := strings.Builder{}
	for i, p := range kyp.keys {
		if p {
			s.WriteString(fmt.Sprintf("%X ", i))
		}
	}
	if s.Len() == 0 {
		return "no keys pressed"
	}
	return strings.TrimSpace(s.String())
}
