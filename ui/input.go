package ui

type Action int

type Input struct {
	Action  Action
	Release bool
}

// the sixteen actions from Key0 to KeyF correspond to the hexadecimal keypad
// of the CHIP-8 machine
const (
	Nothing Action = iota
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	Reset
)

// KeyCode returns the keypad code for the action and true if the action is
// one of the sixteen keypad actions
func (i Input) KeyCode() (uint8, bool) {
	if i.Action >= Key0 && i.Action <= KeyF {
		return uint8(i.Action - Key0), true
	}
	return 0, false
}
