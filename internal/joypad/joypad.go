// Package joypad models the DMG's two 4-bit button nibbles multiplexed
// onto the JOYP register (0xFF00).
package joypad

import "github.com/gbcore/dmgcore/internal/interrupt"

// Button identifies one of the eight logical inputs.
type Button int

const (
	A Button = iota
	B
	Select
	Start
	Right
	Left
	Up
	Down
)

// Both nibbles are stored "1 = released", matching the original C++
// source (joypad.cpp) and spec.md §4.7's data model.
const (
	actionMask = 0x0F // A, B, Select, Start -> bits 0..3
	dpadMask   = 0x0F // Right, Left, Up, Down -> bits 0..3
)

type Joypad struct {
	action byte // bits 0..3: A,B,Select,Start; 1=released
	dpad   byte // bits 0..3: Right,Left,Up,Down; 1=released
	sel    byte // last-written bits 5..4 of JOYP

	req *interrupt.Controller
}

func New(req *interrupt.Controller) *Joypad {
	return &Joypad{action: actionMask, dpad: dpadMask, req: req}
}

// Press marks a button held down, raising the Joypad interrupt when the
// button was previously released.
func (j *Joypad) Press(b Button) {
	prevAction, prevDpad := j.action, j.dpad
	switch b {
	case A:
		j.action &^= 1 << 0
	case B:
		j.action &^= 1 << 1
	case Select:
		j.action &^= 1 << 2
	case Start:
		j.action &^= 1 << 3
	case Right:
		j.dpad &^= 1 << 0
	case Left:
		j.dpad &^= 1 << 1
	case Up:
		j.dpad &^= 1 << 2
	case Down:
		j.dpad &^= 1 << 3
	}
	if j.action != prevAction || j.dpad != prevDpad {
		j.req.Request(interrupt.Joypad)
	}
}

// Release marks a button up.
func (j *Joypad) Release(b Button) {
	switch b {
	case A:
		j.action |= 1 << 0
	case B:
		j.action |= 1 << 1
	case Select:
		j.action |= 1 << 2
	case Start:
		j.action |= 1 << 3
	case Right:
		j.dpad |= 1 << 0
	case Left:
		j.dpad |= 1 << 1
	case Up:
		j.dpad |= 1 << 2
	case Down:
		j.dpad |= 1 << 3
	}
}

// WriteJOYP stores the select nibble (bits 5..4); other bits are read-only.
func (j *Joypad) WriteJOYP(v byte) {
	j.sel = v & 0x30
}

// ReadJOYP computes the live register value: bits 7..6 read as 1, bits
// 5..4 reflect the last selection, bits 3..0 come from whichever nibble(s)
// are selected (both selected or neither selected reads 0xF).
func (j *Joypad) ReadJOYP() byte {
	dpadSelected := j.sel&0x10 == 0
	actionSelected := j.sel&0x20 == 0
	lowNibble := byte(0x0F)
	switch {
	case dpadSelected && !actionSelected:
		lowNibble = j.dpad
	case actionSelected && !dpadSelected:
		lowNibble = j.action
	}
	return 0xC0 | j.sel | lowNibble
}
