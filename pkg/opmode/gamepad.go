package opmode

import "time"

// Gamepad is one snapshot of a driver controller.
type Gamepad struct {
	ID        int
	Timestamp time.Time

	// Sticks range over [-1, 1]; triggers over [0, 1].
	LeftStickX   float32
	LeftStickY   float32
	RightStickX  float32
	RightStickY  float32
	LeftTrigger  float32
	RightTrigger float32

	DpadUp    bool
	DpadDown  bool
	DpadLeft  bool
	DpadRight bool

	A bool
	B bool
	X bool
	Y bool

	LeftBumper       bool
	RightBumper      bool
	LeftStickButton  bool
	RightStickButton bool

	Start bool
	Back  bool
	Guide bool
}

// AtRest reports whether every stick and trigger is centred.
func (g Gamepad) AtRest() bool {
	return g.LeftStickX == 0 && g.LeftStickY == 0 &&
		g.RightStickX == 0 && g.RightStickY == 0 &&
		g.LeftTrigger == 0 && g.RightTrigger == 0
}

// InputSource supplies the two gamepad snapshots.
type InputSource interface {
	Gamepads() (Gamepad, Gamepad)
}

// StaticInput always reports the same snapshots.
type StaticInput struct {
	Pads [2]Gamepad
}

// Gamepads returns the stored snapshots.
func (s StaticInput) Gamepads() (Gamepad, Gamepad) {
	return s.Pads[0], s.Pads[1]
}
