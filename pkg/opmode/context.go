package opmode

import (
	"time"

	"github.com/bft-labs/robocore/pkg/log"
)

// Context is lent to every hook of one session. The scheduler owns it and
// refreshes the gamepads between hooks; hooks read it without locking.
type Context struct {
	// Gamepad1 and Gamepad2 are the input snapshots for the current hook.
	Gamepad1 Gamepad
	Gamepad2 Gamepad

	// Hardware looks up configured devices by name.
	Hardware HardwareMap

	// Telemetry collects display lines. The controller only flushes it.
	Telemetry Telemetry

	// Time is the number of seconds since the session entered Running.
	Time float64

	// Logger is available to op mode code. NewController fills it in when nil.
	Logger log.Logger
}

// SetGamepads copies fresh snapshots from src into the context.
func (c *Context) SetGamepads(src InputSource) {
	if src == nil {
		return
	}
	c.Gamepad1, c.Gamepad2 = src.Gamepads()
}

// Clock supplies the current time to a controller.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
