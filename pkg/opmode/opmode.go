package opmode

// OpMode is one user-defined control routine. Init, Loop and Stop must be
// implemented; embed Base to get no-op InitLoop and Start.
type OpMode interface {
	// Init runs once when the session is initialised.
	Init(c *Context) error

	// InitLoop runs every cycle between Init and Start.
	InitLoop(c *Context) error

	// Start runs once when the session enters Running.
	Start(c *Context) error

	// Loop runs every cycle while Running.
	Loop(c *Context) error

	// Stop runs once when a Running session ends, however it ends.
	Stop(c *Context) error
}

// Base supplies the optional hooks. Embed it in op mode types.
type Base struct{}

// InitLoop does nothing.
func (Base) InitLoop(*Context) error { return nil }

// Start does nothing.
func (Base) Start(*Context) error { return nil }

// Hook identifies a lifecycle hook.
type Hook int

const (
	HookInit Hook = iota
	HookInitLoop
	HookStart
	HookLoop
	HookStop
)

// String returns the hook name.
func (h Hook) String() string {
	switch h {
	case HookInit:
		return "init"
	case HookInitLoop:
		return "init_loop"
	case HookStart:
		return "start"
	case HookLoop:
		return "loop"
	case HookStop:
		return "stop"
	default:
		return "unknown"
	}
}
