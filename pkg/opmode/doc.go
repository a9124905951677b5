// Package opmode runs user-authored robot control logic through a fixed
// lifecycle.
//
// An op mode is one control routine implementing OpMode. A host scheduler
// owns a Controller per session and drives it once per control cycle:
//
//	c, err := opmode.NewController(mode, octx, opmode.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := c.Init(); err != nil {
//	    return err // session aborted, Stop was not called
//	}
//	for !started() {
//	    if err := c.InitLoop(); err != nil {
//	        return err
//	    }
//	}
//	if err := c.Start(); err != nil {
//	    return err
//	}
//	for running() {
//	    if err := c.Loop(); err != nil {
//	        return err // Stop already ran
//	    }
//	}
//	return c.Stop()
//
// # State Machine
//
// Valid state transitions:
//   - Created -> Initializing (Init)
//   - Initializing, InitPolling -> InitPolling (InitLoop)
//   - Initializing, InitPolling -> Running (Start)
//   - Running -> Running (Loop)
//   - Running -> Stopped (Stop, Loop failure, Abort)
//   - Initializing, InitPolling -> Stopped (startup failure, Abort)
//
// The Stop hook runs exactly once for every session that reached Running.
// Telemetry is flushed once after every InitLoop and every Loop hook.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package opmode
