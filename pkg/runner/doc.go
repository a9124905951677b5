// Package runner is a reference scheduler for op mode sessions.
//
// A Runner owns the timing of one session: it calls Init once, InitLoop every
// cycle until the start condition is met, Start, then Loop every cycle until
// the run duration elapses or the context is cancelled, and finally Stop.
// Gamepad snapshots are refreshed before every hook.
//
// # Usage
//
//	r, err := runner.New(runner.Config{CyclePeriod: 20 * time.Millisecond, RunDuration: 30 * time.Second},
//	    runner.WithLogger(logger),
//	    runner.WithInput(input),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := r.Run(ctx, "Drive", mode, octx)
//
// Cancelling ctx while Running still runs the Stop hook exactly once.
//
// Hosts that restart failed sessions can space the restarts with Backoff.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package runner
