package opmode

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/robocore/pkg/log"
)

// Option configures optional behavior of a Controller.
type Option func(*options)

type options struct {
	name    string
	logger  log.Logger
	clock   Clock
	emitter EventEmitter
}

// WithName sets the op mode name used in log lines.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger for transitions and hook failures.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces the wall clock used for Context.Time.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEventEmitter sets a callback for state changes. The callback runs
// while the controller is locked and must not call back into it.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}

// Controller drives one session of one OpMode. Its operations must be called
// by a single scheduler; a mutex keeps accidental concurrent calls from
// interleaving hooks.
type Controller struct {
	mu      sync.Mutex
	mode    OpMode
	ctx     *Context
	state   State
	name    string
	logger  log.Logger
	clock   Clock
	emitter EventEmitter

	startedAt time.Time
	initLoops int
	loops     int
}

// NewController creates a controller in StateCreated. The context's Time is
// reset to zero.
func NewController(mode OpMode, c *Context, opts ...Option) (*Controller, error) {
	if mode == nil {
		return nil, ErrNilOpMode
	}
	if c == nil || c.Telemetry == nil {
		return nil, ErrNilContext
	}

	o := options{
		name:   fmt.Sprintf("%T", mode),
		logger: log.NewNoopLogger(),
		clock:  wallClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	c.Time = 0
	if c.Logger == nil {
		c.Logger = o.logger
	}

	return &Controller{
		mode:    mode,
		ctx:     c,
		state:   StateCreated,
		name:    o.name,
		logger:  o.logger,
		clock:   o.clock,
		emitter: o.emitter,
	}, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Context returns the context lent to hooks.
func (c *Controller) Context() *Context {
	return c.ctx
}

// InitLoopCount returns how many times InitLoop has run.
func (c *Controller) InitLoopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initLoops
}

// LoopCount returns how many times Loop has run.
func (c *Controller) LoopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loops
}

// Init runs the Init hook. A failure stops the session without calling Stop.
func (c *Controller) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(StateInitializing, "init"); err != nil {
		return err
	}
	if err := c.invoke(HookInit, c.mode.Init); err != nil {
		c.abortStartup(err)
		return err
	}
	return nil
}

// InitLoop runs the InitLoop hook and flushes telemetry. A failure stops the
// session without calling Stop.
func (c *Controller) InitLoop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(StateInitPolling, "init_loop"); err != nil {
		return err
	}
	err := c.invoke(HookInitLoop, c.mode.InitLoop)
	c.initLoops++
	c.flush()
	if err != nil {
		c.abortStartup(err)
		return err
	}
	return nil
}

// Start runs the Start hook and enters Running. The session only counts as
// Running once Start returns, so a failing Start stops the session without
// calling Stop.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(StateRunning, StateInitializing, StateInitPolling); err != nil {
		return err
	}

	c.startedAt = c.clock.Now()
	c.ctx.Time = 0
	if err := c.invoke(HookStart, c.mode.Start); err != nil {
		c.abortStartup(err)
		return err
	}
	return c.transition(StateRunning, "start")
}

// Loop runs the Loop hook and flushes telemetry. A failure forces the session
// to Stopped, running the Stop hook first; the loop error is returned, joined
// with any stop error.
func (c *Controller) Loop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(StateRunning, StateRunning); err != nil {
		return err
	}

	c.ctx.Time = c.elapsed()
	err := c.invoke(HookLoop, c.mode.Loop)
	c.loops++
	c.flush()
	if err == nil {
		return nil
	}

	c.logger.Error("loop failed, stopping session",
		log.String("opmode", c.name),
		log.Int("loop", c.loops),
		log.Err(err),
	)
	if stopErr := c.stop("loop failed"); stopErr != nil {
		return errors.Join(err, stopErr)
	}
	return err
}

// Stop runs the Stop hook and ends the session. The session is Stopped even
// when the hook fails; the failure is returned.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(StateStopped, StateRunning); err != nil {
		return err
	}
	return c.stop("stop requested")
}

// Abort ends the session from any state. Stop runs only if the session is
// Running; before that the session simply ends.
func (c *Controller) Abort(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(StateStopped); err != nil {
		return err
	}
	if c.state == StateRunning {
		return c.stop(reason)
	}
	return c.transition(StateStopped, reason)
}

func (c *Controller) stop(reason string) error {
	c.ctx.Time = c.elapsed()
	err := c.invoke(HookStop, c.mode.Stop)
	if err != nil {
		c.logger.Error("stop failed",
			log.String("opmode", c.name),
			log.Err(err),
		)
	}
	if terr := c.transition(StateStopped, reason); terr != nil {
		return errors.Join(err, terr)
	}
	return err
}

func (c *Controller) abortStartup(err error) {
	c.logger.Error("session aborted during startup",
		log.String("opmode", c.name),
		log.String("state", c.state.String()),
		log.Err(err),
	)
	_ = c.transition(StateStopped, "startup failed")
}

// check validates a transition without performing it. When from is given,
// the current state must also be one of those states.
func (c *Controller) check(to State, from ...State) error {
	if c.state == StateStopped {
		return &TransitionError{From: c.state, To: to, Err: ErrSessionEnded}
	}
	if !CanTransition(c.state, to) || (len(from) > 0 && !containsState(from, c.state)) {
		return &TransitionError{From: c.state, To: to, Err: ErrInvalidTransition}
	}
	return nil
}

func containsState(states []State, s State) bool {
	for _, candidate := range states {
		if candidate == s {
			return true
		}
	}
	return false
}

// transition validates and applies a state change. Repeated states (Loop,
// InitLoop) are not reported.
func (c *Controller) transition(to State, reason string) error {
	if err := c.check(to); err != nil {
		return err
	}

	from := c.state
	c.state = to
	if from == to {
		return nil
	}

	if c.emitter != nil {
		c.emitter.OnStateChange(from, to, reason)
	}
	c.logger.Info("state transition",
		log.String("opmode", c.name),
		log.String("from", from.String()),
		log.String("to", to.String()),
		log.String("reason", reason),
	)
	return nil
}

// invoke runs a hook, converting a returned error or a panic into a *HookError.
func (c *Controller) invoke(h Hook, fn func(*Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HookError{Hook: h, Panic: r, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if herr := fn(c.ctx); herr != nil {
		return &HookError{Hook: h, Err: herr}
	}
	return nil
}

func (c *Controller) flush() {
	if err := c.ctx.Telemetry.Update(); err != nil {
		c.logger.Warn("telemetry flush failed",
			log.String("opmode", c.name),
			log.Err(err),
		)
	}
}

// elapsed returns seconds since Start, never less than the previous value.
func (c *Controller) elapsed() float64 {
	t := c.clock.Now().Sub(c.startedAt).Seconds()
	if t < c.ctx.Time {
		return c.ctx.Time
	}
	return t
}
