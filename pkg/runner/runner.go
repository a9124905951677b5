package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/opmode"
)

// ErrInvalidConfig is returned when runner configuration validation fails.
var ErrInvalidConfig = errors.New("runner: invalid configuration")

// Config controls session timing.
type Config struct {
	// CyclePeriod is the time between two hook invocations.
	CyclePeriod time.Duration

	// InitCycles is the number of InitLoop calls before Start when no start
	// signal is configured.
	InitCycles int

	// RunDuration ends the session after this long in Running. Zero runs
	// until the context is cancelled.
	RunDuration time.Duration
}

// DefaultConfig returns a Config with a 50 Hz cycle and a 30 second run.
func DefaultConfig() Config {
	return Config{
		CyclePeriod: 20 * time.Millisecond,
		RunDuration: 30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.CyclePeriod <= 0 {
		return fmt.Errorf("%w: cycle period must be positive", ErrInvalidConfig)
	}
	if c.InitCycles < 0 {
		return fmt.Errorf("%w: init cycles must not be negative", ErrInvalidConfig)
	}
	if c.RunDuration < 0 {
		return fmt.Errorf("%w: run duration must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Report summarises one session.
type Report struct {
	InitLoops int
	Loops     int
	Elapsed   time.Duration
	State     opmode.State
	Canceled  bool
}

// Option configures optional behavior of a Runner.
type Option func(*Runner)

// WithLogger sets the logger for the runner and its controllers.
func WithLogger(logger log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithInput sets the gamepad source polled before every hook.
func WithInput(input opmode.InputSource) Option {
	return func(r *Runner) {
		r.input = input
	}
}

// WithStartSignal makes the runner keep calling InitLoop until start is
// closed or receives a value, instead of counting InitCycles.
func WithStartSignal(start <-chan struct{}) Option {
	return func(r *Runner) {
		r.start = start
	}
}

// WithControllerOptions passes extra options to every controller.
func WithControllerOptions(opts ...opmode.Option) Option {
	return func(r *Runner) {
		r.controllerOpts = append(r.controllerOpts, opts...)
	}
}

// Runner schedules op mode sessions.
type Runner struct {
	config         Config
	logger         log.Logger
	input          opmode.InputSource
	start          <-chan struct{}
	controllerOpts []opmode.Option
}

// New creates a runner. Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		config: cfg,
		logger: log.NewNoopLogger(),
		input:  opmode.StaticInput{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes one complete session of mode using octx. It returns when the
// session reaches Stopped. A cancelled context ends the session normally
// (Report.Canceled is set); hook failures are returned as errors.
func (r *Runner) Run(ctx context.Context, name string, mode opmode.OpMode, octx *opmode.Context) (Report, error) {
	opts := append([]opmode.Option{opmode.WithName(name), opmode.WithLogger(r.logger)}, r.controllerOpts...)
	c, err := opmode.NewController(mode, octx, opts...)
	if err != nil {
		return Report{}, err
	}

	s := &session{Runner: r, name: name, ctrl: c, octx: octx}
	err = s.run(ctx)

	rep := s.report()
	r.logger.Info("session ended",
		log.String("opmode", name),
		log.Int("init_loops", rep.InitLoops),
		log.Int("loops", rep.Loops),
		log.Duration("elapsed", rep.Elapsed),
		log.Bool("canceled", rep.Canceled),
	)
	return rep, err
}

// session holds the per-run state of a Runner.
type session struct {
	*Runner
	name     string
	ctrl     *opmode.Controller
	octx     *opmode.Context
	canceled bool
}

func (s *session) run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.CyclePeriod)
	defer ticker.Stop()

	s.logger.Info("session starting", log.String("opmode", s.name))

	s.octx.SetGamepads(s.input)
	if err := s.ctrl.Init(); err != nil {
		return err
	}

	started, err := s.initPolling(ctx, ticker)
	if err != nil || !started {
		return err
	}

	s.octx.SetGamepads(s.input)
	if err := s.ctrl.Start(); err != nil {
		return err
	}

	var deadline <-chan time.Time
	if s.config.RunDuration > 0 {
		timer := time.NewTimer(s.config.RunDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		// Cancellation wins over a tick that is ready at the same time.
		if ctx.Err() != nil {
			s.canceled = true
			return s.ctrl.Abort("context canceled")
		}

		select {
		case <-ctx.Done():
			s.canceled = true
			return s.ctrl.Abort("context canceled")
		case <-deadline:
			return s.ctrl.Stop()
		case <-ticker.C:
			s.octx.SetGamepads(s.input)
			if err := s.ctrl.Loop(); err != nil {
				return err
			}
		}
	}
}

// initPolling calls InitLoop once per cycle until the start condition holds.
// It reports false when the session ended before Start.
func (s *session) initPolling(ctx context.Context, ticker *time.Ticker) (bool, error) {
	for n := 0; ; n++ {
		if s.start == nil && n >= s.config.InitCycles {
			return true, nil
		}
		if s.start != nil && signalled(s.start) {
			return true, nil
		}
		if ctx.Err() != nil {
			s.canceled = true
			return false, s.ctrl.Abort("context canceled during init")
		}

		select {
		case <-ctx.Done():
			s.canceled = true
			return false, s.ctrl.Abort("context canceled during init")
		case <-s.start:
			return true, nil
		case <-ticker.C:
		}

		s.octx.SetGamepads(s.input)
		if err := s.ctrl.InitLoop(); err != nil {
			return false, err
		}
	}
}

func (s *session) report() Report {
	return Report{
		InitLoops: s.ctrl.InitLoopCount(),
		Loops:     s.ctrl.LoopCount(),
		Elapsed:   time.Duration(s.octx.Time * float64(time.Second)),
		State:     s.ctrl.State(),
		Canceled:  s.canceled,
	}
}

func signalled(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
