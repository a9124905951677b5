package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/robocore/internal/cliconfig"
	"github.com/bft-labs/robocore/internal/hwconfig"
	"github.com/bft-labs/robocore/internal/sim"
	"github.com/bft-labs/robocore/internal/telemetry"
	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/opmode"
	"github.com/bft-labs/robocore/pkg/runner"
)

// telemetryInterval matches the refresh rate of a driver station display.
const telemetryInterval = 250 * time.Millisecond

func newRunCmd(reg *opmode.Registry) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var waitStart bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an op mode against simulated hardware",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
				if !changed["hardware"] {
					cfg.HardwareFile = cliconfig.ResolveHardwarePath(cfgFile, cfg.HardwareFile)
				}
			}

			// Environment overrides the file; explicitly set flags win.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cliconfig.Logger(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger.Info("configuration", log.Any("config", cfg))

			entry, ok := reg.Lookup(cfg.OpMode)
			if !ok {
				return fmt.Errorf("%w: %q (see robocore list)", opmode.ErrUnknownOpMode, cfg.OpMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := &sessions{
				cfg:    cfg,
				entry:  entry,
				logger: logger,
			}
			if waitStart {
				s.start = enterPresses(cmd.InOrStdin())
			}
			if cfg.Watch {
				s.watcher = hwconfig.NewWatcher(cfg.HardwareFile, hwconfig.WithWatcherLogger(logger))
				if err := s.watcher.Start(ctx); err != nil {
					return err
				}
				defer s.watcher.Close()
			}
			return s.run(ctx)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.robocore/config.toml)")
	cmd.Flags().StringVar(&cfg.OpMode, "opmode", cfg.OpMode, "op mode to run (see robocore list)")
	cmd.Flags().StringVar(&cfg.HardwareFile, "hardware", cfg.HardwareFile, "TOML hardware file (default: built-in drive train)")
	cmd.Flags().DurationVar(&cfg.CyclePeriod, "period", cfg.CyclePeriod, "time between two hook invocations")
	cmd.Flags().DurationVar(&cfg.RunDuration, "duration", cfg.RunDuration, "how long to stay in Running (0 runs until interrupted)")
	cmd.Flags().IntVar(&cfg.InitCycles, "init-cycles", cfg.InitCycles, "init_loop cycles before start")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "restart the session when the hardware file changes")
	cmd.Flags().BoolVar(&cfg.Repeat, "repeat", cfg.Repeat, "run sessions back to back until interrupted")
	cmd.Flags().BoolVar(&waitStart, "wait-start", false, "keep calling init_loop until Enter is pressed")

	return cmd
}

// sessions runs one op mode repeatedly according to the configuration.
type sessions struct {
	cfg     cliconfig.Config
	entry   opmode.Entry
	logger  *log.ZerologAdapter
	watcher *hwconfig.Watcher
	start   <-chan struct{}
}

func (s *sessions) run(ctx context.Context) error {
	backoff := runner.NewBackoff(runner.DefaultBackoffInitial, runner.DefaultBackoffMax)
	for n := 1; ; n++ {
		hw, err := s.loadHardware()
		if err != nil {
			if s.watcher == nil {
				return err
			}
			s.logger.Error("hardware file rejected, waiting for a fix", log.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-s.watcher.Changes():
				continue
			}
		}

		reloaded, err := s.once(ctx, n, hw)
		if closeErr := hw.Close(); closeErr != nil {
			s.logger.Warn("close hardware", log.Err(closeErr))
		}
		if ctx.Err() != nil {
			return err
		}
		if err != nil {
			if !s.cfg.Repeat {
				return err
			}
			s.logger.Error("session failed, restarting",
				log.Err(err),
				log.Duration("backoff", backoff.Current()),
			)
			if backoff.Wait(ctx) != nil {
				return nil
			}
			continue
		}
		backoff.Reset()
		if reloaded {
			s.logger.Info("hardware file changed, restarting session")
			continue
		}
		if !s.cfg.Repeat {
			return nil
		}
	}
}

// once runs a single session. It reports whether the session was cut short
// by a hardware file change.
func (s *sessions) once(ctx context.Context, n int, hw *opmode.DeviceMap) (bool, error) {
	logger := s.logger.With(log.Int("session", n))

	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInput(driverScript(s.entry.Kind, s.cfg.CyclePeriod)),
	}
	if s.start != nil {
		logger.Info("press Enter to start")
		opts = append(opts, runner.WithStartSignal(s.start))
	}
	r, err := runner.New(s.cfg.RunnerConfig(), opts...)
	if err != nil {
		return false, err
	}

	mode, err := s.newOpMode()
	if err != nil {
		return false, err
	}

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan struct{}
	if s.watcher != nil {
		changes = s.watcher.Changes()
	}
	var reloaded atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-changes:
			reloaded.Store(true)
			cancel()
		case <-sessCtx.Done():
		}
	}()

	octx := &opmode.Context{
		Hardware:  hw,
		Telemetry: telemetry.NewSink(logger, telemetry.WithInterval(telemetryInterval)),
		Logger:    logger,
	}
	_, err = r.Run(sessCtx, s.entry.Name, mode, octx)
	cancel()
	<-done
	return reloaded.Load(), err
}

func (s *sessions) newOpMode() (opmode.OpMode, error) {
	mode := s.entry.New()
	if mode == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", opmode.ErrNilOpMode, s.entry.Name)
	}
	return mode, nil
}

func (s *sessions) loadHardware() (*opmode.DeviceMap, error) {
	f := hwconfig.Default()
	if s.cfg.HardwareFile != "" {
		var err error
		if f, err = hwconfig.Load(s.cfg.HardwareFile); err != nil {
			return nil, fmt.Errorf("load hardware: %w", err)
		}
	}
	return f.Build()
}

// driverScript returns simulated driver input. TeleOp modes see the driver
// push both sticks forward after one second and open the claw; autonomous
// modes see idle gamepads.
func driverScript(kind opmode.Kind, period time.Duration) opmode.InputSource {
	if kind != opmode.TeleOp {
		return sim.NewScript()
	}
	idle := sim.Frame{{ID: 1}, {ID: 2}}
	drive := sim.Frame{{ID: 1, LeftStickY: -0.8, RightStickY: -0.8, A: true}, {ID: 2}}
	settle := int(time.Second / period)
	return sim.NewScript(append(sim.Hold(idle, settle), drive)...)
}

// enterPresses delivers one value per line read from r. The channel is
// closed at end of input, which starts every later session immediately.
func enterPresses(r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- struct{}{}
		}
	}()
	return ch
}
