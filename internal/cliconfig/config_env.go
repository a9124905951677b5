package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (ROBOCORE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("opmode", os.Getenv("ROBOCORE_OPMODE"), &cfg.OpMode)
	s.setString("hardware", os.Getenv("ROBOCORE_HARDWARE_FILE"), &cfg.HardwareFile)
	s.setString("log-level", os.Getenv("ROBOCORE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("period", os.Getenv("ROBOCORE_CYCLE_PERIOD"), &cfg.CyclePeriod); err != nil {
		return err
	}
	if err := s.setDuration("duration", os.Getenv("ROBOCORE_RUN_DURATION"), &cfg.RunDuration); err != nil {
		return err
	}

	if err := s.setIntFromString("init-cycles", os.Getenv("ROBOCORE_INIT_CYCLES"), &cfg.InitCycles); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("ROBOCORE_WATCH"), &cfg.Watch)
	s.setBoolFromString("repeat", os.Getenv("ROBOCORE_REPEAT"), &cfg.Repeat)

	return nil
}
