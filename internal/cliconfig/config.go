package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/runner"
)

// Config holds CLI configuration for robocore.
type Config struct {
	OpMode       string
	HardwareFile string

	CyclePeriod time.Duration
	InitCycles  int
	RunDuration time.Duration

	LogLevel string
	Watch    bool
	Repeat   bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	rc := runner.DefaultConfig()
	return Config{
		CyclePeriod: rc.CyclePeriod,
		InitCycles:  rc.InitCycles,
		RunDuration: rc.RunDuration,
		LogLevel:    log.DefaultLevel,
	}
}

// Validate checks the configuration for errors and normalises the log level.
func (c *Config) Validate() error {
	if c.OpMode == "" {
		return fmt.Errorf("opmode is required")
	}
	if c.CyclePeriod <= 0 {
		return fmt.Errorf("cycle period must be positive")
	}
	if c.InitCycles < 0 {
		return fmt.Errorf("init cycles must not be negative")
	}
	if c.RunDuration < 0 {
		return fmt.Errorf("run duration must not be negative")
	}
	if c.Watch && c.HardwareFile == "" {
		return fmt.Errorf("watch requires a hardware file")
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RunnerConfig returns the scheduler settings.
func (c Config) RunnerConfig() runner.Config {
	return runner.Config{
		CyclePeriod: c.CyclePeriod,
		InitCycles:  c.InitCycles,
		RunDuration: c.RunDuration,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero is accepted so the environment can turn init cycles off.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
