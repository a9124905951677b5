package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	OpMode       string `toml:"opmode"`
	HardwareFile string `toml:"hardware_file"`
	CyclePeriod  string `toml:"cycle_period"`
	InitCycles   int    `toml:"init_cycles"`
	RunDuration  string `toml:"run_duration"`
	LogLevel     string `toml:"log_level"`
	Watch        *bool  `toml:"watch"`
	Repeat       *bool  `toml:"repeat"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.robocore/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".robocore", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). A relative
// hardware_file is resolved against the directory of the config file.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("opmode", fc.OpMode, &cfg.OpMode)
	s.setString("hardware", fc.HardwareFile, &cfg.HardwareFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("period", fc.CyclePeriod, &cfg.CyclePeriod); err != nil {
		return err
	}
	if err := s.setDuration("duration", fc.RunDuration, &cfg.RunDuration); err != nil {
		return err
	}

	s.setInt("init-cycles", fc.InitCycles, &cfg.InitCycles)

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("repeat", fc.Repeat, &cfg.Repeat)

	return nil
}

// ResolveHardwarePath makes a hardware path from the config file absolute
// relative to that file's directory.
func ResolveHardwarePath(cfgFile, hardware string) string {
	if hardware == "" || filepath.IsAbs(hardware) || cfgFile == "" {
		return hardware
	}
	return filepath.Join(filepath.Dir(cfgFile), hardware)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
