// Package hwconfig loads the TOML hardware file that describes which
// simulated devices exist and builds the device map handed to op modes.
package hwconfig

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/robocore/internal/sim"
	"github.com/bft-labs/robocore/pkg/opmode"
	"github.com/bft-labs/robocore/pkg/typeconv"
)

// Device types accepted in the hardware file.
const (
	TypeMotor         = "motor"
	TypeServo         = "servo"
	TypeVoltageSensor = "voltage_sensor"
)

// ErrInvalid is returned for hardware files that cannot be built.
var ErrInvalid = errors.New("hwconfig: invalid hardware file")

// File is the hardware configuration file.
//
//	byte_order = "big"
//
//	[[device]]
//	name = "left_drive"
//	type = "motor"
//	port = "0"
type File struct {
	// ByteOrder is the register byte order for devices that do not set one.
	ByteOrder string       `toml:"byte_order"`
	Devices   []DeviceSpec `toml:"device"`
}

// DeviceSpec describes one device.
type DeviceSpec struct {
	Name      string `toml:"name"`
	Type      string `toml:"type"`
	Port      string `toml:"port"`
	ByteOrder string `toml:"byte_order"`

	// Motor only.
	TicksPerSecond float64 `toml:"ticks_per_second"`
	// Voltage sensor only.
	Millivolts int `toml:"millivolts"`
}

// Default is the layout used when no hardware file is configured: a two
// motor drive train, a claw servo and the battery sensor.
func Default() File {
	return File{
		Devices: []DeviceSpec{
			{Name: "left_drive", Type: TypeMotor, Port: "0"},
			{Name: "right_drive", Type: TypeMotor, Port: "1"},
			{Name: "claw", Type: TypeServo, Port: "0"},
			{Name: "battery", Type: TypeVoltageSensor, Port: "i2c0"},
		},
	}
}

// Load reads and parses the hardware file at path.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(b)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a hardware file.
func Parse(b []byte) (File, error) {
	var f File
	if err := toml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks device names, types and byte orders.
func (f File) Validate() error {
	if _, err := typeconv.ParseByteOrder(f.ByteOrder); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	seen := make(map[string]bool, len(f.Devices))
	for i, d := range f.Devices {
		if d.Name == "" {
			return fmt.Errorf("%w: device %d has no name", ErrInvalid, i)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate device %q", ErrInvalid, d.Name)
		}
		seen[d.Name] = true

		switch d.Type {
		case TypeMotor, TypeServo, TypeVoltageSensor:
		default:
			return fmt.Errorf("%w: device %q has unknown type %q", ErrInvalid, d.Name, d.Type)
		}
		if _, err := typeconv.ParseByteOrder(d.ByteOrder); err != nil {
			return fmt.Errorf("%w: device %q: %v", ErrInvalid, d.Name, err)
		}
		if d.TicksPerSecond < 0 || d.Millivolts < 0 {
			return fmt.Errorf("%w: device %q has a negative rating", ErrInvalid, d.Name)
		}
	}
	return nil
}

// Build creates the simulated devices. opts apply to every device before
// the per-device settings.
func (f File) Build(opts ...sim.Option) (*opmode.DeviceMap, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	// Validate has already parsed both orders.
	fileOrder, _ := typeconv.ParseByteOrder(f.ByteOrder)

	hw := opmode.NewDeviceMap()
	for _, d := range f.Devices {
		order := fileOrder
		if d.ByteOrder != "" {
			order, _ = typeconv.ParseByteOrder(d.ByteOrder)
		}

		devOpts := append(append([]sim.Option(nil), opts...), sim.WithByteOrder(order))
		if d.TicksPerSecond > 0 {
			devOpts = append(devOpts, sim.WithTicksPerSecond(d.TicksPerSecond))
		}
		if d.Millivolts > 0 {
			devOpts = append(devOpts, sim.WithMillivolts(d.Millivolts))
		}

		var dev opmode.Device
		switch d.Type {
		case TypeMotor:
			dev = sim.NewMotor(d.Name, d.Port, devOpts...)
		case TypeServo:
			dev = sim.NewServo(d.Name, d.Port, devOpts...)
		case TypeVoltageSensor:
			dev = sim.NewVoltageSensor(d.Name, d.Port, devOpts...)
		}
		if err := hw.Put(dev); err != nil {
			return nil, errors.Join(err, hw.Close())
		}
	}
	return hw, nil
}
