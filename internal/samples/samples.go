// Package samples holds the op modes shipped with the CLI. They double as
// examples of hardware lookup and register access through typeconv.
package samples

import "github.com/bft-labs/robocore/pkg/opmode"

// Device names the samples expect, matching hwconfig.Default.
const (
	LeftDrive  = "left_drive"
	RightDrive = "right_drive"
	Claw       = "claw"
	Battery    = "battery"
)

// Register adds every sample op mode to reg.
func Register(reg *opmode.Registry) error {
	entries := []opmode.Entry{
		{Name: "Idle", Kind: opmode.TeleOp, Group: "Basic", New: func() opmode.OpMode { return &Idle{} }},
		{Name: "TankDrive", Kind: opmode.TeleOp, Group: "Drive", New: func() opmode.OpMode { return &TankDrive{} }},
		{Name: "EncoderDrive", Kind: opmode.Autonomous, Group: "Drive", New: func() opmode.OpMode {
			return &EncoderDrive{TargetTicks: DefaultTargetTicks, Power: DefaultDrivePower}
		}},
		{Name: "BatteryMonitor", Kind: opmode.TeleOp, Group: "Diagnostics", New: func() opmode.OpMode {
			return &BatteryMonitor{WarnBelow: DefaultWarnVolts}
		}},
	}
	for _, e := range entries {
		if err := reg.Register(e); err != nil {
			return err
		}
	}
	return nil
}
