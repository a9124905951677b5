package samples

import (
	"github.com/bft-labs/robocore/internal/sim"
	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/opmode"
)

// TankDrive maps the left and right sticks of gamepad 1 onto the drive
// motors. A opens the claw and B closes it when a claw is configured.
type TankDrive struct {
	opmode.Base

	left, right *sim.Motor
	claw        *sim.Servo
}

func (m *TankDrive) Init(c *opmode.Context) error {
	var err error
	if m.left, err = opmode.Lookup[*sim.Motor](c.Hardware, LeftDrive); err != nil {
		return err
	}
	if m.right, err = opmode.Lookup[*sim.Motor](c.Hardware, RightDrive); err != nil {
		return err
	}
	if m.claw, err = opmode.Lookup[*sim.Servo](c.Hardware, Claw); err != nil {
		c.Logger.Warn("claw not configured", log.Err(err))
	}
	c.Telemetry.AddData("status", "ready")
	return nil
}

func (m *TankDrive) Loop(c *opmode.Context) error {
	// Pushing a stick forward reads as negative Y.
	leftPower := -float64(c.Gamepad1.LeftStickY)
	rightPower := -float64(c.Gamepad1.RightStickY)

	if err := m.left.SetPower(leftPower); err != nil {
		return err
	}
	if err := m.right.SetPower(rightPower); err != nil {
		return err
	}

	if m.claw != nil {
		switch {
		case c.Gamepad1.A:
			if err := m.claw.SetPosition(1); err != nil {
				return err
			}
		case c.Gamepad1.B:
			if err := m.claw.SetPosition(0); err != nil {
				return err
			}
		}
	}

	leftPos, err := m.left.Position()
	if err != nil {
		return err
	}
	rightPos, err := m.right.Position()
	if err != nil {
		return err
	}
	c.Telemetry.AddData("left_power", leftPower)
	c.Telemetry.AddData("right_power", rightPower)
	c.Telemetry.AddData("left_ticks", leftPos)
	c.Telemetry.AddData("right_ticks", rightPos)
	return nil
}

func (m *TankDrive) Stop(c *opmode.Context) error {
	return stopMotors(m.left, m.right)
}

func stopMotors(motors ...*sim.Motor) error {
	for _, motor := range motors {
		if motor == nil {
			continue
		}
		if err := motor.SetPower(0); err != nil {
			return err
		}
	}
	return nil
}
